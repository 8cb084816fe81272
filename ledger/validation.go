package ledger

import (
	"errors"
	"fmt"

	"github.com/DrewWhite51/blockchain-poc/blocks"
	"github.com/DrewWhite51/blockchain-poc/pow"
)

var (
	ErrInvalidChain   = errors.New("invalid chain")
	errIndex          = errors.New("index out of sequence")
	errRecordId       = errors.New("record id does not match contents")
	errHash           = errors.New("hash does not match contents")
	errLinkage        = errors.New("previous hash does not match")
	errDifficulty     = errors.New("hash does not meet difficulty")
	errGenesisLinkage = errors.New("genesis previous hash is not the sentinel")
)

func (l *Ledger) IsChainValid() bool {
	return l.Validate() == nil
}

// Validate walks the chain from genesis and stops at the first bad block.
// Genesis has no predecessor but its own hash and work are still checked.
func (l *Ledger) Validate() error {
	for i, b := range l.chain {
		var prev *blocks.Block
		if i > 0 {
			prev = l.chain[i-1]
		}
		if err := l.validateBlock(uint64(i), b, prev); err != nil {
			return fmt.Errorf("%w: block %d: %v", ErrInvalidChain, i, err)
		}
	}
	return nil
}

func (l *Ledger) validateBlock(pos uint64, b *blocks.Block, prev *blocks.Block) error {
	if b.Index != pos {
		return errIndex
	}
	for j := range b.Records {
		if b.Records[j].Id != b.Records[j].CalculateId() {
			return fmt.Errorf("%w: record %d", errRecordId, j)
		}
	}
	if b.Hash != b.CalculateHash() {
		return errHash
	}
	if b.IsGenesis() {
		if b.PreviousHash != blocks.GENESIS_PREVIOUS_HASH {
			return errGenesisLinkage
		}
	} else if b.PreviousHash != prev.Hash {
		return errLinkage
	}
	if !pow.MeetsDifficulty(b.Hash, l.config.Difficulty) {
		return errDifficulty
	}
	return nil
}
