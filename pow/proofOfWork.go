package pow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"

	"github.com/DrewWhite51/blockchain-poc/blocks"
	"github.com/DrewWhite51/blockchain-poc/common"
)

const (
	MAX_NONCE      = math.MaxUint64
	MAX_DIFFICULTY = common.HASH_HEX_LEN
)

var (
	ErrNonceExhausted    = errors.New("nonce space exhausted")
	ErrInvalidDifficulty = errors.New("invalid difficulty")
)

type ProofOfWork struct {
	block      *blocks.Block
	difficulty int
}

func CheckDifficulty(difficulty int) error {
	if difficulty < 0 || difficulty > MAX_DIFFICULTY {
		return fmt.Errorf(
			"%w: %d (must be 0..%d)",
			ErrInvalidDifficulty, difficulty, MAX_DIFFICULTY,
		)
	}
	return nil
}

// MeetsDifficulty reports whether hash starts with difficulty '0' characters.
func MeetsDifficulty(hash string, difficulty int) bool {
	return common.HasLeadingZeros(hash, difficulty)
}

// MineBlock searches a nonce for b and sets its Nonce and Hash on success.
// On error b is left as it was.
func MineBlock(ctx context.Context, b *blocks.Block, difficulty int) error {
	pow, err := NewProofOfWork(b, difficulty)
	if err != nil {
		return err
	}
	nonce, hash, err := pow.Run(ctx)
	if err != nil {
		return err
	}

	b.Hash = hash
	b.Nonce = nonce
	return nil
}

func NewProofOfWork(b *blocks.Block, difficulty int) (*ProofOfWork, error) {
	if err := CheckDifficulty(difficulty); err != nil {
		return nil, err
	}
	pow := ProofOfWork{
		block:      b,
		difficulty: difficulty,
	}
	return &pow, nil
}

// Run searches linearly from the block's current nonce. ctx is checked once
// per nonce. The search works on a copy so the block is never half-mined.
func (pow *ProofOfWork) Run(ctx context.Context) (uint64, string, error) {
	candidate := *pow.block
	nonce := candidate.Nonce

	log.Printf(
		"mining block %d at difficulty %d\n",
		candidate.Index, pow.difficulty,
	)
	for {
		if err := ctx.Err(); err != nil {
			log.Printf("mining block %d aborted at nonce %d\n", candidate.Index, nonce)
			return 0, "", err
		}

		candidate.Nonce = nonce
		hash := candidate.CalculateHash()
		if MeetsDifficulty(hash, pow.difficulty) {
			log.Printf("mined hash:\n%s\nnonce: %d\n", hash, nonce)
			return nonce, hash, nil
		}
		if nonce == MAX_NONCE {
			return 0, "", ErrNonceExhausted
		}
		nonce++
	}
}

// Validate checks that the stored hash matches the block contents and
// satisfies the difficulty.
func (pow *ProofOfWork) Validate() bool {
	hash := pow.block.CalculateHash()
	if hash != pow.block.Hash {
		return false
	}
	return MeetsDifficulty(hash, pow.difficulty)
}
