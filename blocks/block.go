package blocks

import (
	"strconv"
	"time"

	"github.com/DrewWhite51/blockchain-poc/common"
	"github.com/DrewWhite51/blockchain-poc/records"
)

const (
	GENESIS_PREVIOUS_HASH = "0"
)

type Block struct {
	Index        uint64
	Timestamp    int64
	Records      []records.Record
	PreviousHash string
	Hash         string
	Nonce        uint64
}

// Summary is the read-only view handed to display and persistence hosts.
type Summary struct {
	Index        uint64
	Timestamp    int64
	Hash         string
	PreviousHash string
	Nonce        uint64
	RecordCount  int
}

// NewBlock leaves Hash empty until the block is mined.
func NewBlock(
	index uint64,
	recs []records.Record,
	previousHash string,
) *Block {
	return NewBlockAt(index, recs, previousHash, time.Now().UnixNano())
}

func NewBlockAt(
	index uint64,
	recs []records.Record,
	previousHash string,
	timestamp int64,
) *Block {
	block := Block{
		Index:        index,
		Timestamp:    timestamp,
		Records:      recs,
		PreviousHash: previousHash,
		Hash:         "",
		Nonce:        0,
	}
	return &block
}

// CalculateHash digests index, timestamp, record ids, previous hash and nonce
// in that order. It has no side effects.
func (b *Block) CalculateHash() string {
	return common.HashHex(
		strconv.FormatUint(b.Index, 10),
		strconv.FormatInt(b.Timestamp, 10),
		records.JoinIds(b.Records),
		b.PreviousHash,
		strconv.FormatUint(b.Nonce, 10),
	)
}

func (b *Block) IsGenesis() bool {
	return b.Index == 0
}

func (b *Block) Summary() Summary {
	return Summary{
		Index:        b.Index,
		Timestamp:    b.Timestamp,
		Hash:         b.Hash,
		PreviousHash: b.PreviousHash,
		Nonce:        b.Nonce,
		RecordCount:  len(b.Records),
	}
}

// Clone copies the block including its records.
func (b *Block) Clone() Block {
	c := *b
	c.Records = records.Clone(b.Records)
	return c
}
