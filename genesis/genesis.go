package genesis

import (
	"context"

	"github.com/DrewWhite51/blockchain-poc/blocks"
	"github.com/DrewWhite51/blockchain-poc/pow"
	"github.com/DrewWhite51/blockchain-poc/records"
)

const (
	NETWORK_SENDER    = "network"
	GENESIS_RECIPIENT = "genesis"
)

func NewGenesisRecord() records.Record {
	return records.NewRecord(NETWORK_SENDER, GENESIS_RECIPIENT, 0)
}

func NewRewardRecord(miner string, reward float64) records.Record {
	return records.NewRecord(NETWORK_SENDER, miner, reward)
}

// MineGenesisBlock blocks until the genesis block satisfies difficulty.
func MineGenesisBlock(ctx context.Context, difficulty int) (*blocks.Block, error) {
	genesis := blocks.NewBlock(
		0,
		[]records.Record{NewGenesisRecord()},
		blocks.GENESIS_PREVIOUS_HASH,
	)
	err := pow.MineBlock(ctx, genesis, difficulty)
	if err != nil {
		return nil, err
	}
	return genesis, nil
}
