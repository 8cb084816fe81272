package ledger

import (
	"context"
	"fmt"
	"log"

	"github.com/DrewWhite51/blockchain-poc/accounts"
	"github.com/DrewWhite51/blockchain-poc/blocks"
	"github.com/DrewWhite51/blockchain-poc/genesis"
	"github.com/DrewWhite51/blockchain-poc/memory"
	"github.com/DrewWhite51/blockchain-poc/pow"
	"github.com/DrewWhite51/blockchain-poc/records"
)

// Ledger is not safe for concurrent use; see Guarded.
type Ledger struct {
	config  Config
	chain   []*blocks.Block
	pending *memory.RecordPool
}

// New mines the genesis block before returning, which blocks for as long
// as the configured difficulty demands.
func New(ctx context.Context, cfg Config) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	g, err := genesis.MineGenesisBlock(ctx, cfg.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("mining genesis: %w", err)
	}

	l := Ledger{
		config:  cfg,
		chain:   []*blocks.Block{g},
		pending: memory.NewRecordPool(),
	}
	log.Printf(
		"ledger starts at\n difficulty: %d\n reward: %s\n genesis: %s\n",
		cfg.Difficulty, records.FormatAmount(cfg.Reward), g.Hash,
	)
	return &l, nil
}

// Restore rebuilds a ledger from previously sealed blocks. The chain must
// pass validation under cfg.
func Restore(cfg Config, chain []blocks.Block) (*Ledger, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(chain) == 0 {
		return nil, fmt.Errorf("%w: no genesis block", ErrInvalidChain)
	}

	l := Ledger{
		config:  cfg,
		chain:   make([]*blocks.Block, 0, len(chain)),
		pending: memory.NewRecordPool(),
	}
	for i := range chain {
		b := chain[i].Clone()
		l.chain = append(l.chain, &b)
	}
	if err := l.Validate(); err != nil {
		return nil, err
	}
	log.Printf("ledger restored at height: %d\n", l.Height())
	return &l, nil
}

func (l *Ledger) Config() Config {
	return l.config
}

// AddRecord queues rec for the next sealed block. Any sender may submit
// regardless of its balance.
func (l *Ledger) AddRecord(rec records.Record) error {
	if err := rec.ContentsCheck(); err != nil {
		return err
	}
	l.pending.Append(rec)
	return nil
}

func (l *Ledger) Submit(sender string, recipient string, amount float64) (string, error) {
	rec := records.NewRecord(sender, recipient, amount)
	if err := l.AddRecord(rec); err != nil {
		return "", err
	}
	return rec.Id, nil
}

// SealBlock mines every pending record plus a reward for miner into a new
// block. The candidate is detached until mining succeeds, so a cancelled or
// failed seal leaves both the chain and the pending buffer untouched.
func (l *Ledger) SealBlock(ctx context.Context, miner string) (*blocks.Block, error) {
	if len(miner) == 0 {
		return nil, &records.ValidationError{Field: "miner", Reason: "is empty"}
	}

	recs := l.pending.GetAll()
	recs = append(recs, genesis.NewRewardRecord(miner, l.config.Reward))

	latest := l.Latest()
	candidate := blocks.NewBlock(uint64(len(l.chain)), recs, latest.Hash)
	err := pow.MineBlock(ctx, candidate, l.config.Difficulty)
	if err != nil {
		return nil, fmt.Errorf("sealing block %d: %w", candidate.Index, err)
	}

	l.chain = append(l.chain, candidate)
	l.pending.Clear()
	log.Printf(
		"sealed block %d with %d records for miner %s\n",
		candidate.Index, len(candidate.Records), miner,
	)
	return candidate, nil
}

func (l *Ledger) Seal(ctx context.Context, miner string) (blocks.Summary, error) {
	b, err := l.SealBlock(ctx, miner)
	if err != nil {
		return blocks.Summary{}, err
	}
	return b.Summary(), nil
}

// GetBalance replays every record of every block. It does not check the
// chain for tampering.
func (l *Ledger) GetBalance(id string) float64 {
	var balance float64
	for _, b := range l.chain {
		for _, rec := range b.Records {
			if rec.Sender == id {
				balance -= rec.Amount
			}
			if rec.Recipient == id {
				balance += rec.Amount
			}
		}
	}
	return balance
}

func (l *Ledger) Balances() *accounts.Sheet {
	sheet := accounts.NewSheet()
	for _, b := range l.chain {
		for _, rec := range b.Records {
			sheet.Debit(rec.Sender, rec.Amount)
			sheet.Credit(rec.Recipient, rec.Amount)
		}
	}
	return sheet
}

func (l *Ledger) ChainSnapshot() []blocks.Summary {
	out := make([]blocks.Summary, 0, len(l.chain))
	for _, b := range l.chain {
		out = append(out, b.Summary())
	}
	return out
}

// Blocks returns deep copies of the chain for persistence.
func (l *Ledger) Blocks() []blocks.Block {
	out := make([]blocks.Block, 0, len(l.chain))
	for _, b := range l.chain {
		out = append(out, b.Clone())
	}
	return out
}

func (l *Ledger) Pending() []records.Record {
	return l.pending.GetAll()
}

// Height is the index of the latest block.
func (l *Ledger) Height() uint64 {
	return uint64(len(l.chain) - 1)
}

func (l *Ledger) Latest() blocks.Block {
	return l.chain[len(l.chain)-1].Clone()
}
