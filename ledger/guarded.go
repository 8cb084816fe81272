package ledger

import (
	"context"
	"errors"
	"sync"

	"github.com/DrewWhite51/blockchain-poc/blocks"

	"golang.org/x/time/rate"
)

var ErrThrottled = errors.New("submission throttled")

// Service is the surface exposed to hosts that share one ledger.
type Service interface {
	Submit(sender string, recipient string, amount float64) (string, error)
	Seal(ctx context.Context, miner string) (blocks.Summary, error)
	IsValid() bool
	BalanceOf(id string) float64
	ChainSnapshot() []blocks.Summary
}

// Guarded serialises writers and lets readers overlap each other.
type Guarded struct {
	mu      sync.RWMutex
	ledger  *Ledger
	limiter *rate.Limiter
}

var _ Service = (*Guarded)(nil)

// NewGuarded throttles Submit to limit calls per second with the given
// burst. A limit <= 0 leaves Submit unthrottled.
func NewGuarded(l *Ledger, limit rate.Limit, burst int) *Guarded {
	g := Guarded{ledger: l}
	if limit > 0 {
		g.limiter = rate.NewLimiter(limit, burst)
	}
	return &g
}

func (g *Guarded) Submit(sender string, recipient string, amount float64) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.limiter != nil && !g.limiter.Allow() {
		return "", ErrThrottled
	}
	return g.ledger.Submit(sender, recipient, amount)
}

// Seal holds the write lock for the whole mine.
func (g *Guarded) Seal(ctx context.Context, miner string) (blocks.Summary, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.ledger.Seal(ctx, miner)
}

func (g *Guarded) IsValid() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ledger.IsChainValid()
}

func (g *Guarded) BalanceOf(id string) float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ledger.GetBalance(id)
}

func (g *Guarded) ChainSnapshot() []blocks.Summary {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ledger.ChainSnapshot()
}

// Blocks exports deep copies for a persistence host.
func (g *Guarded) Blocks() []blocks.Block {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.ledger.Blocks()
}
