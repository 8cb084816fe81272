package ledger

import (
	"errors"
	"fmt"

	"github.com/DrewWhite51/blockchain-poc/pow"
)

const (
	DEFAULT_DIFFICULTY         = 2
	DEFAULT_REWARD     float64 = 50
)

var ErrInvalidConfig = errors.New("invalid ledger config")

// Config is fixed for the lifetime of a Ledger.
type Config struct {
	Difficulty int
	Reward     float64
}

func DefaultConfig() Config {
	return Config{
		Difficulty: DEFAULT_DIFFICULTY,
		Reward:     DEFAULT_REWARD,
	}
}

func (c Config) Validate() error {
	if err := pow.CheckDifficulty(c.Difficulty); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if c.Reward < 0 {
		return fmt.Errorf("%w: negative reward %v", ErrInvalidConfig, c.Reward)
	}
	return nil
}
