package database

import (
	"errors"
	"fmt"

	"github.com/DrewWhite51/blockchain-poc/blocks"
)

const (
	BOLT_BACKEND  = "bolt"
	LEVEL_BACKEND = "level"
	LATEST_TAG    = "latest"
	HEIGHT_TAG    = "height"
)

var (
	ErrEmpty          = errors.New("store is empty")
	ErrNotFound       = errors.New("block not found")
	ErrHeightConflict = errors.New("height conflict")
	ErrUnknownBackend = errors.New("unknown backend")
	ErrLatestMismatch = errors.New("latest shortcut does not match chain tip")
)

// Store persists sealed blocks. Blocks must be put in height order starting
// at genesis.
type Store interface {
	PutBlock(block *blocks.Block) error
	GetBlockByHash(hash string) (*blocks.Block, error)
	GetBlockByHeight(height uint64) (*blocks.Block, error)
	GetHeight() (uint64, error)
	GetLatest() (string, error)
	Blocks() ([]blocks.Block, error)
	Close() error
}

func Open(backend string, path string) (Store, error) {
	switch backend {
	case BOLT_BACKEND:
		return OpenBolt(path)
	case LEVEL_BACKEND:
		return OpenLevel(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}

// PutChain stores every block above the store's current height.
func PutChain(s Store, chain []blocks.Block) (int, error) {
	next := uint64(0)
	height, err := s.GetHeight()
	switch {
	case err == nil:
		next = height + 1
	case !errors.Is(err, ErrEmpty):
		return 0, err
	}

	written := 0
	for i := range chain {
		if chain[i].Index < next {
			continue
		}
		if err := s.PutBlock(&chain[i]); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}

// checkNext rejects a block that does not extend the stored chain by one.
func checkNext(s Store, block *blocks.Block) error {
	height, err := s.GetHeight()
	if errors.Is(err, ErrEmpty) {
		if block.Index != 0 {
			return fmt.Errorf(
				"%w: empty store, received %d", ErrHeightConflict, block.Index,
			)
		}
		return nil
	}
	if err != nil {
		return err
	}
	if block.Index != height+1 {
		return fmt.Errorf(
			"%w: current %d, received %d", ErrHeightConflict, height, block.Index,
		)
	}
	return nil
}

func collect(s Store) ([]blocks.Block, error) {
	height, err := s.GetHeight()
	if errors.Is(err, ErrEmpty) {
		return []blocks.Block{}, nil
	}
	if err != nil {
		return nil, err
	}

	out := make([]blocks.Block, 0, height+1)
	for h := uint64(0); h <= height; h++ {
		b, err := s.GetBlockByHeight(h)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}

	latest, err := s.GetLatest()
	if err != nil {
		return nil, err
	}
	if tip := out[len(out)-1].Hash; latest != tip {
		return nil, fmt.Errorf("%w: latest %s, tip %s", ErrLatestMismatch, latest, tip)
	}
	return out, nil
}
