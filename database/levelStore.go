package database

import (
	"errors"
	"fmt"
	"log"

	"github.com/DrewWhite51/blockchain-poc/blocks"
	"github.com/DrewWhite51/blockchain-poc/common"

	"github.com/syndtr/goleveldb/leveldb"
)

const (
	LEVEL_BLOCK_KEY  = "block:%s"
	LEVEL_HEIGHT_KEY = "height:%d"
)

// LevelStore keeps the same layout as BoltStore under prefixed keys.
type LevelStore struct {
	innerDb *leveldb.DB
}

var _ Store = (*LevelStore)(nil)

func OpenLevel(path string) (*LevelStore, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	log.Printf("leveldb database opened at %s\n", path)
	return &LevelStore{db}, nil
}

func (db *LevelStore) Close() error {
	return db.innerDb.Close()
}

func (db *LevelStore) get(key string) ([]byte, error) {
	v, err := db.innerDb.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, nil
	}
	return v, err
}

func (db *LevelStore) GetHeight() (uint64, error) {
	hex, err := db.get(HEIGHT_TAG)
	if err != nil {
		return 0, err
	}
	if hex == nil {
		return 0, ErrEmpty
	}
	return common.FromHex[uint64](hex)
}

func (db *LevelStore) GetLatest() (string, error) {
	hash, err := db.get(LATEST_TAG)
	if err != nil {
		return "", err
	}
	if hash == nil {
		return "", ErrEmpty
	}
	return string(hash), nil
}

func (db *LevelStore) GetBlockByHash(hash string) (*blocks.Block, error) {
	enc, err := db.get(fmt.Sprintf(LEVEL_BLOCK_KEY, hash))
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: hash %s", ErrNotFound, hash)
	}
	return common.Decode[blocks.Block](enc)
}

func (db *LevelStore) GetBlockByHeight(height uint64) (*blocks.Block, error) {
	hash, err := db.get(fmt.Sprintf(LEVEL_HEIGHT_KEY, height))
	if err != nil {
		return nil, err
	}
	if hash == nil {
		return nil, fmt.Errorf("%w: height %d", ErrNotFound, height)
	}
	return db.GetBlockByHash(string(hash))
}

func (db *LevelStore) PutBlock(block *blocks.Block) error {
	if err := checkNext(db, block); err != nil {
		return err
	}
	enc, err := common.Encode(block)
	if err != nil {
		return err
	}
	h, err := common.ToHex(block.Index)
	if err != nil {
		return err
	}

	batch := new(leveldb.Batch)
	batch.Put([]byte(fmt.Sprintf(LEVEL_BLOCK_KEY, block.Hash)), enc)
	batch.Put([]byte(fmt.Sprintf(LEVEL_HEIGHT_KEY, block.Index)), []byte(block.Hash))
	batch.Put([]byte(HEIGHT_TAG), h)
	batch.Put([]byte(LATEST_TAG), []byte(block.Hash))
	if err := db.innerDb.Write(batch, nil); err != nil {
		return fmt.Errorf("failed to store block: %w", err)
	}
	return nil
}

func (db *LevelStore) Blocks() ([]blocks.Block, error) {
	return collect(db)
}
