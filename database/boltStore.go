package database

import (
	"fmt"
	"log"

	"github.com/DrewWhite51/blockchain-poc/blocks"
	"github.com/DrewWhite51/blockchain-poc/common"

	bolt "go.etcd.io/bbolt"
)

const (
	BLOCKS_BUCKET = "blocks"
)

// BoltStore keys the blocks bucket by hash -> encoded block and
// big-endian height -> hash, plus latest and height shortcuts.
type BoltStore struct {
	innerDb *bolt.DB
}

var _ Store = (*BoltStore)(nil)

func OpenBolt(path string) (*BoltStore, error) {
	existed := common.ExistFile(path)
	db, err := bolt.Open(path, 0600, nil)
	if err != nil {
		return nil, err
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BLOCKS_BUCKET))
		return err
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	if existed {
		log.Printf("found existing bolt database at %s\n", path)
	} else {
		log.Printf("bolt database at %s is created\n", path)
	}
	return &BoltStore{db}, nil
}

func (db *BoltStore) Close() error {
	return db.innerDb.Close()
}

func (db *BoltStore) GetHeight() (uint64, error) {
	var hex []byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BLOCKS_BUCKET))
		if v := b.Get([]byte(HEIGHT_TAG)); v != nil {
			hex = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	if hex == nil {
		return 0, ErrEmpty
	}
	return common.FromHex[uint64](hex)
}

func (db *BoltStore) GetLatest() (string, error) {
	var hash []byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BLOCKS_BUCKET))
		hash = b.Get([]byte(LATEST_TAG))
		if hash != nil {
			hash = append([]byte{}, hash...)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	if hash == nil {
		return "", ErrEmpty
	}
	return string(hash), nil
}

func (db *BoltStore) GetBlockByHash(blockHash string) (*blocks.Block, error) {
	var enc []byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BLOCKS_BUCKET))
		if v := b.Get([]byte(blockHash)); v != nil {
			enc = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: hash %s", ErrNotFound, blockHash)
	}
	return common.Decode[blocks.Block](enc)
}

func (db *BoltStore) GetBlockByHeight(height uint64) (*blocks.Block, error) {
	var enc []byte
	err := db.innerDb.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BLOCKS_BUCKET))
		h, err := common.ToHex(height)
		if err != nil {
			return err
		}
		hash := b.Get(h)
		if hash == nil {
			return nil
		}
		if v := b.Get(hash); v != nil {
			enc = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if enc == nil {
		return nil, fmt.Errorf("%w: height %d", ErrNotFound, height)
	}
	return common.Decode[blocks.Block](enc)
}

func (db *BoltStore) PutBlock(block *blocks.Block) error {
	if err := checkNext(db, block); err != nil {
		return err
	}
	return db.innerDb.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(BLOCKS_BUCKET))
		enc, err := common.Encode(block)
		if err != nil {
			return err
		}
		err = b.Put([]byte(block.Hash), enc)
		if err != nil {
			return err
		}
		h, err := common.ToHex(block.Index)
		if err != nil {
			return err
		}
		err = b.Put(h, []byte(block.Hash))
		if err != nil {
			return err
		}

		err = b.Put([]byte(HEIGHT_TAG), h)
		if err != nil {
			return err
		}
		return b.Put([]byte(LATEST_TAG), []byte(block.Hash))
	})
}

func (db *BoltStore) Blocks() ([]blocks.Block, error) {
	return collect(db)
}
