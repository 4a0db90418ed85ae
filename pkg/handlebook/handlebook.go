// Package handlebook records, on the caller's machine, the storage handle
// returned for every key the caller added. The ledger only knows keys and
// the storage backend only knows handles, so without the book a key cannot
// be read back.
package handlebook

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

const keyPrefix = "handle_"

var ErrNotFound = errors.New("handlebook: not found")

type Entry struct {
	Key         string    `json:"key"`
	Handle      string    `json:"handle"`
	Fingerprint string    `json:"fingerprint"`
	Length      uint64    `json:"length"`
	Owner       string    `json:"owner"`
	Created     time.Time `json:"created"`
}

type IterFunc func(e Entry) (stop bool, err error)

type Book struct {
	db *leveldb.DB
}

func Open(dir string) (*Book, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, err
	}
	return &Book{db: db}, nil
}

func (b *Book) Close() error {
	return b.db.Close()
}

func dbKey(owner, key string) []byte {
	return []byte(keyPrefix + owner + "/" + key)
}

// Put records e, replacing an earlier entry of the same owner and key.
func (b *Book) Put(e Entry) error {
	v, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return b.db.Put(dbKey(e.Owner, e.Key), v, nil)
}

func (b *Book) Get(owner, key string) (Entry, error) {
	v, err := b.db.Get(dbKey(owner, key), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return Entry{}, ErrNotFound
		}
		return Entry{}, err
	}
	var e Entry
	if err := json.Unmarshal(v, &e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

func (b *Book) Delete(owner, key string) error {
	return b.db.Delete(dbKey(owner, key), nil)
}

// Iterate visits the entries of owner in key order. An empty owner visits
// every entry.
func (b *Book) Iterate(owner string, fn IterFunc) error {
	prefix := keyPrefix
	if owner != "" {
		prefix += owner + "/"
	}
	iter := b.db.NewIterator(util.BytesPrefix([]byte(prefix)), nil)
	defer iter.Release()

	for iter.Next() {
		var e Entry
		if err := json.Unmarshal(iter.Value(), &e); err != nil {
			return err
		}
		stop, err := fn(e)
		if err != nil {
			return err
		}
		if stop {
			break
		}
	}
	return iter.Error()
}
