package storage

import (
	"github.com/syndtr/goleveldb/leveldb/comparer"
	"github.com/syndtr/goleveldb/leveldb/iterator"
	"github.com/syndtr/goleveldb/leveldb/memdb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

func init() {
	err := Register(MemoryBackend, func(params map[string]any) (Storage, error) {
		return NewMemStore(), nil
	})
	if err != nil {
		panic(err)
	}
}

// MemStore is an in-memory ordered key-value store backed by goleveldb's
// memdb. All copies of a handle share the same backing skiplist.
type MemStore struct {
	db *memdb.DB
}

func NewMemStore() *MemStore {
	return &MemStore{db: memdb.New(comparer.DefaultComparer, 0)}
}

func (s *MemStore) Get(key []byte) ([]byte, error) {
	value, err := s.db.Get(key)
	if err == memdb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	// a present empty value must read back non-nil; nil means absent
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

func (s *MemStore) Set(key, value []byte) error {
	return s.db.Put(key, value)
}

func (s *MemStore) Remove(key []byte) error {
	if err := s.db.Delete(key); err != nil && err != memdb.ErrNotFound {
		return err
	}
	return nil
}

func (s *MemStore) Scan(start, end []byte) (Iterator, error) {
	return &memIterator{it: s.db.NewIterator(&util.Range{Start: start, Limit: end})}, nil
}

type memIterator struct {
	it iterator.Iterator
}

func (it *memIterator) Next() (*Record, error) {
	if !it.it.Next() {
		return nil, it.it.Error()
	}
	// the underlying iterator reuses its buffers
	return &Record{
		Key:   append([]byte(nil), it.it.Key()...),
		Value: append([]byte(nil), it.it.Value()...),
	}, nil
}

func (it *memIterator) Close() error {
	it.it.Release()
	return it.it.Error()
}
