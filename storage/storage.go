// Package storage defines the minimal key-value contract the execution engine
// runs on, the prefix scoper that isolates contract namespaces, and the
// pluggable backends implementing it.
package storage

// Record is a single key/value entry yielded by an iterator.
type Record struct {
	Key   []byte
	Value []byte
}

// Iterator walks records in ascending key order. Next returns (nil, nil) when
// exhausted. Callers own the returned slices.
type Iterator interface {
	Next() (*Record, error)
	Close() error
}

// Storage is the ambient key-value store. Handles have value semantics over a
// shared backing structure: copying a handle is cheap and both copies observe
// the same data. Get returns (nil, nil) for an absent key. Scan iterates the
// half-open range [start, end); a nil start means the beginning, a nil end
// means the end of the keyspace.
//
// Access within the processing of one message is single-threaded; backends
// are not required to support concurrent mutation.
type Storage interface {
	Get(key []byte) ([]byte, error)
	Set(key, value []byte) error
	Remove(key []byte) error
	Scan(start, end []byte) (Iterator, error)
}
