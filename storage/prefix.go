package storage

// PrefixStore is a byte-range-prefixed projection of a parent store. Every key
// read or written is transparently prefixed with the concatenation of the
// namespace segments, and range scans are clamped to that prefix, so a holder
// can never observe or enumerate keys outside its namespace. This structural
// prefixing is the sole isolation mechanism between contracts.
type PrefixStore struct {
	parent Storage
	prefix []byte
}

// NewPrefixStore scopes parent to the namespace formed by concatenating the
// given segments.
func NewPrefixStore(parent Storage, segments ...[]byte) PrefixStore {
	var prefix []byte
	for _, seg := range segments {
		prefix = append(prefix, seg...)
	}
	return PrefixStore{parent: parent, prefix: prefix}
}

func (s PrefixStore) key(key []byte) []byte {
	out := make([]byte, 0, len(s.prefix)+len(key))
	out = append(out, s.prefix...)
	return append(out, key...)
}

func (s PrefixStore) Get(key []byte) ([]byte, error) {
	return s.parent.Get(s.key(key))
}

func (s PrefixStore) Set(key, value []byte) error {
	return s.parent.Set(s.key(key), value)
}

func (s PrefixStore) Remove(key []byte) error {
	return s.parent.Remove(s.key(key))
}

func (s PrefixStore) Scan(start, end []byte) (Iterator, error) {
	scanStart := s.key(start)
	var scanEnd []byte
	if end != nil {
		scanEnd = s.key(end)
	} else {
		scanEnd = prefixEnd(s.prefix)
	}
	it, err := s.parent.Scan(scanStart, scanEnd)
	if err != nil {
		return nil, err
	}
	return &prefixIterator{parent: it, prefixLen: len(s.prefix)}, nil
}

// prefixEnd returns the smallest key greater than every key with the given
// prefix, or nil if no such key exists (all bytes are 0xff).
func prefixEnd(prefix []byte) []byte {
	out := append([]byte(nil), prefix...)
	for i := len(out) - 1; i >= 0; i-- {
		if out[i] < 0xff {
			out[i]++
			return out[:i+1]
		}
	}
	return nil
}

type prefixIterator struct {
	parent    Iterator
	prefixLen int
}

func (it *prefixIterator) Next() (*Record, error) {
	rec, err := it.parent.Next()
	if rec == nil || err != nil {
		return nil, err
	}
	return &Record{Key: rec.Key[it.prefixLen:], Value: rec.Value}, nil
}

func (it *prefixIterator) Close() error {
	return it.parent.Close()
}
