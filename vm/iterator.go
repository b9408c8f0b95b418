package vm

import (
	"encoding/binary"

	"github.com/govm-net/cwd/storage"
)

// iteratorTable tracks the range scans a guest has open. Identifiers increase
// monotonically for the lifetime of the instance and are never reused.
type iteratorTable struct {
	nextID int32
	open   map[int32]storage.Iterator
}

func newIteratorTable() *iteratorTable {
	return &iteratorTable{open: make(map[int32]storage.Iterator)}
}

func (t *iteratorTable) add(it storage.Iterator) int32 {
	t.nextID++
	t.open[t.nextID] = it
	return t.nextID
}

func (t *iteratorTable) next(id int32) (*storage.Record, error) {
	it, ok := t.open[id]
	if !ok {
		return nil, IteratorNotFoundError{ID: id}
	}
	return it.Next()
}

func (t *iteratorTable) close(id int32) error {
	it, ok := t.open[id]
	if !ok {
		return IteratorNotFoundError{ID: id}
	}
	delete(t.open, id)
	return it.Close()
}

func (t *iteratorTable) closeAll() {
	for id, it := range t.open {
		_ = it.Close()
		delete(t.open, id)
	}
}

// encodeRecord frames a key/value pair for transfer to the guest:
// 4-byte little-endian key length, the key, then the value.
func encodeRecord(rec *storage.Record) []byte {
	out := make([]byte, 4+len(rec.Key)+len(rec.Value))
	binary.LittleEndian.PutUint32(out[0:4], uint32(len(rec.Key)))
	copy(out[4:], rec.Key)
	copy(out[4+len(rec.Key):], rec.Value)
	return out
}
