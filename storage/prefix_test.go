package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, it Iterator) []Record {
	t.Helper()
	var out []Record
	for {
		rec, err := it.Next()
		require.NoError(t, err)
		if rec == nil {
			break
		}
		out = append(out, *rec)
	}
	require.NoError(t, it.Close())
	return out
}

func TestPrefixStoreIsolation(t *testing.T) {
	base := NewMemStore()
	storeA := NewPrefixStore(base, []byte("wasm/"), []byte("aaaa"))
	storeB := NewPrefixStore(base, []byte("wasm/"), []byte("bbbb"))

	require.NoError(t, storeA.Set([]byte("balance"), []byte("100")))

	// the raw store sees only the namespace-prefixed form
	raw, err := base.Get([]byte("balance"))
	require.NoError(t, err)
	assert.Nil(t, raw)
	raw, err = base.Get([]byte("wasm/aaaabalance"))
	require.NoError(t, err)
	assert.Equal(t, []byte("100"), raw)

	// a sibling namespace cannot read it
	got, err := storeB.Get([]byte("balance"))
	require.NoError(t, err)
	assert.Nil(t, got)

	// nor enumerate it
	it, err := storeB.Scan(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, collect(t, it))
}

func TestPrefixStoreScanBounds(t *testing.T) {
	base := NewMemStore()
	store := NewPrefixStore(base, []byte("p/"))

	require.NoError(t, base.Set([]byte("o"), []byte("before")))
	require.NoError(t, store.Set([]byte("a"), []byte("1")))
	require.NoError(t, store.Set([]byte("b"), []byte("2")))
	require.NoError(t, store.Set([]byte("c"), []byte("3")))
	require.NoError(t, base.Set([]byte("q"), []byte("after")))

	// unbounded scan stays inside the prefix and strips it from keys
	it, err := store.Scan(nil, nil)
	require.NoError(t, err)
	recs := collect(t, it)
	require.Len(t, recs, 3)
	assert.Equal(t, []byte("a"), recs[0].Key)
	assert.Equal(t, []byte("c"), recs[2].Key)

	// bounded scan is half-open
	it, err = store.Scan([]byte("a"), []byte("c"))
	require.NoError(t, err)
	recs = collect(t, it)
	require.Len(t, recs, 2)
	assert.Equal(t, []byte("b"), recs[1].Key)
}

func TestPrefixStoreNested(t *testing.T) {
	base := NewMemStore()
	outer := NewPrefixStore(base, []byte("outer/"))
	inner := NewPrefixStore(outer, []byte("inner/"))

	require.NoError(t, inner.Set([]byte("k"), []byte("v")))

	raw, err := base.Get([]byte("outer/inner/k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), raw)
}

func TestPrefixEnd(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x03}, prefixEnd([]byte{0x01, 0x02}))
	assert.Equal(t, []byte{0x02}, prefixEnd([]byte{0x01, 0xff}))
	assert.Nil(t, prefixEnd([]byte{0xff, 0xff}))
}
