package app

import (
	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"
)

// Storage layout of the ambient store. Engine metadata lives under short typed
// prefixes; each contract's own state lives under the contract namespace plus
// its address, scoped through a PrefixStore.
var (
	chainIDKey = []byte("chain_id")
	configKey  = []byte("config")

	codePrefix     = []byte("code:")
	accountPrefix  = []byte("acct:")
	contractPrefix = []byte("wasm:")
)

func codeKey(hash types.Hash) []byte {
	return append(append([]byte(nil), codePrefix...), hash[:]...)
}

func accountKey(addr types.Address) []byte {
	return append(append([]byte(nil), accountPrefix...), addr[:]...)
}

// contractStore scopes the shared store down to one contract's namespace. This
// prefix is the sole isolation mechanism between contracts.
func contractStore(store storage.Storage, addr types.Address) storage.PrefixStore {
	return storage.NewPrefixStore(store, contractPrefix, addr[:])
}
