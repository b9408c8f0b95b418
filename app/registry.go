package app

import (
	"encoding/json"
	"fmt"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"
)

// Code registry: content-addressed bytecode blobs. The key is the sha256
// digest of the blob, so a stored blob can never change under its hash.

func hasCode(store storage.Storage, hash types.Hash) (bool, error) {
	data, err := store.Get(codeKey(hash))
	if err != nil {
		return false, err
	}
	return data != nil, nil
}

// saveCode persists code under its digest and returns the digest. Storing a
// blob that is already present is an error; the existing entry is untouched.
func saveCode(store storage.Storage, code []byte) (types.Hash, error) {
	hash := types.HashBytes(code)

	exists, err := hasCode(store, hash)
	if err != nil {
		return types.Hash{}, err
	}
	if exists {
		return types.Hash{}, types.AlreadyExistsError{Kind: "code", Key: hash.String()}
	}

	if err := store.Set(codeKey(hash), code); err != nil {
		return types.Hash{}, err
	}
	return hash, nil
}

func loadCode(store storage.Storage, hash types.Hash) ([]byte, error) {
	data, err := store.Get(codeKey(hash))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, types.NotFoundError{Kind: "code", Key: hash.String()}
	}
	return data, nil
}

// Account registry: contract address to account metadata.

func loadAccount(store storage.Storage, addr types.Address) (*types.Account, error) {
	data, err := store.Get(accountKey(addr))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, types.NotFoundError{Kind: "account", Key: addr.String()}
	}
	var acct types.Account
	if err := json.Unmarshal(data, &acct); err != nil {
		return nil, fmt.Errorf("failed to unmarshal account: %w", err)
	}
	return &acct, nil
}

// createAccount writes account metadata for a fresh address. An address
// collision is an error; the existing account is untouched.
func createAccount(store storage.Storage, addr types.Address, acct *types.Account) error {
	existing, err := store.Get(accountKey(addr))
	if err != nil {
		return err
	}
	if existing != nil {
		return types.AlreadyExistsError{Kind: "account", Key: addr.String()}
	}

	data, err := json.Marshal(acct)
	if err != nil {
		return fmt.Errorf("failed to marshal account: %w", err)
	}
	return store.Set(accountKey(addr), data)
}
