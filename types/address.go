// Package types defines the core value types shared by the execution engine:
// addresses, code hashes, coins, messages, execution contexts and events.
package types

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Address identifies an account on chain, human-controlled or contract-controlled.
type Address [20]byte

// Hash is a sha256 digest. Code is stored content-addressed under its hash.
type Hash [32]byte

var (
	ZeroAddress = Address{}
	ZeroHash    = Hash{}
)

func (a Address) String() string {
	return hex.EncodeToString(a[:])
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", text, err)
	}
	if len(raw) != len(a) {
		return fmt.Errorf("invalid address length: expected %d bytes, got %d", len(a), len(raw))
	}
	copy(a[:], raw)
	return nil
}

// AddressFromString parses a hex-encoded address, returning ZeroAddress on
// malformed input.
func AddressFromString(str string) Address {
	var a Address
	if err := a.UnmarshalText([]byte(str)); err != nil {
		return ZeroAddress
	}
	return a
}

func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Hash) UnmarshalText(text []byte) error {
	raw, err := hex.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("invalid hash %q: %w", text, err)
	}
	if len(raw) != len(h) {
		return fmt.Errorf("invalid hash length: expected %d bytes, got %d", len(h), len(raw))
	}
	copy(h[:], raw)
	return nil
}

// HashFromString parses a hex-encoded hash, returning ZeroHash on malformed
// input.
func HashFromString(str string) Hash {
	var h Hash
	if err := h.UnmarshalText([]byte(str)); err != nil {
		return ZeroHash
	}
	return h
}

// HashBytes computes the content hash of a byte slice. This is the sole key
// under which bytecode is stored.
func HashBytes(data []byte) Hash {
	return sha256.Sum256(data)
}

// DeriveAddress computes the deterministic address of a contract from its
// deployer, the hash of its code, and an arbitrary salt. The same triple
// always yields the same address.
func DeriveAddress(deployer Address, codeHash Hash, salt []byte) Address {
	h := sha256.New()
	h.Write(deployer[:])
	h.Write(codeHash[:])
	h.Write(salt)
	var addr Address
	copy(addr[:], h.Sum(nil))
	return addr
}
