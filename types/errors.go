package types

import (
	"errors"
	"fmt"
)

// Application-level error sentinels. These abort only the current message and
// propagate to the caller unchanged.
var (
	ErrOverflow  = errors.New("amount overflow")
	ErrUnderflow = errors.New("amount cannot be reduced below zero")
)

// NotFoundError reports a missing entry in one of the registries.
type NotFoundError struct {
	Kind string // "code", "account", "config", "chain id"
	Key  string
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s with key `%s` not found", e.Kind, e.Key)
}

// AlreadyExistsError reports a duplicate code hash or a contract address
// collision. Existing entries are never overwritten.
type AlreadyExistsError struct {
	Kind string
	Key  string
}

func (e AlreadyExistsError) Error() string {
	return fmt.Sprintf("%s with key `%s` already exists", e.Kind, e.Key)
}

// DenomNotFoundError reports a decrease against a denomination that is not
// present in a Coins map.
type DenomNotFoundError struct {
	Denom string
}

func (e DenomNotFoundError) Error() string {
	return fmt.Sprintf("denom `%s` not found", e.Denom)
}

// ParseCoinsError reports a malformed coin string or JSON payload.
type ParseCoinsError struct {
	Reason string
}

func (e ParseCoinsError) Error() string {
	return "failed to parse coins: " + e.Reason
}

func IsNotFound(err error) bool {
	var e NotFoundError
	return errors.As(err, &e)
}

func IsAlreadyExists(err error) bool {
	var e AlreadyExistsError
	return errors.As(err, &e)
}
