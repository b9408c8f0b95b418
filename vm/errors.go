// Package vm builds and drives sandboxed wasm instances over wazero, exposing
// the fixed host-function contract (memory region transfer, the iterator
// protocol, gas accounting) and the error taxonomy governing it.
package vm

import (
	"errors"
	"fmt"
)

// Host programming errors. The memory and instance handles of an Environment
// are each set exactly once per instance lifetime; hitting one of these means
// a bug in the host, not guest misbehavior, and should be unreachable.
var (
	ErrMemoryNotSet       = errors.New("memory not set in environment")
	ErrMemoryAlreadySet   = errors.New("memory already set in environment")
	ErrInstanceNotSet     = errors.New("instance not set in environment")
	ErrInstanceAlreadySet = errors.New("instance already set in environment")
)

// ErrGasDepletion reports that gas ran out during guest instruction execution.
// It is unconditionally fatal to the call: the call aborts with no partial
// effects visible. Not to be confused with OutOfGasError.
var ErrGasDepletion = errors.New("ran out of gas during contract execution")

// ErrReadOnly reports a storage mutation attempted by an instance built in
// read-only (query/simulate) mode.
var ErrReadOnly = errors.New("state mutation attempted on read-only instance")

// OutOfGasError reports that gas ran out while performing work inside a host
// import call. It is recoverable at host-call granularity, unlike
// ErrGasDepletion which is detected inside the guest.
type OutOfGasError struct {
	Remaining uint64
	Requested uint64
}

func (e OutOfGasError) Error() string {
	return fmt.Sprintf("out of gas in host call: remaining %d, requested %d", e.Remaining, e.Requested)
}

// IteratorNotFoundError reports a next/close against an iterator id the host
// never issued or already closed.
type IteratorNotFoundError struct {
	ID int32
}

func (e IteratorNotFoundError) Error() string {
	return fmt.Sprintf("iterator with id `%d` not found", e.ID)
}

// RegionTooSmallError reports a guest memory region descriptor that cannot
// hold the data being transferred, or that points outside guest memory.
type RegionTooSmallError struct {
	Offset   uint32
	Capacity uint32
	DataLen  int
}

func (e RegionTooSmallError) Error() string {
	return fmt.Sprintf("region too small: offset %d, capacity %d, data length %d", e.Offset, e.Capacity, e.DataLen)
}

// ReturnCountError reports a guest function returning an unexpected number of
// values.
type ReturnCountError struct {
	Name   string
	Expect int
	Actual int
}

func (e ReturnCountError) Error() string {
	return fmt.Sprintf("unexpected return value count: name %s, expect %d, actual %d", e.Name, e.Expect, e.Actual)
}

// ReturnTypeError reports a guest function returning a value outside the
// declared type's range.
type ReturnTypeError struct {
	Name string
}

func (e ReturnTypeError) Error() string {
	return fmt.Sprintf("unexpected return type from %s", e.Name)
}

// ExportError reports a missing guest export, e.g. a contract that does not
// implement a required entry point.
type ExportError struct {
	Name string
}

func (e ExportError) Error() string {
	return fmt.Sprintf("function `%s` not exported by contract", e.Name)
}
