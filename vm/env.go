package vm

import (
	"context"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"

	"github.com/tetratelabs/wazero/api"
)

// Querier is the read-only facade into global chain state exposed to a
// sandboxed instance during any call, including read-only ones.
type Querier interface {
	Query(req *types.QueryRequest) (*types.QueryResponse, error)
}

// Environment is what the host import functions operate against: the
// contract's scoped store, the query facade, the gas meter, and the handles
// into the running instance.
//
// The memory and module handles are each set exactly once, right after module
// instantiation, and must be set before any entry point is called.
type Environment struct {
	ctx      context.Context
	store    storage.Storage
	querier  Querier
	gas      *GasMeter
	readonly bool

	iterators *iteratorTable

	memory api.Memory
	module api.Module

	// the typed error behind the most recent host-function abort, preserved
	// across the wazero panic/trap boundary
	hostErr error
}

func newEnvironment(store storage.Storage, querier Querier, gas *GasMeter, readonly bool) *Environment {
	return &Environment{
		store:     store,
		querier:   querier,
		gas:       gas,
		readonly:  readonly,
		iterators: newIteratorTable(),
	}
}

func (e *Environment) SetMemory(mem api.Memory) error {
	if e.memory != nil {
		return ErrMemoryAlreadySet
	}
	e.memory = mem
	return nil
}

func (e *Environment) Memory() (api.Memory, error) {
	if e.memory == nil {
		return nil, ErrMemoryNotSet
	}
	return e.memory, nil
}

func (e *Environment) SetModule(mod api.Module) error {
	if e.module != nil {
		return ErrInstanceAlreadySet
	}
	e.module = mod
	return nil
}

func (e *Environment) Module() (api.Module, error) {
	if e.module == nil {
		return nil, ErrInstanceNotSet
	}
	return e.module, nil
}

// fail records err as the call's typed failure and aborts the current guest
// execution. wazero recovers the panic and surfaces it as a trap from the
// entry point call; takeHostErr then recovers the typed error.
func (e *Environment) fail(err error) {
	e.hostErr = err
	panic(err)
}

// takeHostErr returns and clears the recorded host failure, if any.
func (e *Environment) takeHostErr() error {
	err := e.hostErr
	e.hostErr = nil
	return err
}
