// Package app is the execution engine: it dispatches state-transition
// messages, keeps the code and account registries, orchestrates the
// transaction lifecycle hooks, and runs submessages to a bounded depth.
//
// The engine owns no ambient state. Every operation takes the store it acts
// on explicitly; snapshot and rollback of that store across transactions is
// the caller's concern.
package app

import (
	"encoding/json"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"
	"github.com/govm-net/cwd/vm"

	"github.com/rs/zerolog"
)

// DefaultGasLimit is the per-call gas budget when the caller does not set one.
const DefaultGasLimit = 10_000_000

// ContractInstance is one sandboxed execution unit as the dispatcher sees it.
// *vm.Instance is the production implementation.
type ContractInstance interface {
	CallInstantiate(ctx *types.Context, msg []byte) (*types.Response, error)
	CallExecute(ctx *types.Context, msg []byte) (*types.Response, error)
	CallTransfer(ctx *types.Context, msg *types.TransferMsg) (*types.Response, error)
	CallBeforeTx(ctx *types.Context, tx *types.Tx) (*types.Response, error)
	CallAfterTx(ctx *types.Context, tx *types.Tx) (*types.Response, error)
	CallReply(ctx *types.Context, msg []byte) (*types.Response, error)
	CallQuery(ctx *types.Context, msg []byte) (json.RawMessage, error)
	GasUsed() uint64
	Close() error
}

// InstanceBuilder constructs a fresh instance for one call. The store it
// receives is already scoped to the contract's namespace.
type InstanceBuilder interface {
	Build(store storage.Storage, querier vm.Querier, code []byte, opts vm.Options) (ContractInstance, error)
}

// wazeroBuilder is the production builder, backed by the wazero sandbox.
type wazeroBuilder struct{}

func (wazeroBuilder) Build(store storage.Storage, querier vm.Querier, code []byte, opts vm.Options) (ContractInstance, error) {
	return vm.Build(store, querier, code, opts)
}

// App is the engine's dependency container.
type App struct {
	builder  InstanceBuilder
	logger   zerolog.Logger
	gasLimit uint64
}

type Option func(*App)

// WithBuilder swaps the sandbox implementation, used by tests to substitute a
// recording fake for real bytecode.
func WithBuilder(b InstanceBuilder) Option {
	return func(a *App) { a.builder = b }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(a *App) { a.logger = logger }
}

func WithGasLimit(limit uint64) Option {
	return func(a *App) { a.gasLimit = limit }
}

func NewApp(opts ...Option) *App {
	a := &App{
		builder:  wazeroBuilder{},
		logger:   zerolog.Nop(),
		gasLimit: DefaultGasLimit,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// buildContext assembles the per-call context. It is constructed fresh for
// every call and never reused.
func buildContext(chainID string, block *types.BlockInfo, contract types.Address) *types.Context {
	simulate := false
	return &types.Context{
		ChainID:        chainID,
		BlockHeight:    block.Height,
		BlockTimestamp: block.Timestamp,
		BlockHash:      block.Hash,
		Contract:       contract,
		Simulate:       &simulate,
	}
}
