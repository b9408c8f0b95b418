package app

import (
	"encoding/json"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"
	"github.com/govm-net/cwd/vm"
)

// mockVM stands in for the wazero sandbox: it records every entry-point call
// in order and lets a test program the behavior per entry point. One mockVM
// serves all contracts; handlers branch on ctx.Contract where it matters.
// querier holds the facade handed to the most recently built instance, so a
// handler can query the chain the way a real contract would.
type mockVM struct {
	calls   []mockCall
	querier vm.Querier

	onTransfer    func(ctx *types.Context, msg *types.TransferMsg) (*types.Response, error)
	onInstantiate func(ctx *types.Context, msg []byte) (*types.Response, error)
	onExecute     func(ctx *types.Context, msg []byte) (*types.Response, error)
	onReply       func(ctx *types.Context) (*types.Response, error)
	onBeforeTx    func(ctx *types.Context, tx *types.Tx) (*types.Response, error)
	onAfterTx     func(ctx *types.Context, tx *types.Tx) (*types.Response, error)
	onQuery       func(ctx *types.Context, msg []byte) (json.RawMessage, error)
}

type mockCall struct {
	entry string
	ctx   types.Context
}

func (m *mockVM) record(entry string, ctx *types.Context) {
	m.calls = append(m.calls, mockCall{entry: entry, ctx: *ctx})
}

func (m *mockVM) entries() []string {
	out := make([]string, len(m.calls))
	for i, c := range m.calls {
		out[i] = c.entry
	}
	return out
}

func (m *mockVM) Build(store storage.Storage, querier vm.Querier, code []byte, opts vm.Options) (ContractInstance, error) {
	m.querier = querier
	return &mockInstance{vm: m}, nil
}

type mockInstance struct {
	vm *mockVM
}

func (i *mockInstance) CallInstantiate(ctx *types.Context, msg []byte) (*types.Response, error) {
	i.vm.record("instantiate", ctx)
	if i.vm.onInstantiate != nil {
		return i.vm.onInstantiate(ctx, msg)
	}
	return &types.Response{}, nil
}

func (i *mockInstance) CallExecute(ctx *types.Context, msg []byte) (*types.Response, error) {
	i.vm.record("execute", ctx)
	if i.vm.onExecute != nil {
		return i.vm.onExecute(ctx, msg)
	}
	return &types.Response{}, nil
}

func (i *mockInstance) CallTransfer(ctx *types.Context, msg *types.TransferMsg) (*types.Response, error) {
	i.vm.record("transfer", ctx)
	if i.vm.onTransfer != nil {
		return i.vm.onTransfer(ctx, msg)
	}
	return &types.Response{}, nil
}

func (i *mockInstance) CallBeforeTx(ctx *types.Context, tx *types.Tx) (*types.Response, error) {
	i.vm.record("before_tx", ctx)
	if i.vm.onBeforeTx != nil {
		return i.vm.onBeforeTx(ctx, tx)
	}
	return &types.Response{}, nil
}

func (i *mockInstance) CallAfterTx(ctx *types.Context, tx *types.Tx) (*types.Response, error) {
	i.vm.record("after_tx", ctx)
	if i.vm.onAfterTx != nil {
		return i.vm.onAfterTx(ctx, tx)
	}
	return &types.Response{}, nil
}

func (i *mockInstance) CallReply(ctx *types.Context, msg []byte) (*types.Response, error) {
	i.vm.record("reply", ctx)
	if i.vm.onReply != nil {
		return i.vm.onReply(ctx)
	}
	return &types.Response{}, nil
}

func (i *mockInstance) CallQuery(ctx *types.Context, msg []byte) (json.RawMessage, error) {
	i.vm.record("query", ctx)
	if i.vm.onQuery != nil {
		return i.vm.onQuery(ctx, msg)
	}
	return json.RawMessage(`{}`), nil
}

func (i *mockInstance) GasUsed() uint64 { return 0 }

func (i *mockInstance) Close() error { return nil }
