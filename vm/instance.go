package vm

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
)

// Options configures a single sandbox instance.
type Options struct {
	// GasLimit is the shared budget for host import work and guest execution.
	GasLimit uint64
	// ReadOnly rejects any storage mutation, for query and simulate calls.
	ReadOnly bool
}

// Instance is one ephemeral sandboxed execution unit, bound to a contract's
// bytecode, its namespace-scoped storage view, and a read-only query facade.
// Build one per call; an Instance is not reusable across contracts or blocks.
type Instance struct {
	ctx     context.Context
	runtime wazero.Runtime
	env     *Environment
}

// Build compiles and instantiates the bytecode, wiring the scoped store and
// the querier as the environment its host imports operate against.
func Build(store storage.Storage, querier Querier, code []byte, opts Options) (*Instance, error) {
	ctx := context.Background()
	env := newEnvironment(store, querier, NewGasMeter(opts.GasLimit), opts.ReadOnly)
	env.ctx = ctx

	runtime := wazero.NewRuntime(ctx)
	ok := false
	defer func() {
		if !ok {
			_ = runtime.Close(ctx)
		}
	}()

	compiled, err := runtime.CompileModule(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to compile module: %w", err)
	}

	if err := registerHostModule(ctx, runtime, env); err != nil {
		return nil, fmt.Errorf("failed to instantiate host module: %w", err)
	}
	wasi_snapshot_preview1.MustInstantiate(ctx, runtime)

	// no start functions: entry points are only ever invoked explicitly
	config := wazero.NewModuleConfig().WithName("contract").WithStartFunctions()
	module, err := runtime.InstantiateModule(ctx, compiled, config)
	if err != nil {
		return nil, fmt.Errorf("failed to instantiate module: %w", err)
	}

	memory := module.ExportedMemory("memory")
	if memory == nil {
		return nil, ExportError{Name: "memory"}
	}
	if err := env.SetMemory(memory); err != nil {
		return nil, err
	}
	if err := env.SetModule(module); err != nil {
		return nil, err
	}

	ok = true
	return &Instance{ctx: ctx, runtime: runtime, env: env}, nil
}

// GasUsed reports the gas consumed so far by this instance.
func (inst *Instance) GasUsed() uint64 {
	return inst.env.gas.Used()
}

// Close tears the instance down, releasing any iterators the guest left open.
func (inst *Instance) Close() error {
	inst.env.iterators.closeAll()
	return inst.runtime.Close(inst.ctx)
}

// CallInstantiate invokes the contract's constructor.
func (inst *Instance) CallInstantiate(ctx *types.Context, msg []byte) (*types.Response, error) {
	return inst.callResponse("instantiate", ctx, msg)
}

// CallExecute invokes the execute entry point.
func (inst *Instance) CallExecute(ctx *types.Context, msg []byte) (*types.Response, error) {
	return inst.callResponse("execute", ctx, msg)
}

// CallTransfer invokes the transfer entry point of the bank contract.
func (inst *Instance) CallTransfer(ctx *types.Context, msg *types.TransferMsg) (*types.Response, error) {
	raw, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transfer msg: %w", err)
	}
	return inst.callResponse("transfer", ctx, raw)
}

// CallBeforeTx invokes the sender account's pre-transaction hook.
func (inst *Instance) CallBeforeTx(ctx *types.Context, tx *types.Tx) (*types.Response, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tx: %w", err)
	}
	return inst.callResponse("before_tx", ctx, raw)
}

// CallAfterTx invokes the sender account's post-transaction hook.
func (inst *Instance) CallAfterTx(ctx *types.Context, tx *types.Tx) (*types.Response, error) {
	raw, err := json.Marshal(tx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tx: %w", err)
	}
	return inst.callResponse("after_tx", ctx, raw)
}

// CallReply delivers a submessage result back to the emitting contract.
// ctx.SubMsgResult carries the result.
func (inst *Instance) CallReply(ctx *types.Context, msg []byte) (*types.Response, error) {
	return inst.callResponse("reply", ctx, msg)
}

// CallQuery invokes the query entry point. The instance must have been built
// read-only.
func (inst *Instance) CallQuery(ctx *types.Context, msg []byte) (json.RawMessage, error) {
	data, err := inst.call("query", ctx, msg)
	if err != nil {
		return nil, err
	}
	var result types.QueryGuestResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal query result: %w", err)
	}
	return result.IntoResult()
}

func (inst *Instance) callResponse(name string, ctx *types.Context, msg []byte) (*types.Response, error) {
	data, err := inst.call(name, ctx, msg)
	if err != nil {
		return nil, err
	}
	var result types.GuestResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s result: %w", name, err)
	}
	return result.IntoResult()
}

// call runs one entry point: it serializes the context and message into guest
// regions, invokes the export, and reads back the region-framed result.
func (inst *Instance) call(name string, ctx *types.Context, msg []byte) ([]byte, error) {
	module, err := inst.env.Module()
	if err != nil {
		return nil, err
	}
	fn := module.ExportedFunction(name)
	if fn == nil {
		return nil, ExportError{Name: name}
	}

	ctxBytes, err := json.Marshal(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal context: %w", err)
	}
	ctxPtr, err := inst.writeToGuest(ctxBytes)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		msg = []byte("null")
	}
	msgPtr, err := inst.writeToGuest(msg)
	if err != nil {
		return nil, err
	}

	rets, err := fn.Call(inst.ctx, uint64(ctxPtr), uint64(msgPtr))
	if err != nil {
		// a host function may have aborted the call with a typed error,
		// surfaced here as a trap
		if hostErr := inst.env.takeHostErr(); hostErr != nil {
			return nil, hostErr
		}
		return nil, fmt.Errorf("failed to call %s: %w", name, err)
	}

	resPtr, err := singleU32(rets, name)
	if err != nil {
		return nil, err
	}
	memory, err := inst.env.Memory()
	if err != nil {
		return nil, err
	}
	return readRegionData(memory, resPtr)
}

// writeToGuest allocates a region in guest memory and copies data into it,
// returning the region pointer.
func (inst *Instance) writeToGuest(data []byte) (uint32, error) {
	module, err := inst.env.Module()
	if err != nil {
		return 0, err
	}
	memory, err := inst.env.Memory()
	if err != nil {
		return 0, err
	}

	alloc := module.ExportedFunction("allocate")
	if alloc == nil {
		return 0, ExportError{Name: "allocate"}
	}
	rets, err := alloc.Call(inst.ctx, uint64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to allocate guest memory: %w", err)
	}
	ptr, err := singleU32(rets, "allocate")
	if err != nil {
		return 0, err
	}
	if err := writeToRegion(memory, ptr, data); err != nil {
		return 0, err
	}
	return ptr, nil
}

// singleU32 validates exact return arity and type for a guest call.
func singleU32(rets []uint64, name string) (uint32, error) {
	if len(rets) != 1 {
		return 0, ReturnCountError{Name: name, Expect: 1, Actual: len(rets)}
	}
	if rets[0] > math.MaxUint32 {
		return 0, ReturnTypeError{Name: name}
	}
	return uint32(rets[0]), nil
}
