package vm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/govm-net/cwd/types"

	"github.com/rs/zerolog/log"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// registerHostModule instantiates the "env" module: the fixed capability
// surface a guest may invoke into the host. Every import charges the shared
// gas meter for the work it performs and aborts the call with a typed error
// on violation.
func registerHostModule(ctx context.Context, runtime wazero.Runtime, env *Environment) error {
	builder := runtime.NewHostModuleBuilder("env")

	builder.NewFunctionBuilder().
		WithParameterNames("key_ptr").
		WithResultNames("value_ptr").
		WithFunc(func(_ context.Context, _ api.Module, keyPtr uint32) uint32 {
			return env.hostDBRead(keyPtr)
		}).
		Export("db_read")

	builder.NewFunctionBuilder().
		WithParameterNames("key_ptr", "value_ptr").
		WithFunc(func(_ context.Context, _ api.Module, keyPtr, valuePtr uint32) {
			env.hostDBWrite(keyPtr, valuePtr)
		}).
		Export("db_write")

	builder.NewFunctionBuilder().
		WithParameterNames("key_ptr").
		WithFunc(func(_ context.Context, _ api.Module, keyPtr uint32) {
			env.hostDBRemove(keyPtr)
		}).
		Export("db_remove")

	builder.NewFunctionBuilder().
		WithParameterNames("start_ptr", "end_ptr").
		WithResultNames("iterator_id").
		WithFunc(func(_ context.Context, _ api.Module, startPtr, endPtr uint32) int32 {
			return env.hostDBScan(startPtr, endPtr)
		}).
		Export("db_scan")

	builder.NewFunctionBuilder().
		WithParameterNames("iterator_id").
		WithResultNames("record_ptr").
		WithFunc(func(_ context.Context, _ api.Module, iteratorID int32) uint32 {
			return env.hostDBNext(iteratorID)
		}).
		Export("db_next")

	builder.NewFunctionBuilder().
		WithParameterNames("iterator_id").
		WithFunc(func(_ context.Context, _ api.Module, iteratorID int32) {
			env.hostDBClose(iteratorID)
		}).
		Export("db_close")

	builder.NewFunctionBuilder().
		WithParameterNames("request_ptr").
		WithResultNames("response_ptr").
		WithFunc(func(_ context.Context, _ api.Module, requestPtr uint32) uint32 {
			return env.hostQueryChain(requestPtr)
		}).
		Export("query_chain")

	builder.NewFunctionBuilder().
		WithParameterNames("amount").
		WithFunc(func(_ context.Context, _ api.Module, amount uint64) {
			env.hostGasConsume(amount)
		}).
		Export("gas_consume")

	builder.NewFunctionBuilder().
		WithParameterNames("msg_ptr").
		WithFunc(func(_ context.Context, _ api.Module, msgPtr uint32) {
			env.hostDebug(msgPtr)
		}).
		Export("debug")

	_, err := builder.Instantiate(ctx)
	return err
}

func (e *Environment) mustMemory() api.Memory {
	mem, err := e.Memory()
	if err != nil {
		e.fail(err)
	}
	return mem
}

func (e *Environment) hostDBRead(keyPtr uint32) uint32 {
	mem := e.mustMemory()
	key, err := readRegionData(mem, keyPtr)
	if err != nil {
		e.fail(err)
	}
	if err := e.gas.ConsumeHost(copyCost(len(key))); err != nil {
		e.fail(err)
	}

	value, err := e.store.Get(key)
	if err != nil {
		e.fail(err)
	}
	if value == nil {
		return 0
	}
	if err := e.gas.ConsumeHost(copyCost(len(value))); err != nil {
		e.fail(err)
	}
	return e.allocateAndWrite(value)
}

func (e *Environment) hostDBWrite(keyPtr, valuePtr uint32) {
	if e.readonly {
		e.fail(ErrReadOnly)
	}
	mem := e.mustMemory()
	key, err := readRegionData(mem, keyPtr)
	if err != nil {
		e.fail(err)
	}
	value, err := readRegionData(mem, valuePtr)
	if err != nil {
		e.fail(err)
	}
	if err := e.gas.ConsumeHost(copyCost(len(key) + len(value))); err != nil {
		e.fail(err)
	}
	if err := e.store.Set(key, value); err != nil {
		e.fail(err)
	}
}

func (e *Environment) hostDBRemove(keyPtr uint32) {
	if e.readonly {
		e.fail(ErrReadOnly)
	}
	mem := e.mustMemory()
	key, err := readRegionData(mem, keyPtr)
	if err != nil {
		e.fail(err)
	}
	if err := e.gas.ConsumeHost(copyCost(len(key))); err != nil {
		e.fail(err)
	}
	if err := e.store.Remove(key); err != nil {
		e.fail(err)
	}
}

func (e *Environment) hostDBScan(startPtr, endPtr uint32) int32 {
	mem := e.mustMemory()
	var start, end []byte
	var err error
	if startPtr != 0 {
		if start, err = readRegionData(mem, startPtr); err != nil {
			e.fail(err)
		}
	}
	if endPtr != 0 {
		if end, err = readRegionData(mem, endPtr); err != nil {
			e.fail(err)
		}
	}
	if err := e.gas.ConsumeHost(gasCostHostCall); err != nil {
		e.fail(err)
	}

	it, err := e.store.Scan(start, end)
	if err != nil {
		e.fail(err)
	}
	return e.iterators.add(it)
}

func (e *Environment) hostDBNext(iteratorID int32) uint32 {
	if err := e.gas.ConsumeHost(gasCostScanItem); err != nil {
		e.fail(err)
	}
	rec, err := e.iterators.next(iteratorID)
	if err != nil {
		e.fail(err)
	}
	if rec == nil {
		return 0
	}
	payload := encodeRecord(rec)
	if err := e.gas.ConsumeHost(copyCost(len(payload))); err != nil {
		e.fail(err)
	}
	return e.allocateAndWrite(payload)
}

func (e *Environment) hostDBClose(iteratorID int32) {
	if err := e.iterators.close(iteratorID); err != nil {
		e.fail(err)
	}
}

func (e *Environment) hostQueryChain(requestPtr uint32) uint32 {
	mem := e.mustMemory()
	raw, err := readRegionData(mem, requestPtr)
	if err != nil {
		e.fail(err)
	}
	if err := e.gas.ConsumeHost(copyCost(len(raw))); err != nil {
		e.fail(err)
	}

	var req types.QueryRequest
	var result types.QueryGuestResult
	if err := json.Unmarshal(raw, &req); err != nil {
		result.Err = fmt.Sprintf("failed to unmarshal query request: %s", err)
	} else if resp, err := e.querier.Query(&req); err != nil {
		result.Err = err.Error()
	} else {
		ok, err := json.Marshal(resp)
		if err != nil {
			e.fail(err)
		}
		result.Ok = ok
	}

	payload, err := json.Marshal(result)
	if err != nil {
		e.fail(err)
	}
	if err := e.gas.ConsumeHost(copyCost(len(payload))); err != nil {
		e.fail(err)
	}
	return e.allocateAndWrite(payload)
}

func (e *Environment) hostGasConsume(amount uint64) {
	if err := e.gas.ConsumeGuest(amount); err != nil {
		e.fail(err)
	}
}

func (e *Environment) hostDebug(msgPtr uint32) {
	mem := e.mustMemory()
	msg, err := readRegionData(mem, msgPtr)
	if err != nil {
		e.fail(err)
	}
	log.Debug().Str("msg", string(msg)).Msg("contract debug")
}

// allocateAndWrite copies data into a freshly allocated guest region and
// returns its pointer.
func (e *Environment) allocateAndWrite(data []byte) uint32 {
	module, err := e.Module()
	if err != nil {
		e.fail(err)
	}
	mem := e.mustMemory()

	alloc := module.ExportedFunction("allocate")
	if alloc == nil {
		e.fail(ExportError{Name: "allocate"})
	}
	rets, err := alloc.Call(e.ctx, uint64(len(data)))
	if err != nil {
		e.fail(fmt.Errorf("failed to allocate guest memory: %w", err))
	}
	ptr, err := singleU32(rets, "allocate")
	if err != nil {
		e.fail(err)
	}
	if err := writeToRegion(mem, ptr, data); err != nil {
		e.fail(err)
	}
	return ptr
}
