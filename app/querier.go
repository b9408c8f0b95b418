package app

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"
	"github.com/govm-net/cwd/vm"
)

// ErrQueryDepth is returned when nested smart queries exceed MaxCallDepth.
var ErrQueryDepth = errors.New("exceeded maximum query call depth")

// chainQuerier answers read-only queries against the full store at a fixed
// block. It is handed to every sandbox instance, so a contract can query
// global state through the query_chain import while its writes stay confined
// to its own namespace. Each nested smart query adds one to depth, so a
// contract querying itself runs into MaxCallDepth instead of exhausting the
// host stack.
type chainQuerier struct {
	app   *App
	store storage.Storage
	block types.BlockInfo
	depth int
}

func (a *App) newQuerier(store storage.Storage, block *types.BlockInfo) vm.Querier {
	return &chainQuerier{app: a, store: store, block: *block}
}

// Query dispatches one query request. Smart queries run the target contract's
// query entry point on a read-only instance.
func (q *chainQuerier) Query(req *types.QueryRequest) (*types.QueryResponse, error) {
	switch {
	case req.Info != nil:
		return q.queryInfo()
	case req.Bank != nil:
		return q.queryBank(req.Bank)
	case req.WasmRaw != nil:
		return q.queryWasmRaw(req.WasmRaw)
	case req.WasmSmart != nil:
		return q.queryWasmSmart(req.WasmSmart)
	}
	return nil, errors.New("query request must have exactly one variant set")
}

func (q *chainQuerier) queryInfo() (*types.QueryResponse, error) {
	chainID, err := LoadChainID(q.store)
	if err != nil {
		return nil, err
	}
	return &types.QueryResponse{Info: &types.InfoResponse{
		ChainID:        chainID,
		BlockHeight:    q.block.Height,
		BlockTimestamp: q.block.Timestamp,
		BlockHash:      q.block.Hash,
	}}, nil
}

// queryBank routes a balance or supply query to the bank contract's query
// entry point.
func (q *chainQuerier) queryBank(query *types.BankQuery) (*types.QueryResponse, error) {
	cfg, err := LoadConfig(q.store)
	if err != nil {
		return nil, err
	}
	msg, err := json.Marshal(query)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal bank query: %w", err)
	}

	raw, err := q.querySmart(cfg.Bank, msg)
	if err != nil {
		return nil, err
	}
	var resp types.BankQueryResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bank query response: %w", err)
	}
	return &types.QueryResponse{Bank: &resp}, nil
}

func (q *chainQuerier) queryWasmRaw(query *types.WasmRawQuery) (*types.QueryResponse, error) {
	value, err := contractStore(q.store, query.Contract).Get(query.Key)
	if err != nil {
		return nil, err
	}
	return &types.QueryResponse{WasmRaw: value}, nil
}

func (q *chainQuerier) queryWasmSmart(query *types.WasmSmartQuery) (*types.QueryResponse, error) {
	raw, err := q.querySmart(query.Contract, query.Msg)
	if err != nil {
		return nil, err
	}
	return &types.QueryResponse{WasmSmart: raw}, nil
}

func (q *chainQuerier) querySmart(contract types.Address, msg []byte) (json.RawMessage, error) {
	if q.depth >= MaxCallDepth {
		return nil, ErrQueryDepth
	}

	chainID, err := LoadChainID(q.store)
	if err != nil {
		return nil, err
	}
	account, err := loadAccount(q.store, contract)
	if err != nil {
		return nil, err
	}
	code, err := loadCode(q.store, account.CodeHash)
	if err != nil {
		return nil, err
	}

	// the nested instance queries through a child one level deeper
	child := &chainQuerier{app: q.app, store: q.store, block: q.block, depth: q.depth + 1}
	instance, err := q.app.builder.Build(
		contractStore(q.store, contract),
		child,
		code,
		vm.Options{GasLimit: q.app.gasLimit, ReadOnly: true},
	)
	if err != nil {
		return nil, err
	}
	defer instance.Close()

	ctx := buildContext(chainID, &q.block, contract)
	return instance.CallQuery(ctx, msg)
}

// Query answers an external (non-contract) query at the given block.
func (a *App) Query(store storage.Storage, block *types.BlockInfo, req *types.QueryRequest) (*types.QueryResponse, error) {
	querier := &chainQuerier{app: a, store: store, block: *block}
	return querier.Query(req)
}
