package types

import "encoding/json"

// The bank contract is the system contract holding all coin balances. The
// dispatcher routes Transfer messages and attached funds through its transfer
// entry point, and balance queries through its query entry point. Its own
// logic is opaque bytecode, not part of the engine.

// TransferMsg is the normalized effect of a transfer operation: it is both the
// payload of the bank contract's transfer entry point and the basis of the
// emitted log entry.
type TransferMsg struct {
	From  Address `json:"from"`
	To    Address `json:"to"`
	Coins Coins   `json:"coins"`
}

// BankQuery is the query interface the bank contract must answer. Exactly one
// variant is set.
type BankQuery struct {
	Balance  *BalanceQuery  `json:"balance,omitempty"`
	Balances *BalancesQuery `json:"balances,omitempty"`
	Supply   *SupplyQuery   `json:"supply,omitempty"`
	Supplies *SuppliesQuery `json:"supplies,omitempty"`
}

type BalanceQuery struct {
	Address Address `json:"address"`
	Denom   string  `json:"denom"`
}

type BalancesQuery struct {
	Address    Address `json:"address"`
	StartAfter string  `json:"start_after,omitempty"`
	Limit      uint32  `json:"limit,omitempty"`
}

type SupplyQuery struct {
	Denom string `json:"denom"`
}

type SuppliesQuery struct {
	StartAfter string `json:"start_after,omitempty"`
	Limit      uint32 `json:"limit,omitempty"`
}

// BankQueryResponse mirrors BankQuery variant for variant.
type BankQueryResponse struct {
	Balance  *Coin  `json:"balance,omitempty"`
	Balances *Coins `json:"balances,omitempty"`
	Supply   *Coin  `json:"supply,omitempty"`
	Supplies *Coins `json:"supplies,omitempty"`
}

// QueryRequest is the read-only query facade exposed to sandboxed instances
// and external callers. Exactly one variant is set.
type QueryRequest struct {
	Info      *InfoQuery      `json:"info,omitempty"`
	Bank      *BankQuery      `json:"bank,omitempty"`
	WasmRaw   *WasmRawQuery   `json:"wasm_raw,omitempty"`
	WasmSmart *WasmSmartQuery `json:"wasm_smart,omitempty"`
}

// InfoQuery asks for chain-level information.
type InfoQuery struct{}

// WasmRawQuery reads a raw key from a contract's scoped store.
type WasmRawQuery struct {
	Contract Address `json:"contract"`
	Key      []byte  `json:"key"`
}

// WasmSmartQuery invokes a contract's query entry point on a read-only
// instance.
type WasmSmartQuery struct {
	Contract Address         `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
}

// QueryResponse mirrors QueryRequest variant for variant.
type QueryResponse struct {
	Info      *InfoResponse      `json:"info,omitempty"`
	Bank      *BankQueryResponse `json:"bank,omitempty"`
	WasmRaw   []byte             `json:"wasm_raw,omitempty"`
	WasmSmart json.RawMessage    `json:"wasm_smart,omitempty"`
}

type InfoResponse struct {
	ChainID        string `json:"chain_id"`
	BlockHeight    uint64 `json:"block_height"`
	BlockTimestamp int64  `json:"block_timestamp"`
	BlockHash      Hash   `json:"block_hash"`
}
