package types

import (
	"encoding/json"
	"errors"
)

// BlockInfo describes the block a message batch executes under.
type BlockInfo struct {
	Height    uint64 `json:"height"`
	Timestamp int64  `json:"timestamp"`
	Hash      Hash   `json:"hash"`
}

// Context is the immutable per-call environment passed into a sandbox
// invocation. It is constructed fresh for every call and never reused.
//
// Sender and Funds are nil for calls the engine itself initiates (transaction
// hooks, bank transfers synthesized by the dispatcher). SubMsgResult is set
// only for reply entry points.
type Context struct {
	ChainID        string        `json:"chain_id"`
	BlockHeight    uint64        `json:"block_height"`
	BlockTimestamp int64         `json:"block_timestamp"`
	BlockHash      Hash          `json:"block_hash"`
	Contract       Address       `json:"contract"`
	Sender         *Address      `json:"sender,omitempty"`
	Funds          *Coins        `json:"funds,omitempty"`
	Simulate       *bool         `json:"simulate,omitempty"`
	SubMsgResult   *SubMsgResult `json:"submsg_result,omitempty"`
}

// Attribute is a single key/value pair inside an event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Event is an append-only log entry: the emitting contract, an event kind tag,
// and an ordered attribute list. Events are never mutated after creation, only
// aggregated into the enclosing call's output.
type Event struct {
	Contract   Address     `json:"contract"`
	Type       string      `json:"type"`
	Attributes []Attribute `json:"attributes"`
}

// Response is what a contract entry point returns on success: attributes for
// the call's own event, plus submessages the engine must execute on the
// contract's behalf.
type Response struct {
	Attributes []Attribute `json:"attributes"`
	SubMsgs    []SubMsg    `json:"submsgs"`
}

// GuestResult is the success/error envelope every entry point returns across
// the sandbox boundary.
type GuestResult struct {
	Ok  *Response `json:"ok,omitempty"`
	Err string    `json:"err,omitempty"`
}

// IntoResult unwraps the envelope into a Go result.
func (r GuestResult) IntoResult() (*Response, error) {
	if r.Err != "" {
		return nil, errors.New(r.Err)
	}
	if r.Ok == nil {
		return nil, errors.New("guest returned neither ok nor err")
	}
	return r.Ok, nil
}

// QueryGuestResult is the envelope returned by the query entry point, whose
// payload is an opaque JSON value rather than a Response.
type QueryGuestResult struct {
	Ok  json.RawMessage `json:"ok,omitempty"`
	Err string          `json:"err,omitempty"`
}

func (r QueryGuestResult) IntoResult() (json.RawMessage, error) {
	if r.Err != "" {
		return nil, errors.New(r.Err)
	}
	return r.Ok, nil
}
