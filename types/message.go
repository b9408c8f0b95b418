package types

import (
	"encoding/json"
	"errors"
)

// Message is a state-transition message. It is a closed tagged union: exactly
// one variant must be set. Adding a variant requires a matching handler in the
// dispatcher.
type Message struct {
	Transfer    *MsgTransfer    `json:"transfer,omitempty"`
	StoreCode   *MsgStoreCode   `json:"store_code,omitempty"`
	Instantiate *MsgInstantiate `json:"instantiate,omitempty"`
	Execute     *MsgExecute     `json:"execute,omitempty"`
}

// MsgTransfer moves coins from the sender to another account through the
// system bank contract.
type MsgTransfer struct {
	To    Address `json:"to"`
	Coins Coins   `json:"coins"`
}

// MsgStoreCode persists a bytecode blob under its content hash.
type MsgStoreCode struct {
	ByteCode []byte `json:"wasm_byte_code"`
}

// MsgInstantiate creates a new contract account from previously stored code.
type MsgInstantiate struct {
	CodeHash Hash            `json:"code_hash"`
	Msg      json.RawMessage `json:"msg"`
	Salt     []byte          `json:"salt"`
	Funds    Coins           `json:"funds"`
	Admin    *Address        `json:"admin,omitempty"`
}

// MsgExecute invokes the execute entry point of an existing contract.
type MsgExecute struct {
	Contract Address         `json:"contract"`
	Msg      json.RawMessage `json:"msg"`
	Funds    Coins           `json:"funds"`
}

// Validate ensures exactly one variant is set.
func (m Message) Validate() error {
	count := 0
	if m.Transfer != nil {
		count++
	}
	if m.StoreCode != nil {
		count++
	}
	if m.Instantiate != nil {
		count++
	}
	if m.Execute != nil {
		count++
	}
	if count != 1 {
		return errors.New("message must have exactly one variant set")
	}
	return nil
}

// Tx is a transaction: a sender account and its ordered message batch. The
// credential is opaque to the engine; the sender's before_tx entry point is
// responsible for verifying it.
type Tx struct {
	Sender     Address   `json:"sender"`
	Credential []byte    `json:"credential"`
	Msgs       []Message `json:"msgs"`
}

// ReplyOn declares whether a submessage's result is reported back to the
// emitting contract's reply entry point.
type ReplyOn string

const (
	ReplyAlways  ReplyOn = "always"
	ReplySuccess ReplyOn = "success"
	ReplyError   ReplyOn = "error"
	ReplyNever   ReplyOn = "never"
)

// SubMsg is a state-transition message a contract requests the engine to run
// as a side effect of its own call, plus the reply policy governing it.
type SubMsg struct {
	Msg     Message `json:"msg"`
	ReplyOn ReplyOn `json:"reply_on"`
}

// SubMsgResponse is the successful outcome of a submessage.
type SubMsgResponse struct {
	Events []Event `json:"events"`
	Data   []byte  `json:"data,omitempty"`
}

// SubMsgResult is delivered to the emitting contract's reply entry point.
// Exactly one of Ok and Err is set.
type SubMsgResult struct {
	Ok  *SubMsgResponse `json:"ok,omitempty"`
	Err string          `json:"err,omitempty"`
}
