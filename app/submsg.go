package app

import (
	"errors"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"
)

// MaxCallDepth bounds how deep submessages may nest. Each submessage batch a
// response requests adds one frame; a contract calling itself in a loop runs
// into this bound instead of exhausting the host stack.
const MaxCallDepth = 32

// ErrCallDepth is returned when a submessage chain exceeds MaxCallDepth.
var ErrCallDepth = errors.New("exceeded maximum submessage call depth")

// handleSubmessages runs the submessages a contract's response requested, in
// order, with the emitting contract as their sender. Per submessage the reply
// policy decides whether its result is delivered back to the emitter's reply
// entry point:
//
//   - success with always/success: reply with the submessage's events
//   - failure with always/error: reply with the error string; the error is
//     considered handled and does not fail the emitting call
//   - failure with success/never: the error propagates and fails the emitter
//
// Events of a failed submessage are discarded. State atomicity across the
// failure is the outer snapshot owner's duty.
func (a *App) handleSubmessages(store storage.Storage, block *types.BlockInfo, contract types.Address, submsgs []types.SubMsg, depth int) ([]types.Event, error) {
	if len(submsgs) == 0 {
		return nil, nil
	}
	if depth >= MaxCallDepth {
		return nil, ErrCallDepth
	}

	var events []types.Event
	for _, sub := range submsgs {
		subEvents, err := a.processMsg(store, block, contract, sub.Msg, depth+1)
		if err != nil {
			if sub.ReplyOn != types.ReplyAlways && sub.ReplyOn != types.ReplyError {
				return nil, err
			}
			replyEvents, replyErr := a.reply(store, block, contract, &types.SubMsgResult{Err: err.Error()}, depth)
			if replyErr != nil {
				return nil, replyErr
			}
			events = append(events, replyEvents...)
			continue
		}

		events = append(events, subEvents...)
		if sub.ReplyOn == types.ReplyAlways || sub.ReplyOn == types.ReplySuccess {
			result := &types.SubMsgResult{Ok: &types.SubMsgResponse{Events: subEvents}}
			replyEvents, err := a.reply(store, block, contract, result, depth)
			if err != nil {
				return nil, err
			}
			events = append(events, replyEvents...)
		}
	}
	return events, nil
}

// reply delivers a submessage result to the emitting contract's reply entry
// point. A failing reply handler fails the emitting call.
func (a *App) reply(store storage.Storage, block *types.BlockInfo, contract types.Address, result *types.SubMsgResult, depth int) ([]types.Event, error) {
	chainID, err := LoadChainID(store)
	if err != nil {
		return nil, err
	}
	account, err := loadAccount(store, contract)
	if err != nil {
		return nil, err
	}
	code, err := loadCode(store, account.CodeHash)
	if err != nil {
		return nil, err
	}

	instance, err := a.buildInstance(store, block, contract, code, false)
	if err != nil {
		return nil, err
	}
	defer instance.Close()

	ctx := buildContext(chainID, block, contract)
	ctx.SubMsgResult = result

	resp, err := instance.CallReply(ctx, nil)
	if err != nil {
		a.logger.Warn().Err(err).Str("contract", contract.String()).Msg("failed to reply to contract")
		return nil, err
	}

	events := []types.Event{newReplyEvent(contract, resp.Attributes)}
	subEvents, err := a.handleSubmessages(store, block, contract, resp.SubMsgs, depth+1)
	if err != nil {
		return nil, err
	}
	return append(events, subEvents...), nil
}
