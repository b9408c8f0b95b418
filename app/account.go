package app

import (
	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"
)

// Transaction lifecycle: the sender account is itself a contract, and its
// before_tx / after_tx entry points bracket the message batch. before_tx is
// where the sender verifies the transaction's credential.

// ProcessTx runs a full transaction: the before hook, the messages in order,
// then the after hook. The first failure aborts the transaction; the after
// hook does not run for a transaction whose hook or messages failed. A
// non-nil error means the whole transaction must have no effect.
func (a *App) ProcessTx(store storage.Storage, block *types.BlockInfo, tx *types.Tx) ([]types.Event, error) {
	events, err := a.BeforeTx(store, block, tx)
	if err != nil {
		return nil, err
	}

	for _, msg := range tx.Msgs {
		msgEvents, err := a.ProcessMsg(store, block, tx.Sender, msg)
		if err != nil {
			return nil, err
		}
		events = append(events, msgEvents...)
	}

	afterEvents, err := a.AfterTx(store, block, tx)
	if err != nil {
		return nil, err
	}
	return append(events, afterEvents...), nil
}

// BeforeTx invokes the sender account's before_tx entry point.
func (a *App) BeforeTx(store storage.Storage, block *types.BlockInfo, tx *types.Tx) ([]types.Event, error) {
	events, err := a.txHook(store, block, tx, ContractInstance.CallBeforeTx, newBeforeTxEvent)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to call before transaction hook")
		return nil, err
	}
	a.logger.Debug().Str("sender", tx.Sender.String()).Msg("before transaction hook called")
	return events, nil
}

// AfterTx invokes the sender account's after_tx entry point.
func (a *App) AfterTx(store storage.Storage, block *types.BlockInfo, tx *types.Tx) ([]types.Event, error) {
	events, err := a.txHook(store, block, tx, ContractInstance.CallAfterTx, newAfterTxEvent)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to call after transaction hook")
		return nil, err
	}
	a.logger.Debug().Str("sender", tx.Sender.String()).Msg("after transaction hook called")
	return events, nil
}

func (a *App) txHook(
	store storage.Storage,
	block *types.BlockInfo,
	tx *types.Tx,
	call func(ContractInstance, *types.Context, *types.Tx) (*types.Response, error),
	newHookEvent func(types.Address, []types.Attribute) types.Event,
) ([]types.Event, error) {
	chainID, err := LoadChainID(store)
	if err != nil {
		return nil, err
	}
	account, err := loadAccount(store, tx.Sender)
	if err != nil {
		return nil, err
	}
	code, err := loadCode(store, account.CodeHash)
	if err != nil {
		return nil, err
	}

	instance, err := a.buildInstance(store, block, tx.Sender, code, false)
	if err != nil {
		return nil, err
	}
	defer instance.Close()

	ctx := buildContext(chainID, block, tx.Sender)
	resp, err := call(instance, ctx, tx)
	if err != nil {
		return nil, err
	}

	events := []types.Event{newHookEvent(tx.Sender, resp.Attributes)}
	subEvents, err := a.handleSubmessages(store, block, tx.Sender, resp.SubMsgs, 0)
	if err != nil {
		return nil, err
	}
	return append(events, subEvents...), nil
}
