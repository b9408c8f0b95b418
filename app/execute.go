package app

import (
	"errors"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"
	"github.com/govm-net/cwd/vm"
)

// ProcessMsg dispatches one state-transition message on behalf of sender and
// returns the events it produced. A non-nil error means the message must have
// no effect; rolling the store back is the caller's duty.
func (a *App) ProcessMsg(store storage.Storage, block *types.BlockInfo, sender types.Address, msg types.Message) ([]types.Event, error) {
	return a.processMsg(store, block, sender, msg, 0)
}

func (a *App) processMsg(store storage.Storage, block *types.BlockInfo, sender types.Address, msg types.Message, depth int) ([]types.Event, error) {
	if err := msg.Validate(); err != nil {
		return nil, err
	}
	switch {
	case msg.Transfer != nil:
		return a.transfer(store, block, sender, msg.Transfer, depth)
	case msg.StoreCode != nil:
		return a.storeCode(store, sender, msg.StoreCode)
	case msg.Instantiate != nil:
		return a.instantiate(store, block, sender, msg.Instantiate, depth)
	case msg.Execute != nil:
		return a.execute(store, block, sender, msg.Execute, depth)
	}
	return nil, errors.New("unreachable: message passed validation with no variant")
}

// buildInstance creates a sandbox for one call against the contract's scoped
// namespace, with the full store behind the read-only query facade.
func (a *App) buildInstance(store storage.Storage, block *types.BlockInfo, contract types.Address, code []byte, readonly bool) (ContractInstance, error) {
	return a.builder.Build(
		contractStore(store, contract),
		a.newQuerier(store, block),
		code,
		vm.Options{GasLimit: a.gasLimit, ReadOnly: readonly},
	)
}

// -------------------------------- store code ---------------------------------

func (a *App) storeCode(store storage.Storage, sender types.Address, msg *types.MsgStoreCode) ([]types.Event, error) {
	codeHash, err := saveCode(store, msg.ByteCode)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to store code")
		return nil, err
	}

	a.logger.Info().Str("code_hash", codeHash.String()).Msg("stored code")
	return []types.Event{newStoreCodeEvent(sender, codeHash)}, nil
}

// --------------------------------- transfer ----------------------------------

func (a *App) transfer(store storage.Storage, block *types.BlockInfo, from types.Address, msg *types.MsgTransfer, depth int) ([]types.Event, error) {
	events, err := a.doTransfer(store, block, from, msg.To, msg.Coins, depth)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to transfer coins")
		return nil, err
	}

	a.logger.Info().
		Str("from", from.String()).
		Str("to", msg.To.String()).
		Str("coins", msg.Coins.String()).
		Msg("transferred coins")
	return events, nil
}

// doTransfer routes a coin movement through the bank contract's transfer
// entry point. It is also invoked for the funds attached to instantiate and
// execute messages, always before the target contract's own entry point runs.
func (a *App) doTransfer(store storage.Storage, block *types.BlockInfo, from, to types.Address, coins types.Coins, depth int) ([]types.Event, error) {
	chainID, err := LoadChainID(store)
	if err != nil {
		return nil, err
	}
	cfg, err := LoadConfig(store)
	if err != nil {
		return nil, err
	}
	account, err := loadAccount(store, cfg.Bank)
	if err != nil {
		return nil, err
	}
	code, err := loadCode(store, account.CodeHash)
	if err != nil {
		return nil, err
	}

	instance, err := a.buildInstance(store, block, cfg.Bank, code, false)
	if err != nil {
		return nil, err
	}
	defer instance.Close()

	ctx := buildContext(chainID, block, cfg.Bank)
	msg := &types.TransferMsg{From: from, To: to, Coins: coins}
	resp, err := instance.CallTransfer(ctx, msg)
	if err != nil {
		return nil, err
	}

	events := []types.Event{newTransferEvent(cfg.Bank, msg, resp.Attributes)}
	subEvents, err := a.handleSubmessages(store, block, cfg.Bank, resp.SubMsgs, depth)
	if err != nil {
		return nil, err
	}
	return append(events, subEvents...), nil
}

// -------------------------------- instantiate --------------------------------

func (a *App) instantiate(store storage.Storage, block *types.BlockInfo, sender types.Address, msg *types.MsgInstantiate, depth int) ([]types.Event, error) {
	address, events, err := a.doInstantiate(store, block, sender, msg, depth)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to instantiate contract")
		return nil, err
	}

	a.logger.Info().Str("address", address.String()).Msg("instantiated contract")
	return events, nil
}

func (a *App) doInstantiate(store storage.Storage, block *types.BlockInfo, sender types.Address, msg *types.MsgInstantiate, depth int) (types.Address, []types.Event, error) {
	chainID, err := LoadChainID(store)
	if err != nil {
		return types.ZeroAddress, nil, err
	}
	code, err := loadCode(store, msg.CodeHash)
	if err != nil {
		return types.ZeroAddress, nil, err
	}

	// the address is fixed by (deployer, code hash, salt); a collision means
	// this exact triple was instantiated before
	address := types.DeriveAddress(sender, msg.CodeHash, msg.Salt)
	if err := createAccount(store, address, &types.Account{CodeHash: msg.CodeHash, Admin: msg.Admin}); err != nil {
		return types.ZeroAddress, nil, err
	}

	// move the attached funds before the constructor runs, so the contract
	// observes its balance already credited
	var events []types.Event
	if !msg.Funds.IsEmpty() {
		events, err = a.doTransfer(store, block, sender, address, msg.Funds, depth)
		if err != nil {
			return types.ZeroAddress, nil, err
		}
	}

	instance, err := a.buildInstance(store, block, address, code, false)
	if err != nil {
		return types.ZeroAddress, nil, err
	}
	defer instance.Close()

	ctx := buildContext(chainID, block, address)
	ctx.Sender = &sender
	funds := msg.Funds.Clone()
	ctx.Funds = &funds

	resp, err := instance.CallInstantiate(ctx, msg.Msg)
	if err != nil {
		return types.ZeroAddress, nil, err
	}

	events = append(events, newInstantiateEvent(address, msg.CodeHash, resp.Attributes))
	subEvents, err := a.handleSubmessages(store, block, address, resp.SubMsgs, depth)
	if err != nil {
		return types.ZeroAddress, nil, err
	}
	return address, append(events, subEvents...), nil
}

// ---------------------------------- execute ----------------------------------

func (a *App) execute(store storage.Storage, block *types.BlockInfo, sender types.Address, msg *types.MsgExecute, depth int) ([]types.Event, error) {
	events, err := a.doExecute(store, block, sender, msg, depth)
	if err != nil {
		a.logger.Warn().Err(err).Msg("failed to execute contract")
		return nil, err
	}

	a.logger.Info().Str("contract", msg.Contract.String()).Msg("executed contract")
	return events, nil
}

func (a *App) doExecute(store storage.Storage, block *types.BlockInfo, sender types.Address, msg *types.MsgExecute, depth int) ([]types.Event, error) {
	chainID, err := LoadChainID(store)
	if err != nil {
		return nil, err
	}

	// funds first, entry point second
	var events []types.Event
	if !msg.Funds.IsEmpty() {
		events, err = a.doTransfer(store, block, sender, msg.Contract, msg.Funds, depth)
		if err != nil {
			return nil, err
		}
	}

	account, err := loadAccount(store, msg.Contract)
	if err != nil {
		return nil, err
	}
	code, err := loadCode(store, account.CodeHash)
	if err != nil {
		return nil, err
	}

	instance, err := a.buildInstance(store, block, msg.Contract, code, false)
	if err != nil {
		return nil, err
	}
	defer instance.Close()

	ctx := buildContext(chainID, block, msg.Contract)
	ctx.Sender = &sender
	funds := msg.Funds.Clone()
	ctx.Funds = &funds

	resp, err := instance.CallExecute(ctx, msg.Msg)
	if err != nil {
		return nil, err
	}

	events = append(events, newExecuteEvent(msg.Contract, resp.Attributes))
	subEvents, err := a.handleSubmessages(store, block, msg.Contract, resp.SubMsgs, depth)
	if err != nil {
		return nil, err
	}
	return append(events, subEvents...), nil
}
