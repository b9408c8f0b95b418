package app

import "github.com/govm-net/cwd/types"

// Every dispatched operation produces exactly one event of its own kind,
// carrying the operation's salient identifiers first and the contract's own
// attributes after them.

func newEvent(contract types.Address, ty string, attrs []types.Attribute, guest []types.Attribute) types.Event {
	return types.Event{
		Contract:   contract,
		Type:       ty,
		Attributes: append(attrs, guest...),
	}
}

func newStoreCodeEvent(sender types.Address, codeHash types.Hash) types.Event {
	return newEvent(sender, "store_code", []types.Attribute{
		{Key: "code_hash", Value: codeHash.String()},
	}, nil)
}

func newTransferEvent(bank types.Address, msg *types.TransferMsg, guest []types.Attribute) types.Event {
	return newEvent(bank, "transfer", []types.Attribute{
		{Key: "from", Value: msg.From.String()},
		{Key: "to", Value: msg.To.String()},
		{Key: "coins", Value: msg.Coins.String()},
	}, guest)
}

func newInstantiateEvent(contract types.Address, codeHash types.Hash, guest []types.Attribute) types.Event {
	return newEvent(contract, "instantiate", []types.Attribute{
		{Key: "code_hash", Value: codeHash.String()},
	}, guest)
}

func newExecuteEvent(contract types.Address, guest []types.Attribute) types.Event {
	return newEvent(contract, "execute", nil, guest)
}

func newReplyEvent(contract types.Address, guest []types.Attribute) types.Event {
	return newEvent(contract, "reply", nil, guest)
}

func newBeforeTxEvent(sender types.Address, guest []types.Attribute) types.Event {
	return newEvent(sender, "before_tx", []types.Attribute{
		{Key: "sender", Value: sender.String()},
	}, guest)
}

func newAfterTxEvent(sender types.Address, guest []types.Attribute) types.Event {
	return newEvent(sender, "after_tx", []types.Attribute{
		{Key: "sender", Value: sender.String()},
	}, guest)
}
