package app

import (
	"testing"

	"github.com/govm-net/cwd/storage"
	"github.com/govm-net/cwd/types"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testChainID = "cwd-test-1"

func addr(b byte) types.Address {
	var a types.Address
	a[0] = b
	return a
}

// testEnv is a genesis state with a bank contract, a sender account, and one
// application contract, all running on the mock sandbox.
type testEnv struct {
	app      *App
	vm       *mockVM
	store    *storage.MemStore
	block    *types.BlockInfo
	bank     types.Address
	sender   types.Address
	contract types.Address
	codeHash types.Hash
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mock := &mockVM{}
	env := &testEnv{
		app:    NewApp(WithBuilder(mock)),
		vm:     mock,
		store:  storage.NewMemStore(),
		block:  &types.BlockInfo{Height: 1, Timestamp: 1700000000},
		bank:   addr(0x01),
		sender: addr(0x02),
	}

	code := []byte("\x00asm mock contract")
	env.codeHash = types.HashBytes(code)
	env.contract = addr(0x03)

	require.NoError(t, SaveChainID(env.store, testChainID))
	require.NoError(t, SaveConfig(env.store, &Config{Bank: env.bank}))
	_, err := saveCode(env.store, code)
	require.NoError(t, err)
	for _, a := range []types.Address{env.bank, env.sender, env.contract} {
		require.NoError(t, createAccount(env.store, a, &types.Account{CodeHash: env.codeHash}))
	}
	return env
}

func coins(t *testing.T, denom string, amount uint64) types.Coins {
	t.Helper()
	c := types.EmptyCoins()
	require.NoError(t, c.Increase(denom, uint256.NewInt(amount)))
	return c
}

func TestExecuteFundsTransferredFirst(t *testing.T) {
	env := newTestEnv(t)

	msg := types.Message{Execute: &types.MsgExecute{
		Contract: env.contract,
		Msg:      []byte(`{}`),
		Funds:    coins(t, "atom", 100),
	}}
	events, err := env.app.ProcessMsg(env.store, env.block, env.sender, msg)
	require.NoError(t, err)

	// the bank transfer runs before the contract's entry point
	require.Equal(t, []string{"transfer", "execute"}, env.vm.entries())
	assert.Equal(t, env.bank, env.vm.calls[0].ctx.Contract)
	assert.Equal(t, env.contract, env.vm.calls[1].ctx.Contract)

	// the contract call carries sender and funds
	execCtx := env.vm.calls[1].ctx
	require.NotNil(t, execCtx.Sender)
	assert.Equal(t, env.sender, *execCtx.Sender)
	require.NotNil(t, execCtx.Funds)
	assert.Equal(t, "atom:100", execCtx.Funds.String())

	// one transfer event, one execute event
	require.Len(t, events, 2)
	assert.Equal(t, "transfer", events[0].Type)
	assert.Equal(t, "execute", events[1].Type)
}

func TestExecuteWithoutFundsSkipsBank(t *testing.T) {
	env := newTestEnv(t)

	msg := types.Message{Execute: &types.MsgExecute{Contract: env.contract, Msg: []byte(`{}`)}}
	_, err := env.app.ProcessMsg(env.store, env.block, env.sender, msg)
	require.NoError(t, err)

	assert.Equal(t, []string{"execute"}, env.vm.entries())
}

func TestInstantiateCreatesAccountAndCallsConstructor(t *testing.T) {
	env := newTestEnv(t)

	salt := []byte("salt-1")
	admin := addr(0x09)
	msg := types.Message{Instantiate: &types.MsgInstantiate{
		CodeHash: env.codeHash,
		Msg:      []byte(`{}`),
		Salt:     salt,
		Funds:    coins(t, "atom", 25),
		Admin:    &admin,
	}}
	events, err := env.app.ProcessMsg(env.store, env.block, env.sender, msg)
	require.NoError(t, err)

	require.Equal(t, []string{"transfer", "instantiate"}, env.vm.entries())

	address := types.DeriveAddress(env.sender, env.codeHash, salt)
	assert.Equal(t, address, env.vm.calls[1].ctx.Contract)

	acct, err := loadAccount(env.store, address)
	require.NoError(t, err)
	assert.Equal(t, env.codeHash, acct.CodeHash)
	require.NotNil(t, acct.Admin)
	assert.Equal(t, admin, *acct.Admin)

	require.Len(t, events, 2)
	assert.Equal(t, "instantiate", events[1].Type)
	assert.Equal(t, address, events[1].Contract)
}

func TestInstantiateAddressCollision(t *testing.T) {
	env := newTestEnv(t)

	admin := addr(0x09)
	msg := types.Message{Instantiate: &types.MsgInstantiate{
		CodeHash: env.codeHash,
		Msg:      []byte(`{}`),
		Salt:     []byte("same-salt"),
		Admin:    &admin,
	}}
	_, err := env.app.ProcessMsg(env.store, env.block, env.sender, msg)
	require.NoError(t, err)

	// second instantiation of the same (deployer, code, salt) triple fails
	// and the first account is untouched
	msg.Instantiate.Admin = nil
	_, err = env.app.ProcessMsg(env.store, env.block, env.sender, msg)
	require.True(t, types.IsAlreadyExists(err))

	address := types.DeriveAddress(env.sender, env.codeHash, []byte("same-salt"))
	acct, err := loadAccount(env.store, address)
	require.NoError(t, err)
	require.NotNil(t, acct.Admin)
	assert.Equal(t, admin, *acct.Admin)
}

func TestTransferMessage(t *testing.T) {
	env := newTestEnv(t)

	to := addr(0x05)
	msg := types.Message{Transfer: &types.MsgTransfer{To: to, Coins: coins(t, "atom", 7)}}
	events, err := env.app.ProcessMsg(env.store, env.block, env.sender, msg)
	require.NoError(t, err)

	require.Equal(t, []string{"transfer"}, env.vm.entries())
	// the bank call is engine-initiated: no sender, no funds in context
	ctx := env.vm.calls[0].ctx
	assert.Equal(t, env.bank, ctx.Contract)
	assert.Nil(t, ctx.Sender)
	assert.Nil(t, ctx.Funds)

	require.Len(t, events, 1)
	assert.Equal(t, "transfer", events[0].Type)
	assert.Equal(t, []types.Attribute{
		{Key: "from", Value: env.sender.String()},
		{Key: "to", Value: to.String()},
		{Key: "coins", Value: "atom:7"},
	}, events[0].Attributes)
}

func TestMessageMustHaveExactlyOneVariant(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.app.ProcessMsg(env.store, env.block, env.sender, types.Message{})
	assert.Error(t, err)

	_, err = env.app.ProcessMsg(env.store, env.block, env.sender, types.Message{
		StoreCode: &types.MsgStoreCode{ByteCode: []byte("a")},
		Transfer:  &types.MsgTransfer{To: addr(0x05)},
	})
	assert.Error(t, err)
}

func TestExecuteUnknownContract(t *testing.T) {
	env := newTestEnv(t)

	msg := types.Message{Execute: &types.MsgExecute{Contract: addr(0x7f), Msg: []byte(`{}`)}}
	_, err := env.app.ProcessMsg(env.store, env.block, env.sender, msg)
	assert.True(t, types.IsNotFound(err))
}
