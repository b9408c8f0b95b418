package app

import (
	"errors"
	"testing"

	"github.com/govm-net/cwd/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessTxHookOrder(t *testing.T) {
	env := newTestEnv(t)

	tx := &types.Tx{
		Sender: env.sender,
		Msgs: []types.Message{
			{Execute: &types.MsgExecute{Contract: env.contract, Msg: []byte(`{}`)}},
		},
	}
	events, err := env.app.ProcessTx(env.store, env.block, tx)
	require.NoError(t, err)

	require.Equal(t, []string{"before_tx", "execute", "after_tx"}, env.vm.entries())

	// both hooks run on the sender's own account, engine-initiated
	assert.Equal(t, env.sender, env.vm.calls[0].ctx.Contract)
	assert.Nil(t, env.vm.calls[0].ctx.Sender)
	assert.Equal(t, env.sender, env.vm.calls[2].ctx.Contract)

	// exactly one event per hook, tagged with the sender
	require.Len(t, events, 3)
	assert.Equal(t, "before_tx", events[0].Type)
	assert.Equal(t, "after_tx", events[2].Type)
	for _, ev := range []types.Event{events[0], events[2]} {
		assert.Equal(t, env.sender, ev.Contract)
		require.NotEmpty(t, ev.Attributes)
		assert.Equal(t, types.Attribute{Key: "sender", Value: env.sender.String()}, ev.Attributes[0])
	}
}

func TestProcessTxBeforeHookFailureSkipsMessages(t *testing.T) {
	env := newTestEnv(t)
	env.vm.onBeforeTx = func(ctx *types.Context, tx *types.Tx) (*types.Response, error) {
		return nil, errors.New("unauthorized")
	}

	tx := &types.Tx{
		Sender: env.sender,
		Msgs:   []types.Message{{Execute: &types.MsgExecute{Contract: env.contract, Msg: []byte(`{}`)}}},
	}
	_, err := env.app.ProcessTx(env.store, env.block, tx)
	require.ErrorContains(t, err, "unauthorized")

	// neither the messages nor the after hook ran
	assert.Equal(t, []string{"before_tx"}, env.vm.entries())
}

func TestProcessTxMessageFailureSkipsAfterHook(t *testing.T) {
	env := newTestEnv(t)
	env.vm.onExecute = func(ctx *types.Context, msg []byte) (*types.Response, error) {
		return nil, errors.New("boom")
	}

	tx := &types.Tx{
		Sender: env.sender,
		Msgs:   []types.Message{{Execute: &types.MsgExecute{Contract: env.contract, Msg: []byte(`{}`)}}},
	}
	_, err := env.app.ProcessTx(env.store, env.block, tx)
	require.ErrorContains(t, err, "boom")

	assert.Equal(t, []string{"before_tx", "execute"}, env.vm.entries())
}

func TestProcessTxUnknownSender(t *testing.T) {
	env := newTestEnv(t)

	tx := &types.Tx{Sender: addr(0x7f)}
	_, err := env.app.ProcessTx(env.store, env.block, tx)
	assert.True(t, types.IsNotFound(err))
}

func TestHookReceivesFullTx(t *testing.T) {
	env := newTestEnv(t)

	var seen *types.Tx
	env.vm.onBeforeTx = func(ctx *types.Context, tx *types.Tx) (*types.Response, error) {
		seen = tx
		return &types.Response{}, nil
	}

	tx := &types.Tx{Sender: env.sender, Credential: []byte("sig")}
	_, err := env.app.ProcessTx(env.store, env.block, tx)
	require.NoError(t, err)

	// the hook sees the whole transaction, credential included, so it can
	// verify the signature itself
	require.NotNil(t, seen)
	assert.Equal(t, []byte("sig"), seen.Credential)
}
