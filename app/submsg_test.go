package app

import (
	"errors"
	"testing"

	"github.com/govm-net/cwd/types"
	"github.com/govm-net/cwd/vm"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// respondOnce makes the contract request a submessage on its first execute
// call and return an empty response afterwards.
func respondOnce(env *testEnv, sub types.SubMsg) {
	fired := false
	env.vm.onExecute = func(ctx *types.Context, msg []byte) (*types.Response, error) {
		if fired {
			return &types.Response{}, nil
		}
		fired = true
		return &types.Response{SubMsgs: []types.SubMsg{sub}}, nil
	}
}

func executeMsg(env *testEnv) types.Message {
	return types.Message{Execute: &types.MsgExecute{Contract: env.contract, Msg: []byte(`{}`)}}
}

func TestSubMsgReplyNever(t *testing.T) {
	env := newTestEnv(t)
	respondOnce(env, types.SubMsg{Msg: executeMsg(env), ReplyOn: types.ReplyNever})

	events, err := env.app.ProcessMsg(env.store, env.block, env.sender, executeMsg(env))
	require.NoError(t, err)

	// the submessage ran with the emitter as sender, and no reply was made
	require.Equal(t, []string{"execute", "execute"}, env.vm.entries())
	require.NotNil(t, env.vm.calls[1].ctx.Sender)
	assert.Equal(t, env.contract, *env.vm.calls[1].ctx.Sender)

	require.Len(t, events, 2)
	assert.Equal(t, "execute", events[1].Type)
}

func TestSubMsgReplyOnSuccess(t *testing.T) {
	env := newTestEnv(t)
	respondOnce(env, types.SubMsg{Msg: executeMsg(env), ReplyOn: types.ReplySuccess})

	var result *types.SubMsgResult
	env.vm.onReply = func(ctx *types.Context) (*types.Response, error) {
		result = ctx.SubMsgResult
		return &types.Response{}, nil
	}

	events, err := env.app.ProcessMsg(env.store, env.block, env.sender, executeMsg(env))
	require.NoError(t, err)

	require.Equal(t, []string{"execute", "execute", "reply"}, env.vm.entries())
	assert.Equal(t, env.contract, env.vm.calls[2].ctx.Contract)

	// the reply carries the submessage's success outcome with its events
	require.NotNil(t, result)
	require.NotNil(t, result.Ok)
	assert.Empty(t, result.Err)
	require.Len(t, result.Ok.Events, 1)
	assert.Equal(t, "execute", result.Ok.Events[0].Type)

	require.Len(t, events, 3)
	assert.Equal(t, "reply", events[2].Type)
}

func TestSubMsgReplyOnErrorSwallowsFailure(t *testing.T) {
	env := newTestEnv(t)

	// the submessage targets an unknown contract, so it fails inside the
	// dispatcher before any entry point runs
	bad := types.Message{Execute: &types.MsgExecute{Contract: addr(0x7f), Msg: []byte(`{}`)}}
	respondOnce(env, types.SubMsg{Msg: bad, ReplyOn: types.ReplyError})

	var result *types.SubMsgResult
	env.vm.onReply = func(ctx *types.Context) (*types.Response, error) {
		result = ctx.SubMsgResult
		return &types.Response{}, nil
	}

	events, err := env.app.ProcessMsg(env.store, env.block, env.sender, executeMsg(env))
	require.NoError(t, err)

	require.NotNil(t, result)
	assert.Nil(t, result.Ok)
	assert.Contains(t, result.Err, "not found")

	// the failed submessage contributes no events, only the reply does
	require.Len(t, events, 2)
	assert.Equal(t, "execute", events[0].Type)
	assert.Equal(t, "reply", events[1].Type)
}

func TestSubMsgFailurePropagatesWithoutErrorReply(t *testing.T) {
	env := newTestEnv(t)

	bad := types.Message{Execute: &types.MsgExecute{Contract: addr(0x7f), Msg: []byte(`{}`)}}
	for _, policy := range []types.ReplyOn{types.ReplyNever, types.ReplySuccess} {
		env.vm.calls = nil
		respondOnce(env, types.SubMsg{Msg: bad, ReplyOn: policy})

		_, err := env.app.ProcessMsg(env.store, env.block, env.sender, executeMsg(env))
		assert.True(t, types.IsNotFound(err), "policy %s", policy)
	}
}

func TestSubMsgReplyAlways(t *testing.T) {
	env := newTestEnv(t)
	respondOnce(env, types.SubMsg{Msg: executeMsg(env), ReplyOn: types.ReplyAlways})

	_, err := env.app.ProcessMsg(env.store, env.block, env.sender, executeMsg(env))
	require.NoError(t, err)
	assert.Equal(t, []string{"execute", "execute", "reply"}, env.vm.entries())
}

func TestSubMsgFailingReplyHandlerFailsCall(t *testing.T) {
	env := newTestEnv(t)
	respondOnce(env, types.SubMsg{Msg: executeMsg(env), ReplyOn: types.ReplyAlways})
	env.vm.onReply = func(ctx *types.Context) (*types.Response, error) {
		return nil, errors.New("reply rejected")
	}

	_, err := env.app.ProcessMsg(env.store, env.block, env.sender, executeMsg(env))
	assert.ErrorContains(t, err, "reply rejected")
}

func TestSubMsgDepthBound(t *testing.T) {
	env := newTestEnv(t)

	// every execute call spawns another one: an unbounded recursion
	env.vm.onExecute = func(ctx *types.Context, msg []byte) (*types.Response, error) {
		return &types.Response{
			SubMsgs: []types.SubMsg{{Msg: executeMsg(env), ReplyOn: types.ReplyNever}},
		}, nil
	}

	_, err := env.app.ProcessMsg(env.store, env.block, env.sender, executeMsg(env))
	require.ErrorIs(t, err, ErrCallDepth)
	assert.LessOrEqual(t, len(env.vm.calls), MaxCallDepth+1)
}

func TestGasDepletionPropagates(t *testing.T) {
	env := newTestEnv(t)
	env.vm.onExecute = func(ctx *types.Context, msg []byte) (*types.Response, error) {
		return nil, vm.ErrGasDepletion
	}

	_, err := env.app.ProcessMsg(env.store, env.block, env.sender, executeMsg(env))
	assert.ErrorIs(t, err, vm.ErrGasDepletion)
}
