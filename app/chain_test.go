package app

import (
	"testing"

	"github.com/dappr/dappr/dapprtest"
	"github.com/dappr/dappr/errors"
	"github.com/dappr/dappr/x/utils"
	"github.com/stretchr/testify/assert"
)

func TestChain(t *testing.T) {
	var (
		c1  = &dapprtest.Decorator{}
		c2  = &dapprtest.Decorator{}
		h   = &dapprtest.Handler{}
		msg = &dapprtest.Msg{RoutePath: "test/chain"}
		ctx = dapprtest.Context()
	)

	stack := ChainDecorators(
		c1,
		utils.NewLogging(),
		nil,
		utils.NewRecovery(),
		c2,
	).WithHandler(h)

	assert.NoError(t, stack.Check(ctx, nil, msg))
	_, err := stack.Deliver(ctx, nil, msg)
	assert.NoError(t, err)

	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, h.CallCount())

	// An error returned by a decorator stops the chain.
	c1.CheckErr = errors.ErrUnauthorized
	err = stack.Check(ctx, nil, msg)
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainRecoversPanic(t *testing.T) {
	stack := ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
	).WithHandler(dapprtest.PanicHandler{})

	msg := &dapprtest.Msg{RoutePath: "test/panic"}
	err := stack.Check(dapprtest.Context(), nil, msg)
	assert.True(t, errors.ErrPanic.Is(err))
	_, err = stack.Deliver(dapprtest.Context(), nil, msg)
	assert.True(t, errors.ErrPanic.Is(err))
}

func TestChainAppend(t *testing.T) {
	base := ChainDecorators(&dapprtest.Decorator{})
	a := base.Chain(&dapprtest.Decorator{})
	b := base.Chain(&dapprtest.Decorator{}, &dapprtest.Decorator{})

	assert.Len(t, base.chain, 1)
	assert.Len(t, a.chain, 2)
	assert.Len(t, b.chain, 3)
}
