package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/weavetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder appends its name to the shared log on every call.
type recorder struct {
	name string
	log  *[]string
}

func (r recorder) Check(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	*r.log = append(*r.log, r.name)
	return next.Check(ctx, db, tx)
}

func (r recorder) Deliver(ctx ledger.Context, db ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	*r.log = append(*r.log, r.name)
	return next.Deliver(ctx, db, tx)
}

func TestChainOrder(t *testing.T) {
	var log []string
	var nilDecorator *weavetest.Decorator

	h := &weavetest.Handler{}
	stack := ChainDecorators(
		recorder{"first", &log},
		nil,
		nilDecorator,
		recorder{"second", &log},
	).Chain(
		recorder{"third", &log},
	).WithHandler(h)

	ctx := context.Background()
	tx := &weavetest.Tx{}

	_, err := stack.Check(ctx, store.MemStore(), tx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, log)

	log = nil
	_, err = stack.Deliver(ctx, store.MemStore(), tx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, log)
	assert.Equal(t, 2, h.CallCount())
}

func TestChainDoesNotModifyParent(t *testing.T) {
	var log []string
	base := ChainDecorators(recorder{"base", &log})
	withA := base.Chain(recorder{"a", &log})
	withB := base.Chain(recorder{"b", &log})

	ctx := context.Background()
	_, err := withA.WithHandler(&weavetest.Handler{}).Check(ctx, store.MemStore(), &weavetest.Tx{})
	require.NoError(t, err)
	_, err = withB.WithHandler(&weavetest.Handler{}).Check(ctx, store.MemStore(), &weavetest.Tx{})
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "a", "base", "b"}, log)
}

func TestChainStopsOnError(t *testing.T) {
	h := &weavetest.Handler{}
	failing := &weavetest.Decorator{CheckErr: errors.ErrUnauthorized}
	after := &weavetest.Decorator{}
	stack := ChainDecorators(failing, after).WithHandler(h)

	_, err := stack.Check(context.Background(), store.MemStore(), &weavetest.Tx{})
	assert.True(t, errors.ErrUnauthorized.Is(err))
	assert.Equal(t, 0, after.CallCount())
	assert.Equal(t, 0, h.CallCount())
}
