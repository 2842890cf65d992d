package app

import (
	"context"
	"testing"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/weavetest"
	"github.com/iov-one/ledger/weavetest/assert"
	tassert "github.com/stretchr/testify/assert"
)

func TestRouterDispatch(t *testing.T) {
	var (
		makeH   = &weavetest.Handler{DeliverResult: ledger.DeliverResult{Data: []byte("make")}}
		refundH = &weavetest.Handler{}
	)
	r := NewRouter()
	r.Handle("escrow/make", makeH)
	r.Handle("escrow/refund", refundH)

	ctx := context.Background()
	db := store.MemStore()

	res, err := r.Deliver(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/make"}})
	tassert.NoError(t, err)
	tassert.Equal(t, []byte("make"), res.Data)
	tassert.Equal(t, 1, makeH.DeliverCallCount())
	tassert.Equal(t, 0, refundH.CallCount())

	_, err = r.Check(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/refund"}})
	tassert.NoError(t, err)
	tassert.Equal(t, 1, refundH.CheckCallCount())

	_, err = r.Check(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/take"}})
	assert.IsErr(t, errors.ErrNotFound, err)
	_, err = r.Deliver(ctx, db, &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/take"}})
	assert.IsErr(t, errors.ErrNotFound, err)

	_, err = r.Deliver(ctx, db, &weavetest.Tx{Err: errors.ErrState})
	assert.IsErr(t, errors.ErrState, err)
}

func TestRouterRegistration(t *testing.T) {
	cases := map[string]struct {
		paths     []string
		wantPanic bool
	}{
		"unique paths": {
			paths: []string{"a/b", "a/c", "d_e"},
		},
		"duplicate path": {
			paths:     []string{"a/b", "a/b"},
			wantPanic: true,
		},
		"invalid path": {
			paths:     []string{"a-b"},
			wantPanic: true,
		},
		"empty path": {
			paths:     []string{""},
			wantPanic: true,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			defer func() {
				if p := recover(); (p != nil) != tc.wantPanic {
					t.Fatalf("want panic %v, got %v", tc.wantPanic, p)
				}
			}()
			r := NewRouter()
			for _, p := range tc.paths {
				r.Handle(p, &weavetest.Handler{})
			}
		})
	}
}
