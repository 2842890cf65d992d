package utils

import (
	"context"
	"testing"

	"github.com/iov-one/ledger/errors"
	"github.com/iov-one/ledger/store"
	"github.com/iov-one/ledger/weavetest"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := NewMetrics(reg)
	require.NoError(t, err)

	_, err = NewMetrics(reg)
	require.Error(t, err, "collectors must not be registered twice")

	ok := weavetest.Decorate(&weavetest.Handler{}, m)
	failing := weavetest.Decorate(&weavetest.Handler{DeliverErr: errors.ErrUnauthorized}, m)
	tx := &weavetest.Tx{Msg: &weavetest.Msg{RoutePath: "escrow/refund"}}
	ctx := context.Background()
	db := store.MemStore()

	_, _ = ok.Check(ctx, db, tx)
	_, _ = ok.Deliver(ctx, db, tx)
	_, _ = ok.Deliver(ctx, db, tx)
	_, _ = failing.Deliver(ctx, db, tx)

	families, err := reg.Gather()
	require.NoError(t, err)

	counts := make(map[string]float64)
	var observed uint64
	for _, mf := range families {
		for _, metric := range mf.GetMetric() {
			labels := make(map[string]string)
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			switch mf.GetName() {
			case "ledger_tx_total":
				counts[labels["phase"]+"/"+labels["code"]] += metric.GetCounter().GetValue()
			case "ledger_tx_duration_seconds":
				assert.Equal(t, "escrow/refund", labels["path"])
				observed += metric.GetHistogram().GetSampleCount()
			}
		}
	}
	assert.Equal(t, map[string]float64{
		"check/0":   1,
		"deliver/0": 2,
		"deliver/2": 1,
	}, counts)
	assert.Equal(t, uint64(4), observed)
}
