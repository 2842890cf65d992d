package utils

import (
	"strconv"
	"time"

	"github.com/iov-one/ledger"
	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a decorator that counts processed transactions and measures
// their execution time. Transactions are labeled with the message path,
// the phase (check or deliver) and the ABCI code of the result.
type Metrics struct {
	total    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

var _ ledger.Decorator = (*Metrics)(nil)

// NewMetrics creates a Metrics decorator and registers its collectors with
// given registerer.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		total: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ledger",
			Subsystem: "tx",
			Name:      "total",
			Help:      "Number of processed transactions by path, phase and result code.",
		}, []string{"path", "phase", "code"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "ledger",
			Subsystem: "tx",
			Name:      "duration_seconds",
			Help:      "Transaction processing time by path and phase.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path", "phase"}),
	}
	for _, c := range []prometheus.Collector{m.total, m.duration} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Wrapf(errors.ErrHuman, "register metrics: %s", err)
		}
	}
	return m, nil
}

// Check measures the check execution.
func (m *Metrics) Check(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Checker) (*ledger.CheckResult, error) {
	start := time.Now()
	res, err := next.Check(ctx, store, tx)
	m.observe(ledger.GetPath(tx), "check", start, err)
	return res, err
}

// Deliver measures the deliver execution.
func (m *Metrics) Deliver(ctx ledger.Context, store ledger.KVStore, tx ledger.Tx, next ledger.Deliverer) (*ledger.DeliverResult, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, tx)
	m.observe(ledger.GetPath(tx), "deliver", start, err)
	return res, err
}

func (m *Metrics) observe(path, phase string, start time.Time, err error) {
	code, _ := errors.ABCIInfo(err, false)
	m.total.WithLabelValues(path, phase, codeLabel(code)).Inc()
	m.duration.WithLabelValues(path, phase).Observe(time.Since(start).Seconds())
}

func codeLabel(code uint32) string {
	return strconv.FormatUint(uint64(code), 10)
}
