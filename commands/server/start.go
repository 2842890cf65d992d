package server

import (
	"flag"
	"net/http"

	"github.com/iov-one/ledger/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tendermint/tendermint/abci/server"
	abci "github.com/tendermint/tendermint/abci/types"
	cmn "github.com/tendermint/tendermint/libs/common"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagBind    = "bind"
	flagMetrics = "metrics"
	flagDebug   = "debug"
)

// parseFlags applies the start flags on top of the loaded configuration.
func parseFlags(conf Config, args []string) (Config, error) {
	startFlags := flag.NewFlagSet("start", flag.ContinueOnError)
	startFlags.StringVar(&conf.Bind, flagBind, conf.Bind, "address server listens on")
	startFlags.StringVar(&conf.MetricsBind, flagMetrics, conf.MetricsBind, "address of the prometheus endpoint, disabled if empty")
	startFlags.BoolVar(&conf.Debug, flagDebug, conf.Debug, "call stack returned on error")
	if err := startFlags.Parse(args); err != nil {
		return conf, errors.Wrap(errors.ErrInput, err.Error())
	}
	return conf, nil
}

// AppGenerator lets us lazily initialize app, using home dir
// and logger potentially initialized with other flags. The registerer is
// nil when metrics are disabled.
type AppGenerator func(home string, logger log.Logger, debug bool, reg prometheus.Registerer) (abci.Application, error)

// StartCmd initializes the application and runs the ABCI server until the
// process is terminated.
func StartCmd(gen AppGenerator, logger log.Logger, home string, args []string) error {
	conf, err := LoadConfig(home)
	if err != nil {
		return err
	}
	conf, err = parseFlags(conf, args)
	if err != nil {
		return err
	}

	// The generator must receive an untyped nil when metrics are disabled.
	var (
		registry *prometheus.Registry
		reg      prometheus.Registerer
	)
	if conf.MetricsBind != "" {
		registry = prometheus.NewRegistry()
		reg = registry
	}

	// Generate the app in the proper dir
	app, err := gen(home, logger, conf.Debug, reg)
	if err != nil {
		return err
	}

	if registry != nil {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
		go func() {
			logger.Info("Serving metrics", "bind", conf.MetricsBind)
			if err := http.ListenAndServe(conf.MetricsBind, mux); err != nil {
				logger.Error("Metrics server stopped", "err", err)
			}
		}()
	}

	logger.Info("Starting ABCI app", "bind", conf.Bind)

	svr, err := server.NewServer(conf.Bind, "socket", app)
	if err != nil {
		return errors.Wrapf(errors.ErrHuman, "create listener: %s", err)
	}
	svr.SetLogger(logger.With("module", "abci-server"))
	if err := svr.Start(); err != nil {
		return errors.Wrapf(errors.ErrHuman, "start server: %s", err)
	}

	cmn.TrapSignal(logger, func() {
		svr.Stop()
	})
	// TrapSignal exits the process on SIGINT and SIGTERM.
	select {}
}
