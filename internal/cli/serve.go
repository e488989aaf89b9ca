package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mrz1836/go-bikerental/internal/logging"
	"github.com/mrz1836/go-bikerental/internal/metrics"
	"github.com/mrz1836/go-bikerental/internal/server"
)

type serveOptions struct {
	addr     string
	artifact string
}

// createServeCmd creates an isolated serve command with the given flags
func createServeCmd(flags *Flags) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve predictions over HTTP",
		Long: `Load a saved pipeline and serve it over HTTP until interrupted.

Endpoints:
  POST /api/v1/predict   predict for one record or a batch
  GET  /api/v1/health    liveness and model version
  GET  /metrics          Prometheus metrics`,
		Example: `  # Serve the configured artifact on the configured address
  bikerental serve

  # Serve a specific artifact on another port
  bikerental serve --addr :9000 --artifact trained_models/bikerental__model_output_v0.2.0.json`,
		Args: cobra.NoArgs,
		RunE: createRunServe(flags, opts),
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "Listen address (default: server.addr)")
	cmd.Flags().StringVarP(&opts.artifact, "artifact", "a", "", "Artifact path (default: the configured version in artifact_dir)")
	return cmd
}

func createRunServe(flags *Flags, opts *serveOptions) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		log := commandLogger(ctx, "serve")

		cfg, err := loadConfig(ctx, flags)
		if err != nil {
			return err
		}
		if opts.addr != "" {
			cfg.Server.Addr = opts.addr
		}

		path := artifactPathFor(cfg, opts.artifact)
		p, err := loadPipeline(ctx, cfg, path)
		if err != nil {
			return err
		}

		rec, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		if rec != nil {
			defer func() {
				if closeErr := rec.Close(); closeErr != nil {
					log.WithError(closeErr).Warn("Failed to close prediction store")
				}
			}()
		}

		collector := metrics.NewCollector()
		collector.SetModelVersion(p.Version())

		svc := newService(ctx, cfg, p, rec, collector, cfg.Server.StrictValidation)
		srv := server.New(svc, collector, cfg.Server, loggerFrom(ctx), logConfigFrom(ctx))

		log.WithFields(logrus.Fields{
			logging.StandardFields.Operation:    logging.OperationTypes.Serve,
			logging.StandardFields.ModelVersion: p.Version(),
			"artifact":                          path,
			"addr":                              cfg.Server.Addr,
			"store":                             cfg.Store.Driver,
		}).Info("Starting prediction server")

		return srv.Run(ctx)
	}
}
