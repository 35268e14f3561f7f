package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/dadosloja/restaurante"
	"github.com/dadosloja/restaurante/internal/config"
	"github.com/dadosloja/restaurante/internal/logger"
	"github.com/dadosloja/restaurante/internal/watch"
)

const serviceName = "restaurante"

// app holds what every subcommand shares once setup has run.
type app struct {
	cfg *config.Config
	log *zap.Logger

	configPath  string
	logLevel    string
	dataDir     string
	outDir      string
	sourceType  string
	metricsFile string
	watch       bool
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "restaurante",
		Short: "tell the store's sales story as if it were a restaurant",
		Long: `Reads orders, order items, products and customers, computes the
"Prato do Dia", "Item Gourmet", "Mesa Cativa" and "Café" characters, prints
the story and writes it with two charts to the output directory.`,
		Args:              cobra.NoArgs,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		RunE:              a.runReport,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", config.DefaultPath, "path to config file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug | info | warn | error")
	pf.StringVar(&a.dataDir, "data-dir", "", "directory holding the CSV tables")
	pf.StringVar(&a.sourceType, "source", "", "where to read the tables from: csv | postgres")

	f := root.Flags()
	f.StringVar(&a.outDir, "out-dir", "", "directory receiving the story and the charts")
	f.StringVar(&a.metricsFile, "metrics-file", "", "also write a Prometheus textfile with this name into the output directory")
	f.BoolVar(&a.watch, "watch", false, "regenerate the story whenever a CSV table changes")

	root.AddCommand(a.migrateCommand(), a.importCommand())
	return root
}

// setup loads .env and the config file, applies flag overrides and builds the
// logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	if err := config.LoadEnv(".env"); err != nil {
		return err
	}

	cfg, err := config.Load(a.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("data-dir") {
		cfg.Source.DataDir = a.dataDir
	}
	if flags.Changed("source") {
		cfg.Source.Type = a.sourceType
	}
	if flags.Changed("out-dir") {
		cfg.Output.Dir = a.outDir
	}
	if flags.Changed("metrics-file") {
		cfg.Output.MetricsFile = a.metricsFile
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	a.cfg = cfg

	log, err := logger.Init(&logger.Config{
		Level:       cfg.Log.Level,
		Environment: cfg.Log.Environment,
		ServiceName: serviceName,
	})
	if err != nil {
		return err
	}
	a.log = log.With(zap.String("run_id", uuid.NewString()), zap.String("command", cmd.Name()))
	cmd.SetContext(logger.WithContext(cmd.Context(), a.log))
	return nil
}

func (a *app) runReport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	opts := restaurante.Options{
		OutputDir:   a.cfg.Output.Dir,
		MetricsFile: a.cfg.Output.MetricsFile,
		Period:      a.cfg.Report.Period,
		Stdout:      cmd.OutOrStdout(),
	}

	src, closeSrc, err := a.openSource(ctx)
	if err != nil {
		return err
	}
	defer closeSrc()

	if _, err := restaurante.Run(ctx, src, opts); err != nil {
		return err
	}
	if !a.watch {
		return nil
	}
	if a.cfg.Source.Type != config.SourceCSV {
		return errors.New("--watch only works with the csv source")
	}

	w := &watch.Watcher{
		Dir:    a.cfg.Source.DataDir,
		Names:  restaurante.InputFiles,
		Logger: a.log,
	}
	return w.Run(ctx, func(ctx context.Context, _ []string) error {
		_, err := restaurante.Run(ctx, src, opts)
		return err
	})
}

func (a *app) migrateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "apply the database schema to the configured PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dsn, err := a.dsn()
			if err != nil {
				return err
			}
			if err := restaurante.Migrate(dsn); err != nil {
				return err
			}
			a.log.Info("schema is up to date")
			return nil
		},
	}
}

func (a *app) importCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import",
		Short: "copy the CSV tables from --data-dir into PostgreSQL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			dsn, err := a.dsn()
			if err != nil {
				return err
			}

			ds, err := restaurante.CSVSource{Dir: a.cfg.Source.DataDir}.Load(ctx)
			if err != nil {
				return err
			}
			if err := restaurante.Migrate(dsn); err != nil {
				return err
			}

			repo, err := restaurante.NewRepository(ctx, dsn)
			if err != nil {
				return err
			}
			defer repo.Close(ctx)

			if err := repo.ImportDataset(ctx, ds); err != nil {
				return err
			}
			a.log.Info("tables imported",
				zap.Int("orders", len(ds.Orders)),
				zap.Int("order_items", len(ds.OrderItems)),
				zap.Int("products", len(ds.Products)),
				zap.Int("customers", len(ds.Customers)),
			)
			return nil
		},
	}
}

func (a *app) openSource(ctx context.Context) (restaurante.Source, func(), error) {
	switch a.cfg.Source.Type {
	case config.SourcePostgres:
		dsn, err := a.dsn()
		if err != nil {
			return nil, nil, err
		}
		repo, err := restaurante.NewRepository(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return repo, func() { _ = repo.Close(context.Background()) }, nil
	default:
		return restaurante.CSVSource{Dir: a.cfg.Source.DataDir}, func() {}, nil
	}
}

func (a *app) dsn() (string, error) {
	dsn := a.cfg.Source.DSN()
	if dsn == "" {
		return "", fmt.Errorf("environment variable %s is not set", a.cfg.Source.DSNEnv)
	}
	return dsn, nil
}
