package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/teesheet-sync/internal/config"
	"github.com/pfrederiksen/teesheet-sync/internal/logger"
	"github.com/pfrederiksen/teesheet-sync/internal/navigator"
	"github.com/pfrederiksen/teesheet-sync/internal/pipeline"
	"github.com/pfrederiksen/teesheet-sync/internal/storage"
	"github.com/pfrederiksen/teesheet-sync/internal/store"
	"github.com/pfrederiksen/teesheet-sync/internal/store/mongo"
	"github.com/pfrederiksen/teesheet-sync/internal/store/postgres"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

type options struct {
	envFile     string
	snapshotDir string
	archiveDir  string
	format      string
	sort        string
	migrate     bool
	verbose     bool
}

// openStore connects the store selected by cfg
var openStore = func(ctx context.Context, cfg *config.Config, migrate bool) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverMongo:
		return mongo.New(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	default:
		return postgres.New(ctx, &postgres.Config{
			Pool:        postgres.PoolConfig{ConnString: cfg.DatabaseURL},
			AutoMigrate: migrate,
		})
	}
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "teesheet-sync",
		Short: "Sync weekend tee sheet lottery wins into club groups",
		Long: `A CLI tool that reads the club's Saturday and Sunday tee sheets,
matches golfer names against group members and pending invitees, and
records every won tee time for the winning group.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&opts.envFile, "env-file", "", "Load environment variables from a dotenv file")
	cmd.Flags().StringVar(&opts.snapshotDir, "snapshot-dir", "", "Read tee sheets from <dir>/<date>.html instead of the live site")
	cmd.Flags().StringVar(&opts.archiveDir, "archive-dir", "", "Archive each processed day as JSON under this directory")
	cmd.Flags().StringVar(&opts.format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.sort, "sort", "time", "Sort wins by: time, group, or name")
	cmd.Flags().BoolVar(&opts.migrate, "migrate", false, "Apply database migrations before syncing")
	cmd.Flags().BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	return cmd
}

// run is the main command logic
func run(ctx context.Context, opts *options, out io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format := OutputFormat(strings.ToLower(opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.format)
	}

	order := SortOrder(strings.ToLower(opts.sort))
	if !order.valid() {
		return fmt.Errorf("invalid sort: %s (must be 'time', 'group' or 'name')", opts.sort)
	}

	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(opts.snapshotDir == ""); err != nil {
		return err
	}

	log := logger.Setup(opts.verbose)
	log.Debug().
		Str("club_id", cfg.ClubID).
		Str("store", cfg.StoreDriver).
		Str("snapshot_dir", opts.snapshotDir).
		Msg("Starting sync")

	st, err := openStore(ctx, cfg, opts.migrate || cfg.AutoMigrate)
	if err != nil {
		return fmt.Errorf("opening %s store: %w", cfg.StoreDriver, err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("Closing store")
		}
	}()

	nav, err := newNavigator(cfg, opts.snapshotDir)
	if err != nil {
		return err
	}

	var archive *storage.Storage
	if opts.archiveDir != "" {
		archive, err = storage.New(opts.archiveDir)
		if err != nil {
			return fmt.Errorf("initializing archive: %w", err)
		}
	}

	metrics := logger.NewMetrics()
	runner := &pipeline.Runner{
		ClubID:    cfg.ClubID,
		Store:     st,
		Navigator: nav,
		Logger:    log,
		Archive:   archive,
		Settle:    cfg.SettleDelay,
		Metrics:   metrics,
	}

	report, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	metrics.Log(log)

	if err := WriteOutput(out, NewOutputResult(report, order), format, opts.verbose); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	return nil
}

func newNavigator(cfg *config.Config, snapshotDir string) (navigator.Navigator, error) {
	if snapshotDir != "" {
		return navigator.NewDir(snapshotDir), nil
	}

	nav, err := navigator.NewHTTP(navigator.HTTPConfig{
		SheetURL: cfg.SheetURL,
		LoginURL: cfg.LoginURL,
		Username: cfg.Username,
		Password: cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing tee sheet navigator: %w", err)
	}
	return nav, nil
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return ExitError
	}
	return ExitSuccess
}
