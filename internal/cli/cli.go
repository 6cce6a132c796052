package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pfrederiksen/dp-headlines/internal/config"
	"github.com/pfrederiksen/dp-headlines/internal/logger"
	"github.com/pfrederiksen/dp-headlines/internal/storage"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// rootState carries flag values and resources shared by the subcommands
type rootState struct {
	flagDataDir  string
	flagStore    string
	flagLogLevel string
	flagLogFile  string
	flagVerbose  bool

	flagURL      string
	flagTimeout  time.Duration
	flagTimezone string

	cfg     *config.Config
	log     *logger.Logger
	logFile *os.File
	stdout  io.Writer
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(&rootState{stdout: os.Stdout})
}

func newRootCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dp-headlines",
		Short: "Record The Daily Pennsylvanian's featured headlines",
		Long: `A scheduled scraper that records the featured headlines on The Daily Pennsylvanian
homepage into a JSON history keyed by date. Running it again on the same day replaces
that day's entry.`,
		SilenceUsage:       true,
		SilenceErrors:      true,
		PersistentPreRunE:  st.setup,
		PersistentPostRunE: st.teardown,
	}

	cmd.PersistentFlags().StringVar(&st.flagDataDir, "data-dir", "", "Data directory for the headline history (env DP_DATA_DIR)")
	cmd.PersistentFlags().StringVar(&st.flagStore, "store", "", "Store file name inside the data directory (env DP_STORE_NAME)")
	cmd.PersistentFlags().StringVar(&st.flagLogLevel, "log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	cmd.PersistentFlags().StringVar(&st.flagLogFile, "log-file", "", "Log file written alongside stdout, 'none' to disable (env DP_LOG_FILE)")
	cmd.PersistentFlags().BoolVar(&st.flagVerbose, "verbose", false, "Log the working tree and the store contents after a scrape")

	scrape := newScrapeCmd(st)
	cmd.RunE = scrape.RunE
	cmd.Flags().AddFlagSet(scrape.Flags())

	cmd.AddCommand(scrape, newShowCmd(st), newChartCmd(st), newServeCmd(st))

	return cmd
}

// setup loads config, applies flag overrides and opens the log
func (st *rootState) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if st.flagDataDir != "" {
		cfg.DataDir = st.flagDataDir
	}
	if st.flagStore != "" {
		cfg.StoreName = st.flagStore
	}
	if st.flagLogLevel != "" {
		cfg.LogLevel = st.flagLogLevel
	}
	if st.flagLogFile != "" {
		cfg.LogFile = st.flagLogFile
	}
	st.applyScrapeFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	dir, err := storage.ExpandDir(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("resolving data directory: %w", err)
	}
	cfg.DataDir = dir
	st.cfg = cfg

	var out io.Writer = cmd.ErrOrStderr()
	if cfg.LogFile != "" && cfg.LogFile != "none" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		st.logFile = f
		out = io.MultiWriter(out, f)
	}

	st.log = logger.New(logger.ParseLevel(cfg.LogLevel), out)
	logger.SetDefault(st.log)
	st.stdout = cmd.OutOrStdout()

	return nil
}

func (st *rootState) teardown(cmd *cobra.Command, args []string) error {
	return st.closeLog()
}

// closeLog is safe to call more than once
func (st *rootState) closeLog() error {
	if st.logFile == nil {
		return nil
	}
	err := st.logFile.Close()
	st.logFile = nil
	return err
}

// run executes cmd and closes the log file even when RunE fails, since cobra
// skips PersistentPostRunE on error.
func run(st *rootState, cmd *cobra.Command) error {
	defer st.closeLog()

	start := time.Now()
	err := cmd.Execute()
	if err != nil {
		logger.Error("Run failed", logger.Fields{"elapsed": time.Since(start).String()}, err)
	}
	return err
}

// Execute runs the CLI
func Execute() {
	st := &rootState{stdout: os.Stdout}
	if err := run(st, newRootCmd(st)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
