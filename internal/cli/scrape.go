package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/dp-headlines/internal/config"
	"github.com/pfrederiksen/dp-headlines/internal/logger"
	"github.com/pfrederiksen/dp-headlines/internal/scraper"
	"github.com/pfrederiksen/dp-headlines/internal/storage"
)

func newScrapeCmd(st *rootState) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Fetch the homepage and record today's featured headlines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner := &Runner{
				Config:  st.cfg,
				Scraper: newScraper(st.cfg),
				Log:     st.log,
				Metrics: logger.NewMetrics(),
				Verbose: st.flagVerbose,
			}
			_, err := runner.Run(cmd.Context())
			return err
		},
	}

	cmd.Flags().StringVar(&st.flagURL, "url", "", "Homepage URL to scrape (env DP_URL)")
	cmd.Flags().DurationVar(&st.flagTimeout, "timeout", 0, "Fetch timeout (env DP_TIMEOUT)")
	cmd.Flags().StringVar(&st.flagTimezone, "timezone", "", "Time zone deciding the snapshot date (env DP_TIMEZONE)")

	return cmd
}

func (st *rootState) applyScrapeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("url") == nil {
		return
	}
	if flags.Changed("url") {
		cfg.URL = st.flagURL
	}
	if flags.Changed("timeout") {
		cfg.Timeout = st.flagTimeout
	}
	if flags.Changed("timezone") {
		cfg.Timezone = st.flagTimezone
	}
}

func newScraper(cfg *config.Config) *scraper.Scraper {
	return scraper.New(
		scraper.WithURL(cfg.URL),
		scraper.WithTimeout(cfg.Timeout),
		scraper.WithUserAgent(cfg.UserAgent),
	)
}

// Outcome summarizes a scrape run
type Outcome struct {
	RunID     string
	Date      string
	Recorded  bool
	Headlines int
	StorePath string
}

// Runner performs one scrape run
type Runner struct {
	Config  *config.Config
	Scraper *scraper.Scraper
	Log     *logger.Logger
	Metrics *logger.Metrics
	Clock   func() time.Time
	Verbose bool

	// OpenStore defaults to storage.Load
	OpenStore func(path string, opts ...storage.Option) (*storage.EventStore, error)
}

// Run prepares the store, scrapes, and saves today's snapshot.
// Fetch and extraction failures are logged and leave the store untouched with a nil
// error; directory, store and save failures are returned.
func (r *Runner) Run(ctx context.Context) (*Outcome, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r.Metrics == nil {
		r.Metrics = logger.NewMetrics()
	}
	clock := r.Clock
	if clock == nil {
		clock = time.Now
	}

	out := &Outcome{RunID: uuid.NewString()}
	log := r.Log
	if log == nil {
		log = logger.Default()
	}
	log = log.With(logger.Fields{"run_id": out.RunID})

	log.Info("Creating data directory if it does not exist", logger.Fields{"dir": r.Config.DataDir})
	dir, err := storage.EnsureDir(r.Config.DataDir)
	if err != nil {
		log.Error("Failed to create data directory", nil, err)
		return out, err
	}

	cfg := *r.Config
	cfg.DataDir = dir
	out.StorePath = cfg.StorePath()

	log.Info("Loading headline store", logger.Fields{"path": out.StorePath})
	open := r.OpenStore
	if open == nil {
		open = storage.Load
	}
	store, err := open(out.StorePath,
		storage.WithLocation(cfg.Location),
		storage.WithClock(clock),
	)
	if err != nil {
		log.Error("Failed to load headline store", logger.Fields{"path": out.StorePath}, err)
		return out, fmt.Errorf("loading store: %w", err)
	}
	out.Date = store.Today()

	log.Info("Starting scrape", logger.Fields{"url": r.Scraper.URL(), "dates_loaded": store.Len()})
	start := time.Now()
	result, err := r.Scraper.FetchHeadlines(ctx)
	r.Metrics.RecordTiming("scrape.fetch", time.Since(start))

	if err != nil {
		r.Metrics.IncrCounter("scrape.failure")
		fields := logger.Fields{"url": r.Scraper.URL()}
		var fetchErr *scraper.FetchError
		if errors.As(err, &fetchErr) {
			fields["status_code"] = fetchErr.StatusCode
			fields["timeout"] = fetchErr.Timeout()
		}
		log.Error("Failed to scrape data point", fields, err)
		r.finish(log, store, out)
		return out, nil
	}

	log.Info("Request URL", logger.Fields{"url": result.URL})
	log.Info("Request status code", logger.Fields{"status_code": result.StatusCode})

	if !result.Found {
		r.Metrics.IncrCounter("scrape.not_found")
		log.Warn("Featured section not found, skipping record", logger.Fields{"date": out.Date})
		r.finish(log, store, out)
		return out, nil
	}

	log.Info("Data points", logger.Fields{"count": len(result.Headlines), "headlines": result.Headlines})
	r.Metrics.SetGauge("scrape.headlines", float64(len(result.Headlines)))

	snap := store.RecordToday(result.Headlines)
	if err := store.Save(); err != nil {
		log.Error("Failed to save headline store", logger.Fields{"path": out.StorePath}, err)
		return out, err
	}
	r.Metrics.IncrCounter("scrape.success")

	out.Date = snap.Date
	out.Recorded = true
	out.Headlines = len(snap.Headlines)
	log.Info("Saved headline store", logger.Fields{"date": snap.Date, "headlines": out.Headlines, "dates": store.Len()})

	r.finish(log, store, out)
	return out, nil
}

func (r *Runner) finish(log *logger.Logger, store *storage.EventStore, out *Outcome) {
	if r.Verbose {
		if cwd, err := os.Getwd(); err == nil {
			logTree(log, cwd)
		}
		logStoreFile(log, store.Path())
	}

	log.Info("Scrape complete", logger.Fields{
		"recorded": out.Recorded,
		"metrics":  r.Metrics.GetSnapshot(),
	})
}

// logStoreFile logs the raw contents of the store file, if it exists
func logStoreFile(log *logger.Logger, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn("Could not read store file", logger.Fields{"path": path, "error": err.Error()})
		}
		return
	}
	log.Info("Contents of data file", logger.Fields{"path": filepath.Clean(path), "contents": string(data)})
}
