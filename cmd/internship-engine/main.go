// internship-engine discovers internship postings via a search provider,
// normalizes and deduplicates them, optionally verifies each posting is
// still accepting applications, and exports the clean batch.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/diegovill05/internship-discovery-engine/internal/active"
	"github.com/diegovill05/internship-discovery-engine/internal/config"
	"github.com/diegovill05/internship-discovery-engine/internal/extract"
	"github.com/diegovill05/internship-discovery-engine/internal/model"
	"github.com/diegovill05/internship-discovery-engine/internal/notify"
	"github.com/diegovill05/internship-discovery-engine/internal/pipeline"
	"github.com/diegovill05/internship-discovery-engine/internal/scheduler"
	"github.com/diegovill05/internship-discovery-engine/internal/search"
	"github.com/diegovill05/internship-discovery-engine/internal/sheets"
	"github.com/diegovill05/internship-discovery-engine/internal/store"
)

type flags struct {
	configPath string
	source     string
	trackName  string
	locations  string
	keyword    string
	maxResults int
	withinDays int
	noRemote   bool

	checkActive    bool
	onlyActive     bool
	dropUnknown    bool
	activeCheckMax int
	checkWorkers   int

	enrich     bool
	export     string
	notify     bool
	daemon     bool
	runTimeout time.Duration
}

func parseFlags() *flags {
	f := &flags{}
	flag.StringVar(&f.configPath, "config", "config.yaml", "optional YAML config file")
	flag.StringVar(&f.source, "source", "brave", "search provider: brave or google")
	flag.StringVar(&f.trackName, "track", "all", "target track: swe|cyber|it|data|all")
	flag.StringVar(&f.locations, "location", "", "comma-separated allowed locations (substring match)")
	flag.StringVar(&f.keyword, "keyword", "", "explicit search keyword (overrides track expansion)")
	flag.IntVar(&f.maxResults, "max-results", 10, "maximum results per run")
	flag.IntVar(&f.withinDays, "posted-within-days", 0, "only keep postings dated within N days (0 = off)")
	flag.BoolVar(&f.noRemote, "no-remote", false, "exclude fully-remote postings")

	flag.BoolVar(&f.checkActive, "check-active", false, "probe posting URLs to verify they still accept applications")
	flag.BoolVar(&f.onlyActive, "only-active", false, "drop postings classified INACTIVE")
	flag.BoolVar(&f.dropUnknown, "drop-unknown-active", false, "with -only-active, also drop UNKNOWN postings")
	flag.IntVar(&f.activeCheckMax, "active-check-max", 10, "total active-check probes per run")
	flag.IntVar(&f.checkWorkers, "check-workers", 4, "concurrent in-flight probes")

	flag.BoolVar(&f.enrich, "enrich", false, "fetch each posting page and extract structured JobPosting data")
	flag.StringVar(&f.export, "export", "none", "export sink: sheet, postgres or none")
	flag.BoolVar(&f.notify, "notify", false, "send a Telegram summary of new postings")
	flag.BoolVar(&f.daemon, "daemon", false, "keep running on a cron interval (IE_RUN_INTERVAL_HOURS)")
	flag.DurationVar(&f.runTimeout, "run-timeout", 5*time.Minute, "overall per-run timeout")
	flag.Parse()
	return f
}

func main() {
	f := parseFlags()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		log.Fatalf("[main] config: %v", err)
	}

	tr, err := model.ParseTrack(f.trackName)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	criteria := model.Criteria{
		Track:             tr,
		Locations:         splitCSV(f.locations),
		Keyword:           f.keyword,
		MaxResults:        f.maxResults,
		PostedWithinDays:  f.withinDays,
		IncludeRemote:     !f.noRemote,
		OnlyActive:        f.onlyActive,
		DropUnknownActive: f.dropUnknown,
		ActiveCheckMax:    f.activeCheckMax,
	}
	if err := criteria.Validate(); err != nil {
		log.Fatalf("[main] %v", err)
	}

	provider, err := buildProvider(f.source, cfg)
	if err != nil {
		log.Fatalf("[main] %v", err)
	}

	app := &app{flags: f, cfg: cfg, criteria: criteria, provider: provider}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if f.daemon {
		sched := scheduler.New(app.runOnce, cfg.RunIntervalHours)
		if err := sched.Start(ctx); err != nil {
			log.Fatalf("[main] scheduler: %v", err)
		}
		<-ctx.Done()
		sched.Stop()
		return
	}

	if err := app.runOnce(ctx); err != nil {
		log.Fatalf("[main] run failed: %v", err)
	}
}

type app struct {
	flags    *flags
	cfg      *config.Config
	criteria model.Criteria
	provider search.Provider
}

// runOnce executes one full discovery run: load the seen-set, run the
// pipeline, print the batch and feed every configured sink.
func (a *app) runOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, a.flags.runTimeout)
	defer cancel()

	seen, exporter, postingStore, seenStore, err := a.loadSeen(ctx)
	if err != nil {
		return err
	}
	if seenStore != nil {
		defer seenStore.Close()
	}
	if postingStore != nil {
		defer postingStore.Close()
	}

	opts := pipeline.Options{Provider: a.provider, Seen: seen}
	if a.flags.checkActive || a.criteria.OnlyActive {
		opts.Checker = active.NewChecker(active.Config{
			MaxProbes: a.criteria.ActiveCheckMax,
			Workers:   a.flags.checkWorkers,
		}, nil)
	}
	if a.flags.enrich {
		opts.Extractor = extract.New(nil)
	}

	pl, err := pipeline.New(opts)
	if err != nil {
		return err
	}
	result, err := pl.Run(ctx, a.criteria)
	if err != nil {
		return err
	}

	printSummary(result.Postings)

	if exporter != nil {
		if err := exporter.Append(ctx, result.Postings); err != nil {
			log.Printf("[main] sheet export failed: %v", err)
		}
	}
	if postingStore != nil {
		n, err := postingStore.Insert(ctx, result.Postings)
		if err != nil {
			log.Printf("[main] postgres export failed: %v", err)
		} else {
			log.Printf("[store] inserted %d new posting(s)", n)
		}
	}
	if seenStore != nil {
		hashes := make([]string, 0, len(result.Postings))
		for _, p := range result.Postings {
			hashes = append(hashes, p.Fingerprint)
		}
		if err := seenStore.Add(ctx, hashes); err != nil {
			log.Printf("[main] seen-hash persist failed: %v", err)
		}
	}
	if a.flags.notify && a.cfg.TelegramToken != "" {
		notifier, err := notify.New(a.cfg.TelegramToken, a.cfg.TelegramChatID)
		if err != nil {
			log.Printf("[main] telegram setup failed: %v", err)
		} else if err := notifier.NotifyNew(result.Postings); err != nil {
			log.Printf("[main] telegram notify failed: %v", err)
		}
	}
	return nil
}

// loadSeen assembles the cross-run seen-hash set from every configured
// store, and returns the handles needed to write back at the end of the
// run.
func (a *app) loadSeen(ctx context.Context) (map[string]struct{}, *sheets.Exporter, *store.PostingStore, *store.SeenStore, error) {
	seen := make(map[string]struct{})
	var exporter *sheets.Exporter
	var postingStore *store.PostingStore
	var seenStore *store.SeenStore

	if a.cfg.RedisURL != "" {
		s, err := store.NewSeenStore(ctx, a.cfg.RedisURL)
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("redis: %w", err)
		}
		hashes, err := s.Load(ctx)
		if err != nil {
			s.Close()
			return nil, nil, nil, nil, err
		}
		merge(seen, hashes)
		seenStore = s
	}

	switch a.flags.export {
	case "sheet":
		if a.cfg.SheetID == "" || a.cfg.GoogleServiceAccountJSON == "" {
			return nil, nil, nil, nil, fmt.Errorf("sheet export requires IE_SHEET_ID and GOOGLE_SERVICE_ACCOUNT_JSON")
		}
		e, err := sheets.NewExporter(ctx, []byte(a.cfg.GoogleServiceAccountJSON), a.cfg.SheetID)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := e.EnsureHeader(ctx); err != nil {
			return nil, nil, nil, nil, err
		}
		hashes, err := e.SeenHashes(ctx)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		merge(seen, hashes)
		exporter = e
	case "postgres":
		if a.cfg.DatabaseURL == "" {
			return nil, nil, nil, nil, fmt.Errorf("postgres export requires IE_DATABASE_URL")
		}
		s, err := store.NewPostingStore(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		hashes, err := s.SeenHashes(ctx)
		if err != nil {
			s.Close()
			return nil, nil, nil, nil, err
		}
		merge(seen, hashes)
		postingStore = s
	case "none":
	default:
		return nil, nil, nil, nil, fmt.Errorf("unknown export sink %q (want sheet, postgres or none)", a.flags.export)
	}

	return seen, exporter, postingStore, seenStore, nil
}

func buildProvider(source string, cfg *config.Config) (search.Provider, error) {
	switch source {
	case "brave":
		if cfg.BraveAPIKey == "" {
			return nil, fmt.Errorf("IE_BRAVE_API_KEY must be set for the brave provider")
		}
		return search.NewBraveProvider(cfg.BraveAPIKey, nil), nil
	case "google":
		if cfg.GoogleAPIKey == "" || cfg.GoogleCSEID == "" {
			return nil, fmt.Errorf("IE_GOOGLE_API_KEY and IE_GOOGLE_CSE_ID must be set for the google provider")
		}
		return search.NewGoogleProvider(cfg.GoogleAPIKey, cfg.GoogleCSEID, nil), nil
	default:
		return nil, fmt.Errorf("unknown source %q (want brave or google)", source)
	}
}

func printSummary(postings []*model.Posting) {
	if len(postings) == 0 {
		fmt.Println("No postings matched the given filters.")
		return
	}
	fmt.Printf("\nFound %d posting(s):\n\n", len(postings))
	for i, p := range postings {
		date := "unknown"
		if p.DatePosted != nil {
			date = p.DatePosted.Format("2006-01-02")
			if p.DateConfidence != model.DateExact {
				date = "~" + date
			}
		}
		fmt.Printf("  %2d. [%s] %s — %s (%s) %s [%s]\n", i+1, p.Category, p.Title, p.Company,
			orDash(p.Location), date, p.Status)
		fmt.Printf("      %s\n", p.PostingURL)
	}
	fmt.Println()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func merge(dst, src map[string]struct{}) {
	for k := range src {
		dst[k] = struct{}{}
	}
}

func splitCSV(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}
