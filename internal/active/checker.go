// Package active probes posting URLs and classifies each one as still
// accepting applications (ACTIVE), closed (INACTIVE) or inconclusive
// (UNKNOWN).
//
// The classification is deliberately conservative: bot-blocking (403),
// rate-limiting (429) and network failures are never treated as INACTIVE,
// so a career site that throttles the prober cannot make the engine drop a
// live posting.
package active

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/diegovill05/internship-discovery-engine/internal/model"
)

const (
	defaultWorkers    = 4
	defaultTimeout    = 8 * time.Second
	defaultMaxRetries = 2
	defaultBackoff    = 500 * time.Millisecond

	// maxBodyBytes bounds how much of a posting page is read for the
	// closed-signal scan.
	maxBodyBytes = 256 << 10

	userAgent = "Mozilla/5.0 (compatible; InternshipDiscoveryBot/0.1)"
)

// Config tunes the checker. MaxProbes caps the total probes per batch;
// Workers caps concurrent in-flight probes. The two are independent.
type Config struct {
	MaxProbes  int
	Workers    int
	Timeout    time.Duration
	MaxRetries int
	Backoff    time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	// Zero means "use the default"; pass a negative value to disable
	// retries entirely.
	if c.MaxRetries == 0 {
		c.MaxRetries = defaultMaxRetries
	} else if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.Backoff <= 0 {
		c.Backoff = defaultBackoff
	}
	return c
}

// Stats summarizes one CheckBatch run.
type Stats struct {
	Probed   int
	Active   int
	Inactive int
	Unknown  int
}

// Checker probes posting URLs with a bounded worker pool.
type Checker struct {
	cfg    Config
	client *http.Client
}

// NewChecker constructs a Checker. A nil client gets a default one; pass an
// httptest-backed client in tests.
func NewChecker(cfg Config, client *http.Client) *Checker {
	cfg = cfg.withDefaults()
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	return &Checker{cfg: cfg, client: client}
}

// CheckBatch probes at most cfg.MaxProbes postings, taken in input order,
// and mutates each probed posting's Status/StatusReason in
// place. Postings beyond the cap keep NOT_CHECKED. Probes run concurrently
// up to cfg.Workers in flight; completion order never reorders the batch
// because every probe mutates only its own record.
//
// CheckBatch never returns an error: every per-probe failure degrades to a
// classification state. Context cancellation resolves in-flight and
// pending capped probes as UNKNOWN/"timeout".
func (c *Checker) CheckBatch(ctx context.Context, postings []*model.Posting) Stats {
	if c.cfg.MaxProbes <= 0 || len(postings) == 0 {
		return Stats{}
	}

	capped := postings
	if len(capped) > c.cfg.MaxProbes {
		capped = capped[:c.cfg.MaxProbes]
	}

	// The slice bound already selects the probe set; the counter makes the
	// cap exact even if the selection logic ever changes under concurrency.
	var issued atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(c.cfg.Workers)
	for _, p := range capped {
		g.Go(func() error {
			if issued.Add(1) > int64(c.cfg.MaxProbes) {
				return nil
			}
			res := c.Probe(ctx, p.PostingURL)
			p.Status = res.Status
			p.StatusReason = res.Reason
			return nil
		})
	}
	_ = g.Wait()

	stats := Stats{Probed: len(capped)}
	for _, p := range capped {
		switch p.Status {
		case model.StatusActive:
			stats.Active++
		case model.StatusInactive:
			stats.Inactive++
		case model.StatusUnknown:
			stats.Unknown++
		}
	}
	log.Printf("[active] probed=%d active=%d inactive=%d unknown=%d not_checked=%d",
		stats.Probed, stats.Active, stats.Inactive, stats.Unknown, len(postings)-len(capped))
	return stats
}

// Probe issues the HTTP check for one URL, retrying transient failures
// (timeouts, connection errors, 5xx) up to cfg.MaxRetries extra attempts
// with exponential backoff. 4xx responses are never retried.
func (c *Checker) Probe(ctx context.Context, url string) model.ProbeResult {
	res := model.ProbeResult{URL: url}
	backoff := c.cfg.Backoff

	for attempt := 0; ; attempt++ {
		res.Attempts = attempt + 1

		status, reason, httpStatus, transient := c.attempt(ctx, url)
		res.Status = status
		res.Reason = reason
		res.HTTPStatus = httpStatus

		if !transient || attempt >= c.cfg.MaxRetries {
			return res
		}
		if !sleepCtx(ctx, backoff) {
			res.Status = model.StatusUnknown
			res.Reason = "timeout"
			return res
		}
		backoff *= 2
	}
}

// attempt performs a single GET and classifies the outcome. transient
// reports whether a retry could change the verdict.
func (c *Checker) attempt(parent context.Context, url string) (status model.ActiveStatus, reason string, httpStatus int, transient bool) {
	ctx, cancel := context.WithTimeout(parent, c.cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.StatusUnknown, fmt.Sprintf("unexpected:%v", err), 0, false
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := c.client.Do(req)
	if err != nil {
		// Timeouts and connection failures are inconclusive, never INACTIVE.
		return model.StatusUnknown, "timeout", 0, true
	}
	defer resp.Body.Close()

	code := resp.StatusCode
	switch {
	case code == http.StatusNotFound || code == http.StatusGone:
		return model.StatusInactive, fmt.Sprintf("http-%d", code), code, false

	case code == http.StatusUnauthorized || code == http.StatusForbidden || code == http.StatusTooManyRequests:
		return model.StatusUnknown, "blocked", code, false

	case code >= 500:
		return model.StatusUnknown, fmt.Sprintf("unexpected:http-%d", code), code, true

	case code >= 200 && code < 300:
		body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return model.StatusUnknown, "timeout", code, true
		}
		st, why := classifyBody(body)
		return st, why, code, false

	default:
		return model.StatusUnknown, fmt.Sprintf("unexpected:http-%d", code), code, false
	}
}

// classifyBody scans a 2xx page body for closed-posting signals.
func classifyBody(body []byte) (model.ActiveStatus, string) {
	lower := strings.ToLower(string(body))
	for _, sig := range closedSignals {
		if strings.Contains(lower, sig) {
			return model.StatusInactive, fmt.Sprintf("closed signal: %q", sig)
		}
	}
	for _, sig := range applySignals {
		if strings.Contains(lower, sig) {
			return model.StatusActive, "apply signal detected"
		}
	}
	return model.StatusActive, "no closed signals found"
}

// sleepCtx waits d, returning false when ctx is cancelled first.
func sleepCtx(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
