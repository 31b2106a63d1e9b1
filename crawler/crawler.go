// Package crawler drives the discovery-and-bounded-download pipeline:
// seed resolution, fan-out text-page collection, and quota-driven download
// into the corpus store. The pipeline is a single sequential worker; every
// network access goes through the governed fetcher.
package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/aluiziolira/go-corpus-crawler/config"
	"github.com/aluiziolira/go-corpus-crawler/corpus"
	"github.com/aluiziolira/go-corpus-crawler/fetcher"
	"github.com/aluiziolira/go-corpus-crawler/models"
	"github.com/aluiziolira/go-corpus-crawler/parser"
)

// Fetcher is the fetch capability the pipeline depends on.
type Fetcher interface {
	Fetch(url string) fetcher.Result
}

// Crawler runs the discovery and download phases against one archive site.
type Crawler struct {
	cfg        *config.Config
	fetch      Fetcher
	classifier *parser.Classifier
	Metrics    *Metrics
}

// New builds a crawler for cfg using fetch for all network access.
func New(cfg *config.Config, fetch Fetcher) (*Crawler, error) {
	host, err := cfg.Host()
	if err != nil {
		return nil, err
	}
	classifier, err := parser.NewClassifier(host)
	if err != nil {
		return nil, err
	}
	return &Crawler{
		cfg:        cfg,
		fetch:      fetch,
		classifier: classifier,
		Metrics:    NewMetrics(),
	}, nil
}

// Collection is the output of the discovery phase.
type Collection struct {
	URLs             []string
	AuthorsFound     int
	AuthorsProcessed int
}

// ResolveAuthorPages fetches the seed listing page and returns the
// author-index URLs it links to, first-seen order, de-duplicated. A failed
// seed fetch is fatal and surfaces as *SetupError.
func (c *Crawler) ResolveAuthorPages() ([]string, error) {
	seedURL := c.cfg.SeedURL()
	res := c.fetchTimed(seedURL)
	if res.Outcome != fetcher.OutcomeOK {
		return nil, &SetupError{URL: seedURL, Outcome: res.Outcome, Err: res.Err}
	}

	links, err := parser.ExtractLinks(res.Body, seedURL)
	if err != nil {
		return nil, fmt.Errorf("extract seed links: %w", err)
	}

	seen := make(map[string]struct{})
	var authors []string
	for _, u := range links {
		if !c.classifier.IsAuthorIndex(u) {
			continue
		}
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		authors = append(authors, u)
	}
	return authors, nil
}

// CollectTextPages walks author works-list pages in seed order and gathers
// text-page URLs until limit is reached or the authors are exhausted. URLs
// are globally de-duplicated across authors; a failed author page is skipped.
// Yielding fewer than limit URLs is an accepted outcome.
func (c *Crawler) CollectTextPages(ctx context.Context, limit int) (*Collection, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("collection limit must be positive, got %d", limit)
	}

	authors, err := c.ResolveAuthorPages()
	if err != nil {
		return nil, err
	}
	slog.Info("authors found", slog.Int("count", len(authors)))

	// Capacity equals the collection cap, so the phase stops before the
	// cache could ever evict a seen URL.
	seen, err := lru.New[string, struct{}](limit)
	if err != nil {
		return nil, fmt.Errorf("create dedup set: %w", err)
	}

	col := &Collection{AuthorsFound: len(authors)}
	var collected []string

	for i, authorURL := range authors {
		if len(collected) >= limit || ctx.Err() != nil {
			break
		}

		worksURL := parser.WorksListURL(authorURL)
		res := c.fetchTimed(worksURL)
		col.AuthorsProcessed++
		c.Metrics.IncAuthors()

		if res.Outcome != fetcher.OutcomeOK {
			slog.Warn("skipping author",
				slog.String("url", worksURL),
				slog.String("outcome", res.Outcome.String()),
				slog.Any("error", res.Err),
			)
			continue
		}

		links, err := parser.ExtractLinks(res.Body, worksURL)
		if err != nil {
			slog.Warn("skipping author", slog.String("url", worksURL), slog.Any("error", err))
			continue
		}

		for _, u := range links {
			if !c.classifier.IsTextPage(u) {
				continue
			}
			if seen.Contains(u) {
				continue
			}
			seen.Add(u, struct{}{})
			collected = append(collected, u)
			c.Metrics.IncCollected()
			if len(collected) >= limit {
				break
			}
		}

		if (i+1)%10 == 0 {
			slog.Info("collection progress",
				slog.Int("authors_processed", i+1),
				slog.Int("urls_collected", len(collected)),
			)
		}
	}

	col.URLs = collected
	return col, nil
}

// Download fetches urls in order and persists qualifying bodies to store
// until quota documents are saved or the list is exhausted. Sequence numbers
// are assigned on successful persistence only, starting at 1 with no gaps.
// The returned skip counts cover every abandoned URL by reason.
func (c *Crawler) Download(ctx context.Context, store *corpus.Store, urls []string, quota int) ([]models.CorpusEntry, map[string]int, error) {
	skips := make(map[string]int)
	var entries []models.CorpusEntry
	saved := 0

	for _, u := range urls {
		if saved >= quota || ctx.Err() != nil {
			break
		}

		res := c.fetchTimed(u)
		if res.Outcome != fetcher.OutcomeOK {
			skips[res.Outcome.String()]++
			c.Metrics.IncSkipped(res.Outcome.String())
			slog.Warn("skipping url",
				slog.String("url", u),
				slog.String("outcome", res.Outcome.String()),
				slog.Any("error", res.Err),
			)
			continue
		}

		if res.ContentLength < c.cfg.MinDocChars {
			reason := fetcher.OutcomeTooSmall.String()
			skips[reason]++
			c.Metrics.IncSkipped(reason)
			slog.Warn("skipping url",
				slog.String("url", u),
				slog.String("outcome", reason),
				slog.Int("chars", res.ContentLength),
			)
			continue
		}

		seq := saved + 1
		if _, err := store.Save(seq, res.Body); err != nil {
			return entries, skips, fmt.Errorf("persist document %d: %w", seq, err)
		}
		entries = append(entries, models.CorpusEntry{Seq: seq, URL: u})
		saved++
		c.Metrics.IncSaved()
		slog.Info("saved document", slog.Int("seq", seq), slog.String("url", u))
	}

	return entries, skips, nil
}

// Run executes the full pipeline: collect text-page URLs, write the URL list,
// download up to the configured quota, write the index. A quota shortfall is
// reported in the result, not returned as an error.
func (c *Crawler) Run(ctx context.Context) (*models.CrawlResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()

	col, err := c.CollectTextPages(ctx, c.cfg.CollectLimit)
	if err != nil {
		return nil, err
	}

	if err := corpus.WriteURLList(c.cfg.URLsFile, col.URLs); err != nil {
		return nil, err
	}
	slog.Info("url list written",
		slog.String("path", c.cfg.URLsFile),
		slog.Int("count", len(col.URLs)),
	)

	store, err := corpus.NewStore(c.cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	entries, skips, err := c.Download(ctx, store, col.URLs, c.cfg.MinPages)
	if err != nil {
		return nil, err
	}

	if err := corpus.WriteIndex(c.cfg.IndexFile, entries); err != nil {
		return nil, err
	}

	result := &models.CrawlResult{
		AuthorsFound:     col.AuthorsFound,
		AuthorsProcessed: col.AuthorsProcessed,
		URLsCollected:    len(col.URLs),
		Saved:            len(entries),
		Required:         c.cfg.MinPages,
		SkipsByReason:    skips,
		StartTime:        start,
		EndTime:          time.Now(),
	}

	if short := result.Shortfall(); short > 0 {
		slog.Warn("quota shortfall",
			slog.Int("saved", result.Saved),
			slog.Int("required", result.Required),
			slog.Int("short", short),
		)
	}
	return result, nil
}

func (c *Crawler) fetchTimed(url string) fetcher.Result {
	start := time.Now()
	res := c.fetch.Fetch(url)
	c.Metrics.ObserveFetchDuration(time.Since(start))
	c.Metrics.IncFetch(res.Outcome.String())
	return res
}
