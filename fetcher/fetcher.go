// Package fetcher performs single, politeness-governed HTTP fetches with
// content-type and body-size gates.
package fetcher

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gocolly/colly/v2"

	"github.com/aluiziolira/go-corpus-crawler/config"
)

// Outcome classifies one fetch attempt. Exactly one outcome is produced per
// attempt and none of them is ever retried.
type Outcome int

const (
	// OutcomeOK means the body was fetched, size-checked, and decoded.
	OutcomeOK Outcome = iota
	// OutcomeNotHTML means the response declared a non-HTML content type.
	OutcomeNotHTML
	// OutcomeTooLarge means the body exceeded the configured byte cap.
	OutcomeTooLarge
	// OutcomeTransportError covers timeouts, connection failures, and
	// non-2xx statuses.
	OutcomeTransportError
	// OutcomeTooSmall is assigned by the downloader when a fetched body is
	// below the minimum document length.
	OutcomeTooSmall
)

// String returns the metric/log label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeNotHTML:
		return "not_html"
	case OutcomeTooLarge:
		return "too_large"
	case OutcomeTransportError:
		return "transport_error"
	case OutcomeTooSmall:
		return "too_small"
	default:
		return "unknown"
	}
}

// Result is the classified outcome of one fetch attempt. Body and
// ContentLength are only meaningful for OutcomeOK; ContentLength counts
// decoded characters, not bytes. Err carries the transport cause for
// OutcomeTransportError.
type Result struct {
	Outcome       Outcome
	Body          string
	ContentLength int
	Err           error
}

var errNoResponse = errors.New("no response received")

// Fetcher performs one governed GET per call and classifies the result.
// Calls are serialized; the crawl pipeline is a single worker and every
// network access goes through here.
type Fetcher struct {
	collector *colly.Collector
	governor  *Governor
	maxBytes  int

	mu  sync.Mutex
	cur Result
	got bool
}

// New builds a fetcher from cfg. Redirects are followed and every request
// uses the configured timeout; bodies are read through a cap one byte above
// MaxBodyBytes so an oversized stream is cut off rather than accumulated.
func New(cfg *config.Config, governor *Governor) (*Fetcher, error) {
	host, err := cfg.Host()
	if err != nil {
		return nil, err
	}

	bare := strings.TrimPrefix(host, "www.")
	collector := colly.NewCollector(
		colly.AllowedDomains(bare, "www."+bare),
		colly.UserAgent(cfg.UserAgent),
		colly.MaxBodySize(cfg.MaxBodyBytes+1),
		colly.AllowURLRevisit(),
	)

	collector.SetRequestTimeout(cfg.Timeout)
	collector.IgnoreRobotsTxt = !cfg.RespectRobotsTxt
	collector.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	f := &Fetcher{
		collector: collector,
		governor:  governor,
		maxBytes:  cfg.MaxBodyBytes,
	}
	f.configureHandlers()
	return f, nil
}

func (f *Fetcher) configureHandlers() {
	f.collector.OnResponseHeaders(func(r *colly.Response) {
		ctype := strings.ToLower(r.Headers.Get("Content-Type"))
		if !strings.Contains(ctype, "text/html") {
			f.set(Result{Outcome: OutcomeNotHTML})
			r.Request.Abort()
		}
	})

	f.collector.OnResponse(func(r *colly.Response) {
		if len(r.Body) > f.maxBytes {
			f.set(Result{Outcome: OutcomeTooLarge})
			return
		}
		body := string(r.Body)
		if !utf8.ValidString(body) {
			body = strings.ToValidUTF8(body, string(utf8.RuneError))
		}
		f.set(Result{
			Outcome:       OutcomeOK,
			Body:          body,
			ContentLength: utf8.RuneCountInString(body),
		})
	})

	f.collector.OnError(func(_ *colly.Response, err error) {
		if errors.Is(err, colly.ErrAbortedAfterHeaders) {
			// Content-type gate already classified this attempt.
			return
		}
		f.set(Result{Outcome: OutcomeTransportError, Err: err})
	})
}

// Fetch waits out one governed delay, issues one GET, and returns the
// classified result. There are no retries at any layer.
func (f *Fetcher) Fetch(url string) Result {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.governor.Wait()

	f.cur = Result{}
	f.got = false

	if err := f.collector.Visit(url); err != nil && !f.got {
		f.set(Result{Outcome: OutcomeTransportError, Err: err})
	}
	if !f.got {
		f.set(Result{Outcome: OutcomeTransportError, Err: errNoResponse})
	}
	return f.cur
}

// set records the first classification of the in-flight attempt. Later
// callbacks for the same attempt keep the earlier classification.
func (f *Fetcher) set(r Result) {
	if f.got {
		return
	}
	f.cur = r
	f.got = true
}

// WithTransport replaces the underlying HTTP transport. Tests use this to
// install a mock transport.
func (f *Fetcher) WithTransport(rt http.RoundTripper) {
	f.collector.WithTransport(rt)
}
