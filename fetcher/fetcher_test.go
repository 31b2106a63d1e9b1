package fetcher

import (
	"net/http"
	"strings"
	"testing"

	"github.com/jarcoal/httpmock"

	"github.com/aluiziolira/go-corpus-crawler/config"
)

func newTestFetcher(t *testing.T, maxBytes int) (*Fetcher, *httpmock.MockTransport) {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.BaseURL = "http://example.test"
	cfg.MaxBodyBytes = maxBytes

	governor := NewGovernor(0, 0)
	f, err := New(cfg, governor)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}

	transport := httpmock.NewMockTransport()
	f.WithTransport(transport)
	return f, transport
}

func htmlResponder(body string) httpmock.Responder {
	resp := httpmock.NewStringResponse(http.StatusOK, body)
	resp.Header.Set("Content-Type", "text/html; charset=utf-8")
	return httpmock.ResponderFromResponse(resp)
}

func TestFetchOK(t *testing.T) {
	f, transport := newTestFetcher(t, 1024)
	body := "<html><body>" + strings.Repeat("a", 100) + "</body></html>"
	transport.RegisterResponder("GET", "http://example.test/page.html", htmlResponder(body))

	res := f.Fetch("http://example.test/page.html")
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome = %s, want ok (err: %v)", res.Outcome, res.Err)
	}
	if res.Body != body {
		t.Fatalf("body not returned verbatim")
	}
	if res.ContentLength != len(body) {
		t.Fatalf("content length = %d, want %d", res.ContentLength, len(body))
	}
}

func TestFetchContentLengthCountsRunes(t *testing.T) {
	f, transport := newTestFetcher(t, 100_000)
	body := strings.Repeat("я", 500)
	transport.RegisterResponder("GET", "http://example.test/ru.html", htmlResponder(body))

	res := f.Fetch("http://example.test/ru.html")
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome = %s, want ok", res.Outcome)
	}
	if res.ContentLength != 500 {
		t.Fatalf("content length = %d, want 500 decoded characters", res.ContentLength)
	}
}

func TestFetchNotHTML(t *testing.T) {
	f, transport := newTestFetcher(t, 1024)
	resp := httpmock.NewStringResponse(http.StatusOK, "%PDF-1.4 ...")
	resp.Header.Set("Content-Type", "application/pdf")
	transport.RegisterResponder("GET", "http://example.test/doc.pdf", httpmock.ResponderFromResponse(resp))

	res := f.Fetch("http://example.test/doc.pdf")
	if res.Outcome != OutcomeNotHTML {
		t.Fatalf("outcome = %s, want not_html", res.Outcome)
	}
	if res.Body != "" {
		t.Fatalf("non-html fetch must not return a body")
	}
}

func TestFetchSizeCap(t *testing.T) {
	const maxBytes = 64

	tests := []struct {
		name string
		size int
		want Outcome
	}{
		{name: "at cap", size: maxBytes, want: OutcomeOK},
		{name: "one byte over", size: maxBytes + 1, want: OutcomeTooLarge},
		{name: "far over", size: maxBytes * 100, want: OutcomeTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, transport := newTestFetcher(t, maxBytes)
			transport.RegisterResponder("GET", "http://example.test/big.html",
				htmlResponder(strings.Repeat("x", tt.size)))

			res := f.Fetch("http://example.test/big.html")
			if res.Outcome != tt.want {
				t.Fatalf("outcome = %s, want %s", res.Outcome, tt.want)
			}
			if tt.want == OutcomeTooLarge && res.Body != "" {
				t.Fatalf("oversized fetch must not return a partial body")
			}
		})
	}
}

func TestFetchTransportError(t *testing.T) {
	f, transport := newTestFetcher(t, 1024)
	transport.RegisterResponder("GET", "http://example.test/missing.html",
		httpmock.NewStringResponder(http.StatusNotFound, "not found"))

	res := f.Fetch("http://example.test/missing.html")
	if res.Outcome != OutcomeTransportError {
		t.Fatalf("outcome = %s, want transport_error", res.Outcome)
	}
	if res.Err == nil {
		t.Fatalf("transport error should carry a cause")
	}
}

func TestFetchConnectionError(t *testing.T) {
	f, transport := newTestFetcher(t, 1024)
	transport.RegisterResponder("GET", "http://example.test/down.html",
		httpmock.NewErrorResponder(http.ErrHandlerTimeout))

	res := f.Fetch("http://example.test/down.html")
	if res.Outcome != OutcomeTransportError {
		t.Fatalf("outcome = %s, want transport_error", res.Outcome)
	}
}

func TestFetchReplacesInvalidUTF8(t *testing.T) {
	f, transport := newTestFetcher(t, 1024)
	resp := httpmock.NewBytesResponse(http.StatusOK, []byte{'o', 'k', 0xff, 0xfe, '!'})
	resp.Header.Set("Content-Type", "text/html")
	transport.RegisterResponder("GET", "http://example.test/broken.html", httpmock.ResponderFromResponse(resp))

	res := f.Fetch("http://example.test/broken.html")
	if res.Outcome != OutcomeOK {
		t.Fatalf("outcome = %s, want ok", res.Outcome)
	}
	if !strings.Contains(res.Body, "�") {
		t.Fatalf("invalid bytes should decode to replacement characters, got %q", res.Body)
	}
	if !strings.HasPrefix(res.Body, "ok") || !strings.HasSuffix(res.Body, "!") {
		t.Fatalf("valid bytes should survive the decode, got %q", res.Body)
	}
}

func TestOutcomeLabels(t *testing.T) {
	tests := []struct {
		outcome Outcome
		want    string
	}{
		{outcome: OutcomeOK, want: "ok"},
		{outcome: OutcomeNotHTML, want: "not_html"},
		{outcome: OutcomeTooLarge, want: "too_large"},
		{outcome: OutcomeTransportError, want: "transport_error"},
		{outcome: OutcomeTooSmall, want: "too_small"},
	}
	for _, tt := range tests {
		if got := tt.outcome.String(); got != tt.want {
			t.Errorf("Outcome(%d).String() = %q, want %q", tt.outcome, got, tt.want)
		}
	}
}
