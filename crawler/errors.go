package crawler

import (
	"fmt"

	"github.com/aluiziolira/go-corpus-crawler/fetcher"
)

// SetupError reports a failure to fetch the seed listing page. Discovery
// cannot proceed without it, so this is the only per-URL failure that aborts
// the run.
type SetupError struct {
	URL     string
	Outcome fetcher.Outcome
	Err     error
}

func (e *SetupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("seed page %s unavailable (%s): %v", e.URL, e.Outcome, e.Err)
	}
	return fmt.Sprintf("seed page %s unavailable (%s)", e.URL, e.Outcome)
}

func (e *SetupError) Unwrap() error {
	return e.Err
}
