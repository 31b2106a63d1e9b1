// Package models defines data structures for the corpus crawler.
package models

import "time"

// CorpusEntry maps a 1-based document sequence number to the URL it was
// downloaded from. Entries are created at persistence time and never change.
type CorpusEntry struct {
	Seq int    `json:"seq"`
	URL string `json:"url"`
}

// CrawlResult holds the overall outcome of one crawl run.
type CrawlResult struct {
	AuthorsFound     int
	AuthorsProcessed int
	URLsCollected    int
	Saved            int
	Required         int
	SkipsByReason    map[string]int
	StartTime        time.Time
	EndTime          time.Time
}

// Shortfall reports how many documents short of the quota the run ended, or
// zero when the quota was met.
func (r *CrawlResult) Shortfall() int {
	if r.Saved >= r.Required {
		return 0
	}
	return r.Required - r.Saved
}
