// Package feed collects newsletter candidates from the configured RSS
// sources.
package feed

import (
	"sprachbrief/internal/logger"
	"sprachbrief/internal/metrics"

	"github.com/mmcdole/gofeed"
)

// Source is one RSS feed with the prior score its entries start from.
type Source struct {
	Name      string
	URL       string
	BaseScore int
}

// Candidate is one raw feed entry before scoring. Published keeps the feed's
// free-form date string; it is carried for reporting only and never parsed.
type Candidate struct {
	Title       string
	URL         string
	Description string
	Source      string
	BaseScore   int
	Published   string
}

// Collector fetches candidates from an ordered source list.
type Collector struct {
	sources []Source
	parser  *gofeed.Parser
}

func NewCollector(sources []Source) *Collector {
	return &Collector{
		sources: sources,
		parser:  gofeed.NewParser(),
	}
}

// FetchAll downloads and parses every source in order. A failing source is
// logged and skipped; it never aborts the run. Entry order is preserved
// within a source, source order across sources.
func (c *Collector) FetchAll() []Candidate {
	var candidates []Candidate

	for _, src := range c.sources {
		parsed, err := c.parser.ParseURL(src.URL)
		if err != nil {
			logger.Warn("source unavailable", "source", src.Name, "error", err)
			metrics.Global.IncrementSourcesFailed()
			continue
		}

		for _, item := range parsed.Items {
			candidates = append(candidates, Candidate{
				Title:       item.Title,
				URL:         item.Link,
				Description: item.Description,
				Source:      src.Name,
				BaseScore:   src.BaseScore,
				Published:   item.Published,
			})
		}
		logger.Info("source fetched", "source", src.Name, "entries", len(parsed.Items))
	}

	metrics.Global.AddCandidatesCollected(len(candidates))
	return candidates
}
