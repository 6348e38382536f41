// Package app wires the pipeline stages together and runs them once.
package app

import (
	"context"
	"fmt"
	"time"

	"sprachbrief/internal/config"
	"sprachbrief/internal/dispatch"
	"sprachbrief/internal/feed"
	"sprachbrief/internal/logger"
	"sprachbrief/internal/metrics"
	"sprachbrief/internal/ollama"
	"sprachbrief/internal/render"
	"sprachbrief/internal/scraper"
	"sprachbrief/internal/score"
	"sprachbrief/internal/sections"
	"sprachbrief/internal/storage"
)

// Run executes one newsletter pipeline: collect, select, extract, generate,
// render, persist, dispatch. Stages are strictly sequential and fail fast;
// the run never produces a newsletter from incomplete sections.
func Run() error {
	start := time.Now()
	defer func() {
		metrics.Global.RecordRunDuration(time.Since(start))
	}()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// Stage 1: collect candidates. Failing sources are tolerated inside the
	// collector; only the final selection decides whether the run can go on.
	sources := make([]feed.Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		sources = append(sources, feed.Source{Name: s.Name, URL: s.URL, BaseScore: s.BaseScore})
	}
	candidates := feed.NewCollector(sources).FetchAll()
	logger.Info("candidates collected", "count", len(candidates))

	// Stage 2: score and select.
	scorer := &score.Scorer{
		Positive:  cfg.Selection.PositiveKeywords,
		Negative:  cfg.Selection.NegativeKeywords,
		Breaking:  cfg.Selection.BreakingKeywords,
		Threshold: cfg.Selection.Threshold,
	}
	ranked := scorer.Rank(candidates)
	metrics.Global.AddCandidatesRejected(len(candidates) - len(ranked))
	for i, sc := range ranked {
		if i >= 5 {
			break
		}
		logger.Info("ranked candidate", "rank", i+1, "score", sc.Score, "source", sc.Source, "title", sc.Title)
	}
	winner, err := scorer.Select(candidates)
	if err != nil {
		return err
	}
	logger.Info("candidate selected", "score", winner.Score, "title", winner.Title, "url", winner.URL)

	// Stage 3: extract content.
	content, err := scraper.NewExtractor(cfg.Scraper).Extract(winner.URL)
	if err != nil {
		return fmt.Errorf("extract content: %w", err)
	}
	logger.Info("content extracted", "chars", len(content))

	// Stage 4: generate sections.
	backend := ollama.NewClient(cfg.Backend)
	set, err := sections.NewGenerator(backend).Generate(context.Background(), content)
	if err != nil {
		return err
	}

	// Stage 5: render.
	tpl, err := render.LoadTemplate(cfg.TemplatePath)
	if err != nil {
		return err
	}
	now := time.Now()
	html := render.Render(tpl, render.Input{
		Title:     winner.Title,
		Sections:  set,
		SourceURL: winner.URL,
		Date:      now,
	})
	metrics.Global.IncrementNewslettersRendered()

	// Stage 6: persist artifacts; both files share the timestamp basis.
	writer := storage.NewWriter(cfg.OutputDir)
	htmlPath, err := writer.WriteHTML(now, html)
	if err != nil {
		return err
	}
	recordPath, err := writer.WriteRecord(now, storage.Record{
		GenerationDate: now.Format("2006-01-02 15:04:05"),
		OriginalTitle:  winner.Title,
		SourceURL:      winner.URL,
		FullText:       storage.BuildFullText(winner.Title, set),
		ModelName:      backend.Model(),
		Status:         "success",
	})
	if err != nil {
		return err
	}
	logger.Info("newsletter written", "html", htmlPath, "record", recordPath)

	// Stage 7: dispatch (optional).
	if len(cfg.Mail.Recipients) == 0 {
		logger.Info("no recipients configured, skipping dispatch")
		metrics.Global.SetLastRun()
		return nil
	}
	res, err := dispatch.NewMailer(cfg.Mail).Send(htmlPath, cfg.Mail.Recipients, now)
	if err != nil {
		return fmt.Errorf("dispatch newsletter: %w", err)
	}
	logger.Info("dispatch finished", "sent", res.Sent, "failed", res.Failed)

	metrics.Global.SetLastRun()
	return nil
}
