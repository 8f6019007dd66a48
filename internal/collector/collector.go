package collector

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"coursespider/internal/classify"
	"coursespider/internal/config"
	"coursespider/internal/course"
	"coursespider/internal/jobs"
	"coursespider/internal/logging"
	"coursespider/internal/notify"
	"coursespider/internal/store"
)

// Collector drives collection runs end to end.
type Collector struct {
	cfg       *config.Config
	catalog   Catalog
	store     *store.Store
	registry  *jobs.Registry
	notifier  notify.Service
	assembler *Assembler
	logger    *slog.Logger
}

func New(cfg *config.Config, catalog Catalog, st *store.Store, registry *jobs.Registry, notifier notify.Service, logger *slog.Logger) *Collector {
	return &Collector{
		cfg:       cfg,
		catalog:   catalog,
		store:     st,
		registry:  registry,
		notifier:  notifier,
		assembler: NewAssembler(catalog, cfg.Collector.MinLessons, cfg.Collector.DefaultLanguage),
		logger:    logging.WithComponent(logger, "collector"),
	}
}

// RunParams describe one collection run. JobID must already exist in the
// registry.
type RunParams struct {
	JobID              string
	CoursesPerCategory int
	Categories         []string
	Language           string
	CustomKeywords     []string
}

// EstimateTotal is the upper bound on courses a run can admit, shown as
// the job's total.
func EstimateTotal(categories, customKeywords []string, perCategory int) int {
	return (len(categories) + len(customKeywords)) * perCategory
}

// Run executes a collection synchronously. The API server invokes it on a
// worker goroutine with a background context so client disconnects never
// abort a run.
func (c *Collector) Run(ctx context.Context, params RunParams) error {
	if err := c.cfg.RequireAPIKey(); err != nil {
		c.registry.Fail(params.JobID, err.Error())
		_ = c.notifier.CollectionFailed(ctx, params.JobID, err.Error())
		return err
	}

	perCategory := params.CoursesPerCategory
	if perCategory <= 0 {
		perCategory = c.cfg.Collector.CoursesPerCategory
	}

	var collected []course.Course

	if len(params.CustomKeywords) > 0 {
		c.registry.Log(params.JobID, fmt.Sprintf("Processing %d custom keywords...", len(params.CustomKeywords)))
		for _, keyword := range params.CustomKeywords {
			c.registry.Log(params.JobID, fmt.Sprintf("Searching: %q", keyword))
			collected = c.collectKeyword(ctx, params, keyword, "Custom", perCategory, perCategory, collected)
		}
	}

	for _, category := range params.Categories {
		keywords := classify.Keywords(category)
		if keywords == nil {
			continue
		}
		c.registry.Log(params.JobID, fmt.Sprintf("Collecting %s...", category))
		categoryStart := len(collected)
		for _, keyword := range keywords {
			admitted := len(collected) - categoryStart
			if admitted >= perCategory {
				break
			}
			collected = c.collectKeyword(ctx, params, keyword, category, c.cfg.Collector.SearchResultsPerKeyword, perCategory-admitted, collected)
		}
		c.logger.Info("category done",
			logging.String("category", category),
			logging.Int("collected", len(collected)-categoryStart))
	}

	if len(collected) == 0 {
		c.registry.Log(params.JobID, "No courses collected")
		c.registry.Complete(params.JobID)
		_ = c.notifier.CollectionCompleted(ctx, params.JobID, 0, 0)
		return nil
	}

	imported, skipped, err := c.stageAndImport(ctx, params.JobID, collected)
	if err != nil {
		c.registry.Fail(params.JobID, err.Error())
		_ = c.notifier.CollectionFailed(ctx, params.JobID, err.Error())
		return err
	}

	c.registry.Log(params.JobID, fmt.Sprintf("Imported %d courses (%d duplicates skipped)", imported, skipped))
	c.registry.Complete(params.JobID)
	_ = c.notifier.CollectionCompleted(ctx, params.JobID, imported, skipped)
	return nil
}

// collectKeyword searches one keyword and assembles up to budget admitted
// courses from the first maxCandidates hits. The search page size follows
// the per-keyword setting; the client caps it at the API maximum.
func (c *Collector) collectKeyword(ctx context.Context, params RunParams, keyword, category string, maxCandidates, budget int, collected []course.Course) []course.Course {
	results, err := c.catalog.SearchPlaylists(ctx, keyword, c.cfg.Collector.SearchResultsPerKeyword, params.Language)
	if err != nil {
		c.registry.Log(params.JobID, fmt.Sprintf("Search failed for %q: %s", keyword, err))
		c.logger.Warn("search failed", logging.String("keyword", keyword), logging.Error(err))
		return collected
	}
	if len(results) > maxCandidates {
		results = results[:maxCandidates]
	}

	admitted := 0
	for _, candidate := range results {
		if admitted >= budget {
			break
		}
		built, err := c.assembler.Build(ctx, candidate, category)
		if err != nil {
			c.registry.Log(params.JobID, fmt.Sprintf("Skipped %s: %s", candidate.PlaylistID, err))
			continue
		}
		collected = append(collected, *built)
		admitted++
		c.registry.SetCollected(params.JobID, len(collected))
		c.registry.Log(params.JobID, "Collected: "+truncate(built.Title, 50))
	}
	return collected
}

// stageAndImport writes the run's courses to a JSONL staging file, imports
// it with deduplication, and removes the file on success.
func (c *Collector) stageAndImport(ctx context.Context, jobID string, collected []course.Course) (int, int, error) {
	if err := os.MkdirAll(c.cfg.Paths.DataDir, 0o755); err != nil {
		return 0, 0, fmt.Errorf("ensure data dir: %w", err)
	}
	staging := filepath.Join(c.cfg.Paths.DataDir,
		fmt.Sprintf("courses_%s.jsonl", c.assembler.now().UTC().Format("2006-01-02_150405")))

	file, err := os.Create(staging)
	if err != nil {
		return 0, 0, fmt.Errorf("create staging file: %w", err)
	}
	if err := course.WriteJSONL(file, collected); err != nil {
		_ = file.Close()
		return 0, 0, err
	}
	if err := file.Close(); err != nil {
		return 0, 0, fmt.Errorf("close staging file: %w", err)
	}

	c.registry.Log(jobID, "Importing to database...")
	imported, skipped, err := c.store.ImportJSONL(ctx, staging)
	if err != nil {
		return imported, skipped, err
	}

	if err := os.Remove(staging); err != nil {
		c.registry.Log(jobID, fmt.Sprintf("Could not delete %s: %s", filepath.Base(staging), err))
	} else {
		c.registry.Log(jobID, "Cleaned up temporary files")
	}
	return imported, skipped, nil
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "..."
}
