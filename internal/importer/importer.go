package importer

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samirrijal/polylayer/internal/core/domain"
	"github.com/samirrijal/polylayer/internal/core/usecases"
	"github.com/samirrijal/polylayer/internal/pkg/metrics"
)

// Creator stores a validated layer.
type Creator interface {
	Create(ctx context.Context, params usecases.CreateParams) (*domain.Polyline, error)
}

// Result counts the outcome of an import run.
type Result struct {
	Created  int
	Rejected int // failed validation
	Failed   int // storage or transport errors
	IDs      map[string]string
}

// Importer creates layers from shapes with bounded concurrency.
type Importer struct {
	creator     Creator
	concurrency int
}

// New returns an Importer. concurrency below 1 means 4 workers.
func New(creator Creator, concurrency int) *Importer {
	if concurrency < 1 {
		concurrency = 4
	}
	return &Importer{creator: creator, concurrency: concurrency}
}

// Run creates one layer per shape. A rejected shape does not stop the run;
// it is logged and counted. Result.IDs maps shape names to layer IDs.
func (im *Importer) Run(ctx context.Context, shapes []Shape) Result {
	res := Result{IDs: make(map[string]string, len(shapes))}

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = make(chan struct{}, im.concurrency)
	)

	for _, s := range shapes {
		if ctx.Err() != nil {
			break
		}

		wg.Add(1)
		go func(s Shape) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			p, err := im.creator.Create(ctx, usecases.CreateParams{Points: s.Points, Style: s.Style})

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				res.Created++
				res.IDs[s.Name] = p.ID
				metrics.ImportedLayers.WithLabelValues("created").Inc()
			case domain.IsValidation(err):
				res.Rejected++
				metrics.ImportedLayers.WithLabelValues("rejected").Inc()
				slog.Warn("shape rejected", "shape", s.Name, "points", len(s.Points), "error", err)
			default:
				res.Failed++
				metrics.ImportedLayers.WithLabelValues("failed").Inc()
				slog.Error("shape import failed", "shape", s.Name, "error", err)
			}
		}(s)
	}

	wg.Wait()
	return res
}
