package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/mintflow/internal/model"
)

// Clock returns the current time. It is read once per Generate call.
type Clock func() time.Time

// PageHook is called after each page is rendered with the number of pages done and the total.
type PageHook func(done, total int)

// Result describes what a run wrote.
type Result struct {
	Summary      *Summary
	DocumentPath string
	// ImagePaths lists the year images, most recent year first, then the historical image.
	ImagePaths []string
}

// Generator renders reports for a fixed configuration.
type Generator struct {
	clock  Clock
	logger *slog.Logger
	onPage PageHook
	config Config
}

// Option is a functional option for configuring a Generator.
type Option func(*Generator)

// WithClock sets the time source used for the pie period and the default document name.
func WithClock(clock Clock) Option {
	return func(g *Generator) {
		g.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithPageHook registers a progress callback.
func WithPageHook(hook PageHook) Option {
	return func(g *Generator) {
		g.onPage = hook
	}
}

// NewGenerator creates a generator for cfg.
func NewGenerator(cfg Config, opts ...Option) *Generator {
	g := &Generator{
		config: cfg.normalized(),
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate summarizes table, renders every page and writes the document and images. Either
// every output is written or none is; a failed run leaves files from an earlier run at the
// same paths as they were.
func (g *Generator) Generate(ctx context.Context, table *model.Table) (*Result, error) {
	now := g.clock()

	summary, err := Summarize(table, g.config, now)
	if err != nil {
		return nil, err
	}

	pages := make([]page, 0, len(summary.Years)+1)
	imagePaths := make([]string, 0, len(summary.Years)+1)
	for _, view := range summary.Years {
		pages = append(pages, yearPage(view))
		imagePaths = append(imagePaths, g.config.YearImagePath(view.Year))
	}
	pages = append(pages, historicalPage(summary.Historical))
	imagePaths = append(imagePaths, g.config.HistoricalImagePath())

	var out staging
	defer out.cleanup()

	doc := newDocument(YearPageSize, YearPageSize)
	for i, pg := range pages {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("report cancelled: %w", err)
		}

		if err := doc.add(pg); err != nil {
			return nil, err
		}
		img, err := renderPNG(pg)
		if err != nil {
			return nil, err
		}
		if err := out.stage(imagePaths[i], img); err != nil {
			return nil, err
		}

		g.logger.Debug("rendered page", "page", pg.name, "image", imagePaths[i])
		if g.onPage != nil {
			g.onPage(i+1, len(pages))
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("report cancelled: %w", err)
	}

	pdf, err := doc.bytes()
	if err != nil {
		return nil, err
	}
	docPath := g.config.ReportPath(now)
	if err := out.stage(docPath, pdf); err != nil {
		return nil, err
	}
	if err := out.commit(); err != nil {
		return nil, err
	}

	g.logger.Info("report written",
		"document", docPath,
		"pages", len(pages),
		"years", len(summary.Years))

	return &Result{
		Summary:      summary,
		DocumentPath: docPath,
		ImagePaths:   imagePaths,
	}, nil
}
