package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/schollz/progressbar/v3"
)

// PageProgress shows a progress bar while report pages render.
type PageProgress struct {
	writer io.Writer
	bar    *progressbar.ProgressBar
}

// NewPageProgress creates a progress display on writer. The bar is created on the first
// update, once the page count is known.
func NewPageProgress(writer io.Writer) *PageProgress {
	return &PageProgress{writer: writer}
}

func (p *PageProgress) init(total int) {
	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Rendering pages...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			if _, err := fmt.Fprintln(p.writer); err != nil {
				slog.Warn("Failed to write newline after progress bar", "error", err)
			}
		}),
	)
}

// Update records that done of total pages are rendered. Its signature matches report.PageHook.
func (p *PageProgress) Update(done, total int) {
	if p.bar == nil {
		p.init(total)
	}
	if err := p.bar.Set(done); err != nil {
		slog.Warn("Failed to update progress bar", "error", err)
	}
}
