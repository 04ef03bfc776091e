// Package progress renders a batch progress bar on the terminal.
package progress

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/Shawn-29/Cloudinary-Image-Uploader/internal/events"
)

// Bar tracks settled files out of the batch total.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar creates a bar for total files, rendered to w.
func NewBar(total int, w io.Writer) *Bar {
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("uploading"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Bar{bar: bar}
}

// Observer returns an observer that advances the bar whenever a file
// settles, whatever the outcome.
func (b *Bar) Observer() events.Observer {
	return func(events.Event) {
		_ = b.bar.Add(1)
	}
}

// Finish completes and clears the bar.
func (b *Bar) Finish() {
	_ = b.bar.Finish()
}
