package main

import (
	"io"

	"github.com/schollz/progressbar/v3"

	"github.com/meigma/renametar"
)

// progressBar draws input consumption on a terminal. The bar is created on
// the first event because the input size is only known once the run starts.
type progressBar struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

func newProgressBar(w io.Writer) *progressBar {
	return &progressBar{w: w}
}

// Update implements renametar.ProgressFunc.
func (p *progressBar) Update(e renametar.ProgressEvent) {
	if p.bar == nil {
		total := int64(-1)
		if e.BytesTotal > 0 {
			total = int64(e.BytesTotal)
		}
		p.bar = progressbar.NewOptions64(total,
			progressbar.OptionSetWriter(p.w),
			progressbar.OptionSetDescription("Renaming"),
			progressbar.OptionShowBytes(true),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer: "█", SaucerHead: "█", SaucerPadding: "░",
				BarStart: "[", BarEnd: "]",
			}),
		)
	}

	_ = p.bar.Set64(int64(e.BytesDone)) //nolint:errcheck // display only
	if e.Stage == renametar.StageDone {
		_ = p.bar.Finish() //nolint:errcheck // display only
	}
}

// Close clears the bar after an aborted run.
func (p *progressBar) Close() {
	if p.bar != nil && !p.bar.IsFinished() {
		_ = p.bar.Exit() //nolint:errcheck // display only
	}
}
