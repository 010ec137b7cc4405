package cli

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"dicom-deid/internal/anonymizer"
	"dicom-deid/internal/progress"
)

// progressBar renders per-file progress of a run.
type progressBar struct {
	progress *mpb.Progress
	bar      *mpb.Bar
}

// newProgressBar creates a progress bar writing to w. The total is set from
// the first callback, once discovery has finished.
func newProgressBar(w io.Writer) *progressBar {
	pb := &progressBar{
		progress: mpb.New(mpb.WithOutput(w), mpb.WithWidth(50)),
	}
	pb.bar = pb.progress.AddBar(0,
		mpb.PrependDecorators(
			decor.Name("files", decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.OnComplete(
				decor.NewPercentage("%.0f", decor.WCSyncSpaceR), "done",
			),
			decor.OnComplete(
				decor.AverageETA(decor.ET_STYLE_GO), "",
			),
		),
	)
	return pb
}

// callback returns the anonymizer progress callback driving the bar.
func (pb *progressBar) callback() anonymizer.ProgressCallback {
	return func(current, total int, filename string, state progress.FileState) {
		pb.bar.SetTotal(int64(total), false)
		pb.bar.SetCurrent(int64(current))
	}
}

// finish completes the bar and waits for the final render.
func (pb *progressBar) finish() {
	pb.bar.SetTotal(-1, true)
	pb.progress.Wait()
}
