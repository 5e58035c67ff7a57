package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/dustin/go-humanize"
)

// UploadProgress draws an upload bar on a terminal. On anything else it
// stays quiet until Finish prints a summary line.
type UploadProgress struct {
	out      io.Writer
	bar      progress.Model
	terminal bool

	sent    int64
	total   int64
	percent int
	drawn   bool
}

// NewUploadProgress creates a progress display writing to out.
func NewUploadProgress(out io.Writer, terminal bool) *UploadProgress {
	return &UploadProgress{
		out:      out,
		bar:      progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		terminal: terminal,
		percent:  -1,
	}
}

// Update records sent of total bytes and redraws when the whole percentage
// changes.
func (p *UploadProgress) Update(sent, total int64) {
	p.sent, p.total = sent, total
	if !p.terminal || total <= 0 {
		return
	}

	pct := int(sent * 100 / total)
	if pct == p.percent {
		return
	}
	p.percent = pct
	p.drawn = true
	_, _ = fmt.Fprintf(p.out, "\r%s %s / %s", p.bar.ViewAs(float64(sent)/float64(total)),
		humanize.Bytes(uint64(sent)), humanize.Bytes(uint64(total)))
}

// Finish ends the progress display.
func (p *UploadProgress) Finish() {
	if p.drawn {
		_, _ = fmt.Fprintln(p.out)
		return
	}
	if p.total > 0 {
		_, _ = fmt.Fprintln(p.out, Muted(fmt.Sprintf("Sent %s", humanize.Bytes(uint64(p.sent)))))
	}
}
