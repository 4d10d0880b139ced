package msg

import (
	"fmt"
	"io"
	"strings"
	"time"
)

const barWidth = 40

// ProgressBar tracks bytes written through it, used while downloading
// contrib source tarballs. Total may be 0 when the server does not
// report a content length.
type ProgressBar struct {
	Total     int64
	Current   int64
	Indent    int
	Start     time.Time
	W         io.Writer
	lastPrint time.Time
	spinIndex int
}

var spinner = []rune{'|', '/', '-', '\\'}

func NewProgressBar(total int64, indent int, w io.Writer) *ProgressBar {
	return &ProgressBar{
		Total:     total,
		Indent:    indent,
		Start:     time.Now(),
		W:         w,
		lastPrint: time.Now(),
	}
}

func (pb *ProgressBar) Write(p []byte) (int, error) {
	n := len(p)
	pb.Current += int64(n)

	if time.Since(pb.lastPrint) > 40*time.Millisecond {
		pb.print(false)
		pb.lastPrint = time.Now()
	}
	return n, nil
}

func (pb *ProgressBar) print(finish bool) {
	percent := float64(pb.Current) / float64(max(pb.Total, 1))
	if finish {
		percent = 1
	}

	filled := min(int(percent*barWidth), barWidth)
	bar := strings.Repeat("█", filled) + strings.Repeat("-", barWidth-filled)

	spin := spinner[pb.spinIndex%len(spinner)]
	pb.spinIndex++
	if finish {
		spin = ' '
	}

	if pb.Total > 0 {
		fmt.Fprintf(pb.W, "\r%s%6.f%% [%s] %c",
			strings.Repeat(" ", pb.Indent),
			percent*100,
			bar,
			spin,
		)
	} else {
		fmt.Fprintf(pb.W, "\r%s%d KB %c",
			strings.Repeat(" ", pb.Indent),
			pb.Current/1024,
			spin,
		)
	}
}

func (pb *ProgressBar) Finish() {
	pb.print(true)
	fmt.Fprintln(pb.W)
}
