package output

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

const spinnerInterval = 100 * time.Millisecond

var spinnerChars = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Progress is a spinner shown while a stage runs
type Progress struct {
	printer *Printer
	message atomic.Value // string
	frame   atomic.Int64
	started time.Time

	stop     chan struct{}
	stopped  sync.WaitGroup
	stopOnce sync.Once
}

// StartProgress starts a spinner with message. Without color the message is
// printed once as a plain line.
func (p *Printer) StartProgress(message string) *Progress {
	pr := &Progress{
		printer: p,
		started: time.Now(),
		stop:    make(chan struct{}),
	}
	pr.message.Store(message)

	if !p.useColor {
		p.Print("%s...\n", message)
		return pr
	}

	pr.stopped.Add(1)
	go pr.spin()
	return pr
}

// UpdateMessage replaces the spinner text
func (pr *Progress) UpdateMessage(message string) {
	pr.message.Store(message)
	if !pr.printer.useColor {
		pr.printer.Print("%s...\n", message)
		return
	}
	pr.draw()
}

// Stop ends the spinner and clears its line. Calling it again is a no-op.
func (pr *Progress) Stop() {
	pr.stopOnce.Do(func() {
		close(pr.stop)
		pr.stopped.Wait()
		if pr.printer.useColor {
			pr.printer.Print("\r\033[K")
		}
	})
}

func (pr *Progress) spin() {
	defer pr.stopped.Done()

	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	pr.draw()
	for {
		select {
		case <-pr.stop:
			return
		case <-ticker.C:
			pr.frame.Add(1)
			pr.draw()
		}
	}
}

func (pr *Progress) draw() {
	frame := spinnerChars[int(pr.frame.Load())%len(spinnerChars)]
	message, _ := pr.message.Load().(string)
	pr.printer.Print("\r%s%s%s %s %s[%s]%s\033[K",
		colorBold, colorCyan, frame, message,
		colorGray, formatDuration(time.Since(pr.started)), colorReset)
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
