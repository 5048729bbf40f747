package progress

import "github.com/pterm/pterm"

// Tracker reports how far a job is through its item list.
type Tracker interface {
	Start(title string, total int)
	Increment()
	Stop()
}

type Nop struct{}

func (Nop) Start(string, int) {}
func (Nop) Increment()        {}
func (Nop) Stop()             {}

// Bar draws a terminal progress bar.
type Bar struct {
	bar *pterm.ProgressbarPrinter
}

func NewBar() *Bar { return &Bar{} }

func (b *Bar) Start(title string, total int) {
	if total <= 0 {
		return
	}
	bar, err := pterm.DefaultProgressbar.WithTotal(total).WithTitle(title).Start()
	if err != nil {
		return
	}
	b.bar = bar
}

func (b *Bar) Increment() {
	if b.bar != nil {
		b.bar.Increment()
	}
}

func (b *Bar) Stop() {
	if b.bar == nil {
		return
	}
	_, _ = b.bar.Stop()
	b.bar = nil
}
