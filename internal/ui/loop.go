package ui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// Sender delivers messages into a running program. *tea.Program implements it.
type Sender interface {
	Send(msg tea.Msg)
}

// programLoop implements dom.Loop on top of the bubbletea update loop:
// posted callbacks run inside Update. Posts made before a sender is bound
// are queued.
type programLoop struct {
	mu      sync.Mutex
	sender  Sender
	pending []func()
}

// Post must not be called from Update itself; Send would block on the
// goroutine that drains it.
func (l *programLoop) Post(fn func()) {
	l.mu.Lock()
	s := l.sender
	if s == nil {
		l.pending = append(l.pending, fn)
		l.mu.Unlock()
		return
	}
	l.mu.Unlock()
	s.Send(postedMsg{fn: fn})
}

func (l *programLoop) bind(s Sender) {
	l.mu.Lock()
	l.sender = s
	pending := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, fn := range pending {
		s.Send(postedMsg{fn: fn})
	}
}
