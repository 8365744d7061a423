package views

import (
	"fmt"
	"sync"
)

// Level classifies a notice.
type Level int

const (
	LevelSuccess Level = iota
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelError:
		return "error"
	}
	return fmt.Sprintf("Level(%d)", int(l))
}

// Notice is a short user-facing message. How it is displayed is up to the
// presentation layer.
type Notice struct {
	Level   Level
	Title   string
	Message string
}

// Notifier receives notices from the views.
type Notifier interface {
	Notify(Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

type discardNotifier struct{}

func (discardNotifier) Notify(Notice) {}

// Inbox is a Notifier that queues notices until drained.
type Inbox struct {
	mu      sync.Mutex
	notices []Notice
}

func (b *Inbox) Notify(n Notice) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.notices = append(b.notices, n)
}

// Drain returns the queued notices and empties the inbox.
func (b *Inbox) Drain() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := b.notices
	b.notices = nil
	return out
}

// Len reports how many notices are queued.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.notices)
}

func errorNotice(title, msg string) Notice {
	return Notice{Level: LevelError, Title: title, Message: msg}
}

func successNotice(title, msg string) Notice {
	return Notice{Level: LevelSuccess, Title: title, Message: msg}
}
