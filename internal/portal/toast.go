package portal

import "sync"

type ToastVariant string

const (
	ToastDefault     ToastVariant = "default"
	ToastDestructive ToastVariant = "destructive"
)

type Toast struct {
	Title       string
	Description string
	Variant     ToastVariant
}

type Toaster interface {
	Toast(t Toast)
}

// ToastLog keeps every toast shown, in order.
type ToastLog struct {
	mu     sync.Mutex
	toasts []Toast
}

func (l *ToastLog) Toast(t Toast) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.toasts = append(l.toasts, t)
}

func (l *ToastLog) All() []Toast {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]Toast, len(l.toasts))
	copy(out, l.toasts)
	return out
}

func (l *ToastLog) Last() (Toast, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.toasts) == 0 {
		return Toast{}, false
	}
	return l.toasts[len(l.toasts)-1], true
}
