package cache

import (
	"context"
	"sync"
	"time"
)

// Local caches the message count in process memory when Redis is not
// configured. It holds no per-session state.
type Local struct {
	mu      sync.Mutex
	count   int64
	expires time.Time
	now     func() time.Time
}

func NewLocal() *Local {
	return &Local{now: time.Now}
}

func (l *Local) GetMessageCount(context.Context) (int64, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.now().After(l.expires) {
		return 0, false, nil
	}
	return l.count, true, nil
}

func (l *Local) SetMessageCount(_ context.Context, n int64, ttl time.Duration) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.count = n
	l.expires = l.now().Add(ttl)
	return nil
}

func (l *Local) InvalidateMessageCount(context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.expires = time.Time{}
	return nil
}
