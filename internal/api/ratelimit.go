package api

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const minIdleTTL = time.Minute

// ClientLimiter keeps one token bucket per client address. Buckets idle long
// enough to have refilled are dropped, since a fresh bucket is identical.
type ClientLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientBucket
	r       rate.Limit
	b       int

	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	// refunded tokens, spent before the limiter's own
	credit int
}

// NewClientLimiter allows requests per `per` with the given burst. A
// non-positive requests count disables limiting.
func NewClientLimiter(requests int, per time.Duration, burst int) *ClientLimiter {
	l := &ClientLimiter{
		clients: make(map[string]*clientBucket),
		r:       rate.Inf,
		b:       burst,
		idleTTL: minIdleTTL,
		now:     time.Now,
	}
	if l.b < 1 {
		l.b = 1
	}
	if requests > 0 {
		interval := per / time.Duration(requests)
		l.r = rate.Every(interval)
		l.idleTTL = max(interval*time.Duration(l.b), minIdleTTL)
	}
	l.lastSweep = l.now()
	return l
}

// Allow takes a token for client.
func (l *ClientLimiter) Allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	c, ok := l.clients[client]
	if !ok {
		c = &clientBucket{limiter: rate.NewLimiter(l.r, l.b)}
		l.clients[client] = c
	}
	c.lastSeen = now

	if c.credit > 0 {
		c.credit--
		return true
	}
	return c.limiter.AllowN(now, 1)
}

// Refund gives back a token taken by Allow.
func (l *ClientLimiter) Refund(client string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if c, ok := l.clients[client]; ok {
		c.credit = min(c.credit+1, l.b)
	}
}

// Len is the number of tracked clients.
func (l *ClientLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func (l *ClientLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < l.idleTTL {
		return
	}
	for addr, c := range l.clients {
		if now.Sub(c.lastSeen) >= l.idleTTL {
			delete(l.clients, addr)
		}
	}
	l.lastSweep = now
}
