package auth

import (
	"sync"
	"time"
)

const (
	maxLoginAttempts = 3
	backoffStep      = 2 * time.Second
	lockoutDuration  = 15 * time.Minute
)

// loginLimiter tracks failed login attempts per email. Each failure imposes
// a linear backoff (attempts x backoffStep); the third failure locks the
// account out for lockoutDuration. In-process only: this app runs as a
// single instance.
type loginLimiter struct {
	mu       sync.Mutex
	attempts map[string]*loginAttempts
	now      func() time.Time
}

type loginAttempts struct {
	count    int
	lastFail time.Time
}

func newLoginLimiter() *loginLimiter {
	return &loginLimiter{
		attempts: make(map[string]*loginAttempts),
		now:      time.Now,
	}
}

// Check reports whether a login may proceed for email, and if not, how long
// until the next attempt is allowed.
func (l *loginLimiter) Check(email string) (allowed bool, retryAfter time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.attempts[email]
	if !ok {
		return true, 0
	}

	now := l.now()
	var wait time.Duration
	if a.count >= maxLoginAttempts {
		wait = lockoutDuration
	} else {
		wait = time.Duration(a.count) * backoffStep
	}

	next := a.lastFail.Add(wait)
	if now.Before(next) {
		return false, next.Sub(now)
	}
	if a.count >= maxLoginAttempts {
		// Lockout served; start over.
		delete(l.attempts, email)
	}
	return true, 0
}

// Fail records a failed attempt.
func (l *loginLimiter) Fail(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	a, ok := l.attempts[email]
	if !ok {
		a = &loginAttempts{}
		l.attempts[email] = a
	}
	a.count++
	a.lastFail = l.now()
}

// Reset clears the counter after a successful login.
func (l *loginLimiter) Reset(email string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, email)
}
