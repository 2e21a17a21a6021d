package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestLimiter() (*loginLimiter, *time.Time) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	l := newLoginLimiter()
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiterAllowsFreshEmail(t *testing.T) {
	l, _ := newTestLimiter()

	allowed, wait := l.Check("worker@example.com")
	assert.True(t, allowed)
	assert.Zero(t, wait)
}

func TestLimiterLinearBackoff(t *testing.T) {
	l, now := newTestLimiter()
	const email = "worker@example.com"

	// First failure: 2s backoff.
	l.Fail(email)
	allowed, wait := l.Check(email)
	assert.False(t, allowed)
	assert.Equal(t, 2*time.Second, wait)

	*now = now.Add(2 * time.Second)
	allowed, _ = l.Check(email)
	assert.True(t, allowed)

	// Second failure: 4s backoff.
	l.Fail(email)
	allowed, wait = l.Check(email)
	assert.False(t, allowed)
	assert.Equal(t, 4*time.Second, wait)

	*now = now.Add(3 * time.Second)
	allowed, wait = l.Check(email)
	assert.False(t, allowed)
	assert.Equal(t, time.Second, wait)
}

func TestLimiterHardCapAfterThreeFailures(t *testing.T) {
	l, now := newTestLimiter()
	const email = "worker@example.com"

	for i := 0; i < 3; i++ {
		l.Fail(email)
		*now = now.Add(time.Minute)
	}

	// Linear backoff has long expired, but the cap holds.
	allowed, wait := l.Check(email)
	assert.False(t, allowed)
	assert.Greater(t, wait, time.Minute)

	// Once the lockout passes the slate is wiped.
	*now = now.Add(lockoutDuration)
	allowed, _ = l.Check(email)
	assert.True(t, allowed)

	allowed, _ = l.Check(email)
	assert.True(t, allowed, "counter resets after a served lockout")
}

func TestLimiterResetOnSuccess(t *testing.T) {
	l, _ := newTestLimiter()
	const email = "worker@example.com"

	l.Fail(email)
	l.Fail(email)
	l.Reset(email)

	allowed, wait := l.Check(email)
	assert.True(t, allowed)
	assert.Zero(t, wait)
}

func TestLimiterTracksEmailsIndependently(t *testing.T) {
	l, _ := newTestLimiter()

	l.Fail("a@example.com")

	allowed, _ := l.Check("b@example.com")
	assert.True(t, allowed)
	allowed, _ = l.Check("a@example.com")
	assert.False(t, allowed)
}
