// Package verify owns the single process-wide verification session that
// gates administrative access: a short-lived six-digit code delivered
// out-of-band, with bounded retry.
//
// The session is deliberately ephemeral: it lives in process memory only and
// is lost on restart. Codes are short-lived by design, so nothing is persisted.
package verify

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long an issued code stays valid.
	DefaultTTL = 10 * time.Minute
	// DefaultMaxAttempts is how many wrong submissions a session survives.
	DefaultMaxAttempts = 5
)

var (
	ErrNoSession = errors.New("no verification code issued or it was already used, request a new one")
	ErrExpired   = errors.New("verification code has expired, request a new one")
	ErrExhausted = errors.New("too many wrong attempts, request a new code")
)

// MismatchError reports a wrong code together with how many attempts remain
// before the session is discarded.
type MismatchError struct {
	Remaining int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("wrong verification code, %d attempts remaining", e.Remaining)
}

// Sender delivers a freshly issued code out-of-band. No retry is assumed:
// one call, one success-or-failure answer.
type Sender interface {
	Send(ctx context.Context, code string) error
}

type session struct {
	code      string
	expiresAt time.Time
	attempts  int
}

// Manager holds the single verification slot behind a mutex. Issuing always
// replaces the outstanding session; a session dies on successful
// verification, on detected expiry, or when its attempts run out.
type Manager struct {
	mu          sync.Mutex
	current     *session
	sender      Sender
	ttl         time.Duration
	maxAttempts int

	now      func() time.Time
	generate func() (string, error)
}

// NewManager builds a Manager delivering codes through sender. Non-positive
// ttl or maxAttempts fall back to the defaults.
func NewManager(sender Sender, ttl time.Duration, maxAttempts int) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &Manager{
		sender:      sender,
		ttl:         ttl,
		maxAttempts: maxAttempts,
		now:         time.Now,
		generate:    generateCode,
	}
}

// Issue creates a fresh code, replacing any outstanding session, then hands
// the code to the sender. The session stays live even when delivery fails:
// a partially delivered code must remain verifiable. The returned error is
// the delivery outcome.
func (m *Manager) Issue(ctx context.Context) error {
	code, err := m.generate()
	if err != nil {
		return fmt.Errorf("generate verification code: %w", err)
	}

	m.mu.Lock()
	m.current = &session{code: code, expiresAt: m.now().Add(m.ttl)}
	m.mu.Unlock()

	return m.sender.Send(ctx, code)
}

// Verify checks a submitted code. The check order is fixed: session
// existence, expiry, attempt budget, then equality.
func (m *Manager) Verify(submitted string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.current
	if s == nil {
		return ErrNoSession
	}
	if m.now().After(s.expiresAt) {
		m.current = nil
		return ErrExpired
	}
	if s.attempts >= m.maxAttempts {
		m.current = nil
		return ErrExhausted
	}
	if submitted == s.code {
		// Single use.
		m.current = nil
		return nil
	}
	s.attempts++
	return &MismatchError{Remaining: m.maxAttempts - s.attempts}
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
