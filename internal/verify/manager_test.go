package verify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSender struct {
	sent []string
	err  error
}

func (s *stubSender) Send(_ context.Context, code string) error {
	s.sent = append(s.sent, code)
	return s.err
}

func newTestManager(t *testing.T, sender *stubSender) (*Manager, *time.Time) {
	t.Helper()
	m := NewManager(sender, DefaultTTL, DefaultMaxAttempts)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return clock }
	m.generate = func() (string, error) { return "123456", nil }
	return m, &clock
}

func TestVerifyWithoutSession(t *testing.T) {
	m, _ := newTestManager(t, &stubSender{})
	assert.ErrorIs(t, m.Verify("123456"), ErrNoSession)
}

func TestIssueAndVerifyOnce(t *testing.T) {
	sender := &stubSender{}
	m, _ := newTestManager(t, sender)

	require.NoError(t, m.Issue(context.Background()))
	require.Equal(t, []string{"123456"}, sender.sent)

	require.NoError(t, m.Verify("123456"))

	// Single use: the same code must not verify twice.
	assert.ErrorIs(t, m.Verify("123456"), ErrNoSession)
}

func TestVerifyExpired(t *testing.T) {
	m, clock := newTestManager(t, &stubSender{})
	require.NoError(t, m.Issue(context.Background()))

	*clock = clock.Add(DefaultTTL + time.Second)
	assert.ErrorIs(t, m.Verify("123456"), ErrExpired)

	// Expiry clears the slot.
	assert.ErrorIs(t, m.Verify("123456"), ErrNoSession)
}

func TestVerifyExactlyAtExpiryStillValid(t *testing.T) {
	m, clock := newTestManager(t, &stubSender{})
	require.NoError(t, m.Issue(context.Background()))

	*clock = clock.Add(DefaultTTL)
	assert.NoError(t, m.Verify("123456"))
}

func TestVerifyMismatchCountsDown(t *testing.T) {
	m, _ := newTestManager(t, &stubSender{})
	require.NoError(t, m.Issue(context.Background()))

	for _, want := range []int{4, 3, 2, 1, 0} {
		err := m.Verify("000000")
		var mismatch *MismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, want, mismatch.Remaining)
	}

	// Budget spent: even the right code is rejected and the slot cleared.
	assert.ErrorIs(t, m.Verify("123456"), ErrExhausted)
	assert.ErrorIs(t, m.Verify("123456"), ErrNoSession)
}

func TestCorrectCodeAfterSomeMistakes(t *testing.T) {
	m, _ := newTestManager(t, &stubSender{})
	require.NoError(t, m.Issue(context.Background()))

	require.Error(t, m.Verify("111111"))
	require.Error(t, m.Verify("222222"))
	assert.NoError(t, m.Verify("123456"))
}

func TestIssueReplacesSession(t *testing.T) {
	m, _ := newTestManager(t, &stubSender{})
	require.NoError(t, m.Issue(context.Background()))
	require.Error(t, m.Verify("000000"))

	// Re-issue with a different code: old code dead, attempts reset.
	m.generate = func() (string, error) { return "654321", nil }
	require.NoError(t, m.Issue(context.Background()))

	var mismatch *MismatchError
	err := m.Verify("123456")
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, DefaultMaxAttempts-1, mismatch.Remaining, "attempts reset on re-issue")

	assert.NoError(t, m.Verify("654321"))
}

func TestDeliveryFailureKeepsSession(t *testing.T) {
	sender := &stubSender{err: errors.New("smtp down")}
	m, _ := newTestManager(t, sender)

	err := m.Issue(context.Background())
	require.Error(t, err, "delivery outcome must be reported")

	// The code is still live: a partially delivered mail may have arrived.
	assert.NoError(t, m.Verify("123456"))
}

func TestGeneratedCodeShape(t *testing.T) {
	m := NewManager(&stubSender{}, 0, 0)
	code, err := m.generate()
	require.NoError(t, err)
	require.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, r >= '0' && r <= '9', "code must be numeric, got %q", code)
	}
}
