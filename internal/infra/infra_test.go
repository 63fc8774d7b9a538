package infra

import (
	"bytes"
	"errors"
	"net/smtp"
	"testing"
	"time"

	"farmledger/internal/config"

	"github.com/jordan-wright/email"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var errBoom = errors.New("boom")

// ── Breaker ──────────────────────────────────────────────────────────────────

func TestBreaker_TripsAndRecovers(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(2, 1, time.Minute)
	b.now = func() time.Time { return now }

	assert.ErrorIs(t, b.Do(func() error { return errBoom }), errBoom)
	assert.Equal(t, BreakerClosed, b.State())
	assert.ErrorIs(t, b.Do(func() error { return errBoom }), errBoom)
	assert.Equal(t, BreakerOpen, b.State())

	called := false
	assert.ErrorIs(t, b.Do(func() error { called = true; return nil }), ErrBreakerOpen)
	assert.False(t, called)

	now = now.Add(time.Minute)
	assert.Equal(t, BreakerHalfOpen, b.State())
	require.NoError(t, b.Do(func() error { return nil }))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestBreaker_FailedProbeReopens(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	b := NewBreaker(1, 2, time.Minute)
	b.now = func() time.Time { return now }

	_ = b.Do(func() error { return errBoom })
	now = now.Add(2 * time.Minute)
	_ = b.Do(func() error { return errBoom })
	assert.Equal(t, BreakerOpen, b.State())
	assert.Equal(t, "open", b.State().String())
}

func TestBreaker_SuccessResetsFailures(t *testing.T) {
	b := NewBreaker(2, 1, time.Minute)
	_ = b.Do(func() error { return errBoom })
	_ = b.Do(func() error { return nil })
	_ = b.Do(func() error { return errBoom })
	assert.Equal(t, BreakerClosed, b.State())
}

// ── Mailer ───────────────────────────────────────────────────────────────────

func TestMailer_NoHostDrops(t *testing.T) {
	m := NewMailer(&config.Config{})
	m.send = func(*email.Email, string, smtp.Auth) error {
		t.Fatal("send must not be called without SMTP_HOST")
		return nil
	}
	assert.NoError(t, m.Send("a@farm.test", "s", "b"))
}

func TestMailer_OpensCircuitAfterFailures(t *testing.T) {
	m := NewMailer(&config.Config{SMTPHost: "smtp.farm.test", SMTPPort: 25, MailFrom: "noreply@farm.test"})
	var calls int
	var last *email.Email
	m.send = func(e *email.Email, addr string, _ smtp.Auth) error {
		calls++
		last = e
		assert.Equal(t, "smtp.farm.test:25", addr)
		return errBoom
	}

	for i := 0; i < 5; i++ {
		assert.ErrorIs(t, m.Send("a@farm.test", "Password reset", "link"), errBoom)
	}
	assert.ErrorIs(t, m.Send("a@farm.test", "Password reset", "link"), ErrBreakerOpen)
	assert.Equal(t, 5, calls)
	assert.Equal(t, BreakerOpen, m.BreakerState())
	require.NotNil(t, last)
	assert.Equal(t, []string{"a@farm.test"}, last.To)
	assert.Equal(t, "link", string(last.Text))
}

// ── Documents ────────────────────────────────────────────────────────────────

func TestWriteHerdReport(t *testing.T) {
	w := decimal.RequireFromString("412.5")
	rows := []HerdRow{
		{Eartag: "TR-1", Company: "Acme", Room: "A1", Cost: decimal.NewFromInt(1000), FeedCost: decimal.NewFromInt(40), LatestWeight: &w},
		{Eartag: "TR-2", Company: "Acme", Room: "A2", IsSlaughtered: true},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteHerdReport(&buf, rows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(herdSheet)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, herdHeaders, got[0])
	assert.Equal(t, "TR-1", got[1][0])
	assert.Equal(t, "412.5", got[1][6])
	assert.Equal(t, "TRUE", got[2][7])
}

func TestWriteSlaughterStatementPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSlaughterStatementPDF(&buf, SlaughterStatement{
		Eartag: "TR-1", CompanyName: "Acme", Date: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Revenue: decimal.NewFromInt(2500), Profit: decimal.NewFromInt(750),
	}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF")))
}
