package worker_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"farmledger/internal/dto"
	"farmledger/internal/service"
	"farmledger/internal/worker"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sent struct{ to, subject, body string }

type stubSender struct {
	sent []sent
	err  error
}

func (s *stubSender) Send(to, subject, body string) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, sent{to, subject, body})
	return nil
}

func payload(t *testing.T, p worker.EmailJobPayload) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	return raw
}

func TestEmailWorker_Sends(t *testing.T) {
	s := &stubSender{}
	w := worker.NewEmailWorker(s)

	err := w.Process(context.Background(), payload(t, worker.EmailJobPayload{
		ToEmail: "owner@farm.test", Subject: "Password reset", Body: "link",
	}))
	require.NoError(t, err)
	require.Len(t, s.sent, 1)
	assert.Equal(t, "owner@farm.test", s.sent[0].to)
	assert.Equal(t, "Password reset", s.sent[0].subject)
}

func TestEmailWorker_AcceptsServiceMessage(t *testing.T) {
	s := &stubSender{}
	raw, err := json.Marshal(service.EmailMessage{ToEmail: "a@farm.test", Subject: "s", Body: "b"})
	require.NoError(t, err)

	require.NoError(t, worker.NewEmailWorker(s).Process(context.Background(), raw))
	require.Len(t, s.sent, 1)
	assert.Equal(t, "a@farm.test", s.sent[0].to)
}

func TestEmailWorker_PermanentFailures(t *testing.T) {
	w := worker.NewEmailWorker(&stubSender{})

	err := w.Process(context.Background(), json.RawMessage(`{not json`))
	assert.ErrorIs(t, err, worker.ErrPermanent)

	err = w.Process(context.Background(), payload(t, worker.EmailJobPayload{Subject: "no recipient"}))
	assert.ErrorIs(t, err, worker.ErrPermanent)
}

func TestEmailWorker_SendErrorIsRetryable(t *testing.T) {
	w := worker.NewEmailWorker(&stubSender{err: errors.New("smtp: 421 try later")})

	err := w.Process(context.Background(), payload(t, worker.EmailJobPayload{ToEmail: "x@farm.test"}))
	require.Error(t, err)
	assert.NotErrorIs(t, err, worker.ErrPermanent)
}

// ── Scheduler ────────────────────────────────────────────────────────────────

type countingFeed struct {
	service.FeedCostService
	runs chan string
}

func (f *countingFeed) Run(_ context.Context, trigger string) (*dto.FeedCostRunResponse, error) {
	f.runs <- trigger
	return &dto.FeedCostRunResponse{ID: uuid.NewString()}, nil
}

func TestScheduler_RejectsBadSpec(t *testing.T) {
	_, err := worker.NewScheduler("every day", &countingFeed{}, time.Minute)
	assert.Error(t, err)
}

func TestScheduler_StartStop(t *testing.T) {
	feed := &countingFeed{runs: make(chan string, 1)}
	s, err := worker.NewScheduler("0 0 * * *", feed, time.Minute)
	require.NoError(t, err)

	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	s.Stop(ctx)
	assert.Empty(t, feed.runs)
}
