package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestSendGridSender_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer sg-key", r.Header.Get("Authorization"))

		var body mailSendRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Personalizations, 1)
		assert.Equal(t, "studio@example.com", body.Personalizations[0].To[0].Email)
		assert.Equal(t, "noreply@example.com", body.From.Email)
		assert.Equal(t, "New proposal", body.Subject)
		require.Len(t, body.Content, 2)
		assert.Equal(t, "text/plain", body.Content[0].Type)
		assert.Equal(t, "text/html", body.Content[1].Type)

		w.Header().Set("X-Message-Id", " msg-42 ")
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	s, err := NewSendGridSender(SendGridConfig{APIKey: "sg-key", BaseURL: srv.URL + "/", DefaultFromEmail: "noreply@example.com"})
	require.NoError(t, err)

	res := s.Send(context.Background(), Message{To: "studio@example.com", Subject: "New proposal", Text: "hi", HTML: "<p>hi</p>"})
	require.True(t, res.Success, "error: %v", res.Err)
	assert.Equal(t, "msg-42", res.MessageID)
}

func TestSendGridSender_ErrorResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"errors":[{"message":"sender not verified"}]}`))
	}))
	defer srv.Close()

	s, err := NewSendGridSender(SendGridConfig{APIKey: "k", BaseURL: srv.URL, DefaultFromEmail: "a@b.co"})
	require.NoError(t, err)

	res := s.Send(context.Background(), Message{To: "x@y.co", Subject: "s", Text: "t"})
	assert.False(t, res.Success)
	var he *HTTPError
	require.ErrorAs(t, res.Err, &he)
	assert.Equal(t, http.StatusForbidden, he.StatusCode)
	assert.Contains(t, he.Error(), "sender not verified")
}

func TestSendGridSender_RejectsIncompleteMessage(t *testing.T) {
	s, err := NewSendGridSender(SendGridConfig{APIKey: "k", DefaultFromEmail: "a@b.co"})
	require.NoError(t, err)

	assert.False(t, s.Send(context.Background(), Message{Subject: "s", Text: "t"}).Success)
	assert.False(t, s.Send(context.Background(), Message{To: "x@y.co", Text: "t"}).Success)
	assert.False(t, s.Send(context.Background(), Message{To: "x@y.co", Subject: "s"}).Success)

	_, err = NewSendGridSender(SendGridConfig{})
	assert.Error(t, err)
}

type stubSender struct {
	res   Result
	panic bool
}

func (s stubSender) Send(ctx context.Context, _ Message) Result {
	if s.panic {
		panic("boom")
	}
	return s.res
}

type countingRecorder struct {
	mu      sync.Mutex
	ok, bad int
}

func (c *countingRecorder) NotificationResult(success bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if success {
		c.ok++
	} else {
		c.bad++
	}
}

func TestDispatcher_FailureIsContained(t *testing.T) {
	rec := &countingRecorder{}
	d := NewDispatcher(stubSender{res: Result{Err: errors.New("smtp down")}}, quietLogger(), 0, rec)

	d.AfterCommit(context.Background(), Message{Subject: "x"})
	d.Wait()

	assert.Equal(t, 0, rec.ok)
	assert.Equal(t, 1, rec.bad)
}

func TestDispatcher_PanicIsContained(t *testing.T) {
	rec := &countingRecorder{}
	d := NewDispatcher(stubSender{panic: true}, quietLogger(), 0, rec)

	assert.NotPanics(t, func() {
		d.AfterCommit(context.Background(), Message{Subject: "x"})
		d.Wait()
	})
	assert.Equal(t, 1, rec.bad)
}

func TestDispatcher_DetachedFromCallerCancellation(t *testing.T) {
	var gotErr error
	done := make(chan struct{})
	sender := senderFunc(func(ctx context.Context, _ Message) Result {
		gotErr = ctx.Err()
		close(done)
		return Result{Success: true}
	})
	rec := &countingRecorder{}
	d := NewDispatcher(sender, quietLogger(), 0, rec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.AfterCommit(ctx, Message{Subject: "x"})
	d.Wait()
	<-done

	assert.NoError(t, gotErr)
	assert.Equal(t, 1, rec.ok)
}

type senderFunc func(ctx context.Context, msg Message) Result

func (f senderFunc) Send(ctx context.Context, msg Message) Result { return f(ctx, msg) }

func TestLogSender_AlwaysSucceeds(t *testing.T) {
	res := LogSender{Log: quietLogger()}.Send(context.Background(), Message{To: "a@b.co", Subject: "s"})
	assert.True(t, res.Success)
}
