package webhook

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shenikar/irdesk/internal/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWorker(t *testing.T, url string) *Worker {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(&bytes.Buffer{})

	cfg := &config.Config{
		WebhookURL:        url,
		WebhookSecret:     "s3cret",
		WebhookTimeout:    time.Second,
		WebhookMaxRetries: 3,
		WebhookBaseDelay:  time.Millisecond,
	}
	w := NewWorker(nil, logger, cfg)
	w.sleep = func(context.Context, time.Duration) error { return nil }
	return w
}

func TestDeliver_SignsPayload(t *testing.T) {
	payload := []byte(`{"subject":"Outage"}`)
	var gotSig, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Webhook-Signature")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	w := newTestWorker(t, srv.URL)
	require.NoError(t, w.deliver(context.Background(), w.logger.WithField("test", true), payload))

	assert.Equal(t, string(payload), gotBody)
	assert.Equal(t, Sign(payload, "s3cret"), gotSig)
}

func TestDeliver_RetriesThenSucceeds(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	w := newTestWorker(t, srv.URL)
	require.NoError(t, w.deliver(context.Background(), w.logger.WithField("test", true), []byte(`{}`)))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestDeliver_GivesUp(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	w := newTestWorker(t, srv.URL)
	err := w.deliver(context.Background(), w.logger.WithField("test", true), []byte(`{}`))
	require.Error(t, err)
	assert.ErrorContains(t, err, "giving up after 3 attempts")
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestSign(t *testing.T) {
	assert.Equal(t, Sign([]byte("a"), "k"), Sign([]byte("a"), "k"))
	assert.NotEqual(t, Sign([]byte("a"), "k"), Sign([]byte("b"), "k"))
	assert.Len(t, Sign([]byte("a"), "k"), 64)
}
