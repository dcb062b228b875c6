package webhook

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpTransport_Send(t *testing.T) {
	t.Parallel()

	payload := []byte(`{"event":"order.completed"}`)
	sig := "deadbeef"

	t.Run("2xx is success", func(t *testing.T) {
		t.Parallel()

		var gotSig, gotContentType, gotUserAgent string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotSig = r.Header.Get("X-Webhook-Signature")
			gotContentType = r.Header.Get("Content-Type")
			gotUserAgent = r.Header.Get("User-Agent")
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte(`{"received":true}`))
		}))
		defer srv.Close()

		outcome := NewHttpTransport(time.Second).Send(t.Context(), srv.URL, payload, sig)

		assert.True(t, outcome.Success)
		assert.Equal(t, int32(http.StatusOK), outcome.StatusCode)
		assert.Equal(t, `{"received":true}`, outcome.ResponseBody)
		assert.Empty(t, outcome.ErrText)
		assert.Greater(t, outcome.Duration, time.Duration(0))

		assert.Equal(t, "sha256="+sig, gotSig)
		assert.Equal(t, "application/json", gotContentType)
		assert.Equal(t, "hookify-webhook/1.0", gotUserAgent)
	})

	t.Run("non-2xx is failure with status code", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("try later"))
		}))
		defer srv.Close()

		outcome := NewHttpTransport(time.Second).Send(t.Context(), srv.URL, payload, sig)

		assert.False(t, outcome.Success)
		assert.Equal(t, int32(http.StatusServiceUnavailable), outcome.StatusCode)
		assert.Equal(t, "try later", outcome.ResponseBody)
		assert.NotEmpty(t, outcome.ErrText)
	})

	t.Run("response body truncated", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(strings.Repeat("x", 5000)))
		}))
		defer srv.Close()

		outcome := NewHttpTransport(time.Second).Send(t.Context(), srv.URL, payload, sig)

		assert.Len(t, outcome.ResponseBody, maxResponseBodyLen)
	})

	t.Run("timeout reported without status code", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			time.Sleep(300 * time.Millisecond)
		}))
		defer srv.Close()

		outcome := NewHttpTransport(50*time.Millisecond).Send(t.Context(), srv.URL, payload, sig)

		assert.False(t, outcome.Success)
		assert.Zero(t, outcome.StatusCode)
		assert.Equal(t, "timeout", outcome.ErrText)
	})

	t.Run("connection error reported without status code", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		outcome := NewHttpTransport(time.Second).Send(t.Context(), url, payload, sig)

		assert.False(t, outcome.Success)
		assert.Zero(t, outcome.StatusCode)
		assert.NotEmpty(t, outcome.ErrText)
	})

	t.Run("malformed url reported as failure", func(t *testing.T) {
		t.Parallel()

		outcome := NewHttpTransport(time.Second).Send(t.Context(), "http://\n", payload, sig)

		require.False(t, outcome.Success)
		assert.Contains(t, outcome.ErrText, "create request")
	})
}
