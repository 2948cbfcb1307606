package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCredentials struct {
	token       string
	invalidated int
}

func (s *stubCredentials) BearerToken(_ context.Context) string { return s.token }

func (s *stubCredentials) Invalidate(_ context.Context) {
	s.invalidated++
	s.token = ""
}

type item struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func newTestClient(t *testing.T, handler http.HandlerFunc, creds Credentials) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(Options{BaseURL: srv.URL + "/api/", Credentials: creds, Logger: zerolog.Nop()})
}

func TestClient_DecodesEnvelopeAndAttachesHeaders(t *testing.T) {
	creds := &stubCredentials{token: "tok-123"}
	var gotAuth, gotRequestID, gotPath, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		gotPath = r.URL.Path
		gotQuery = r.URL.Query().Get("name")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"message":"ok","data":[{"id":1,"name":"Mug"}]}`))
	}, creds)

	ctx := WithRequestID(context.Background(), "req-42")
	var out []item
	err := client.Get(ctx, "/products/search", url.Values{"name": {"mug"}}, &out)

	require.NoError(t, err)
	assert.Equal(t, []item{{ID: 1, Name: "Mug"}}, out)
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "req-42", gotRequestID)
	assert.Equal(t, "/api/products/search", gotPath)
	assert.Equal(t, "mug", gotQuery)
}

func TestClient_NoTokenNoAuthorizationHeader(t *testing.T) {
	var hadAuth bool
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, hadAuth = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{"id":3,"name":"bare"}`))
	}, &stubCredentials{})

	var out item
	require.NoError(t, client.Get(context.Background(), "/products/3", nil, &out))
	assert.False(t, hadAuth)
	assert.Equal(t, item{ID: 3, Name: "bare"}, out)
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":9,"name":"created"}}`))
	}, nil)

	var out item
	err := client.Post(context.Background(), "/orders", map[string]interface{}{"notes": "hi"}, &out)

	require.NoError(t, err)
	assert.Equal(t, "hi", got["notes"])
	assert.Equal(t, int64(9), out.ID)
}

func TestClient_ErrorStatusCarriesMessage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"success":false,"message":"Stock insuficiente para el producto: Mug"}`))
	}, nil)

	err := client.Post(context.Background(), "/orders", map[string]string{}, nil)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Stock insuficiente para el producto: Mug", apiErr.Message)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
}

func TestClient_UnauthorizedInvalidatesCredentials(t *testing.T) {
	creds := &stubCredentials{token: "expired"}
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, creds)

	err := client.Get(context.Background(), "/orders/my-orders", nil, nil)

	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
	assert.Equal(t, 1, creds.invalidated)
	assert.Empty(t, creds.token)
}

func TestClient_SuccessFalseEnvelopeIsError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":false,"message":"nope"}`))
	}, nil)

	err := client.Get(context.Background(), "/x", nil, nil)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "nope", apiErr.Message)
}

func TestClient_UnreachableAndBreakerOpens(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	base := srv.URL
	srv.Close()

	client := New(Options{BaseURL: base, MaxFailures: 2, Logger: zerolog.Nop()})
	for i := 0; i < 3; i++ {
		err := client.Get(context.Background(), "/products", nil, nil)
		require.ErrorIs(t, err, ErrUnreachable)
	}
}

func TestClient_SingleRequestPerCall(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}, nil)

	err := client.Post(context.Background(), "/orders", map[string]string{}, nil)

	assert.Equal(t, http.StatusInternalServerError, StatusOf(err))
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestExtractMessage(t *testing.T) {
	assert.Equal(t, "bad", extractMessage([]byte(`{"error":"bad"}`)))
	assert.Equal(t, "plain text", extractMessage([]byte("  plain text \n")))
	assert.Equal(t, "", extractMessage([]byte("<html>oops</html>")))
	assert.Equal(t, "", extractMessage(nil))
}

func TestClient_CallerCancellationDoesNotTripBreaker(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"success":true,"data":{"id":1,"name":"Mug"}}`))
	}, nil)
	client.breaker = New(Options{MaxFailures: 1, Logger: zerolog.Nop()}).breaker

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 3; i++ {
		err := client.Get(cancelled, "/products/1", nil, nil)
		require.ErrorIs(t, err, context.Canceled)
	}

	var out item
	require.NoError(t, client.Get(context.Background(), "/products/1", nil, &out))
	assert.Equal(t, int64(1), out.ID)
}

func TestExtractMessage_TruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("á", maxMessageLen+10)

	got := extractMessage([]byte(long))

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, maxMessageLen, utf8.RuneCountInString(got))
	assert.Equal(t, "Stock insuficiente: Ñandú", truncateRunes("Stock insuficiente: Ñandú", maxMessageLen))
}
