package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"stream-alerts/internal/events"
	"stream-alerts/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ============================================================================
// Test Setup
// ============================================================================

type publishCall struct {
	topic   string
	payload string
}

type stubSink struct {
	mu    sync.Mutex
	calls []publishCall
	id    string
	err   error
}

func (s *stubSink) Publish(ctx context.Context, topic string, payload []byte) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, publishCall{topic: topic, payload: string(payload)})
	return s.id, s.err
}

func (s *stubSink) last(t *testing.T) publishCall {
	t.Helper()
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.calls)
	return s.calls[len(s.calls)-1]
}

func setupRouter(sink *stubSink) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewEventHandler(services.NewEventPublisher(sink, events.DefaultTopic, "stub", nil))

	r := gin.New()
	api := r.Group("/api")
	api.POST("/follow", h.Follow)
	api.POST("/subscribe", h.Subscribe)
	api.POST("/donation", h.Donation)
	api.POST("/raid", h.Raid)
	api.POST("/music", h.Music)
	return r
}

func do(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func postQuery(path string, params url.Values) *http.Request {
	return httptest.NewRequest(http.MethodPost, path+"?"+params.Encode(), nil)
}

func postForm(path string, params url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(params.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func postJSON(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ============================================================================
// Tests
// ============================================================================

func TestFollow(t *testing.T) {
	sink := &stubSink{id: "123-abc"}
	r := setupRouter(sink)

	w := do(r, postQuery("/api/follow", url.Values{"username": {"alice"}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uuid":"123-abc"}`, w.Body.String())
	assert.Equal(t, `{"type":"follow","username":"alice"}`, sink.last(t).payload)
}

func TestSubscribe(t *testing.T) {
	tests := []struct {
		name     string
		req      *http.Request
		expected string
	}{
		{
			name:     "all fields from query",
			req:      postQuery("/api/subscribe", url.Values{"username": {"bob"}, "isPrime": {"1"}, "isGift": {"0"}, "recipient": {""}}),
			expected: `{"type":"subscribe","username":"bob","isPrime":"1","isGift":"0","recipient":""}`,
		},
		{
			name:     "absent fields are null",
			req:      postQuery("/api/subscribe", url.Values{"username": {"bob"}}),
			expected: `{"type":"subscribe","username":"bob","isPrime":null,"isGift":null,"recipient":null}`,
		},
		{
			name:     "form body",
			req:      postForm("/api/subscribe", url.Values{"username": {"bob"}, "isPrime": {"true"}, "isGift": {"true"}, "recipient": {"carol"}}),
			expected: `{"type":"subscribe","username":"bob","isPrime":"true","isGift":"true","recipient":"carol"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &stubSink{id: "id-1"}
			w := do(setupRouter(sink), tt.req)

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, sink.last(t).payload)
		})
	}
}

func TestQueryTakesPrecedenceOverForm(t *testing.T) {
	sink := &stubSink{id: "id"}
	req := postForm("/api/donation?username=query-user", url.Values{"username": {"form-user"}, "amount": {"12.50"}})

	w := do(setupRouter(sink), req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"type":"donation","username":"query-user","amount":"12.50"}`, sink.last(t).payload)
}

func TestDonationAndRaid(t *testing.T) {
	sink := &stubSink{id: "id"}
	r := setupRouter(sink)

	do(r, postQuery("/api/donation", url.Values{"username": {"dan"}}))
	assert.Equal(t, `{"type":"donation","username":"dan","amount":null}`, sink.last(t).payload)

	do(r, postQuery("/api/raid", url.Values{"username": {"eve"}, "viewers": {"42"}}))
	assert.Equal(t, `{"type":"raid","username":"eve","viewers":"42"}`, sink.last(t).payload)
}

func TestMusic_RenamesBase64ToAlbumImg(t *testing.T) {
	sink := &stubSink{id: "123-abc"}
	body := `{"author":"Sylvain D","song":"The silence","base64":"https://img.example/f2253.jpg","noSound":false}`

	w := do(setupRouter(sink), postJSON("/api/music", body))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"uuid":"123-abc"}`, w.Body.String())
	assert.Equal(t,
		`{"type":"music","albumImg":"https://img.example/f2253.jpg","author":"Sylvain D","song":"The silence","noSound":false}`,
		sink.last(t).payload)
}

func TestMusic_AbsentKeysAreNull(t *testing.T) {
	sink := &stubSink{id: "id"}

	w := do(setupRouter(sink), postJSON("/api/music", `{"song":"Intro"}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"type":"music","albumImg":null,"author":null,"song":"Intro","noSound":null}`, sink.last(t).payload)
}

func TestMusic_ValuesPassThroughUnchanged(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{
			name:     "numeric noSound",
			body:     `{"author":"a","song":"b","base64":"c","noSound":1}`,
			expected: `{"type":"music","albumImg":"c","author":"a","song":"b","noSound":1}`,
		},
		{
			name:     "string noSound",
			body:     `{"author":"a","song":"b","base64":"c","noSound":"true"}`,
			expected: `{"type":"music","albumImg":"c","author":"a","song":"b","noSound":"true"}`,
		},
		{
			name:     "numeric author",
			body:     `{"author":42,"song":"b","base64":"c","noSound":false}`,
			expected: `{"type":"music","albumImg":"c","author":42,"song":"b","noSound":false}`,
		},
		{
			name:     "nested values and explicit null",
			body:     `{"author":{"name":"a"},"song":["b"],"base64":null,"noSound":true}`,
			expected: `{"type":"music","albumImg":null,"author":{"name":"a"},"song":["b"],"noSound":true}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &stubSink{id: "id"}
			w := do(setupRouter(sink), postJSON("/api/music", tt.body))

			assert.Equal(t, http.StatusOK, w.Code)
			assert.Equal(t, tt.expected, sink.last(t).payload)
		})
	}
}

func TestMusic_MalformedBody(t *testing.T) {
	bodies := map[string]string{
		"truncated":     `{"author":"x"`,
		"not json":      `author=x`,
		"not an object": `["a","b"]`,
		"trailing data": `{"author":"a","song":"b","base64":"c","noSound":false} trailing-garbage`,
		"two objects":   `{"author":"a"}{"song":"b"}`,
		"empty":         ``,
	}

	for name, body := range bodies {
		t.Run(name, func(t *testing.T) {
			sink := &stubSink{id: "id"}
			w := do(setupRouter(sink), postJSON("/api/music", body))

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
			assert.Empty(t, sink.calls)
		})
	}
}

func TestEveryEndpointReturnsSinkIDOnSameTopic(t *testing.T) {
	sink := &stubSink{id: "123-abc"}
	r := setupRouter(sink)

	reqs := []*http.Request{
		postQuery("/api/follow", url.Values{"username": {"a"}}),
		postQuery("/api/subscribe", url.Values{"username": {"a"}}),
		postQuery("/api/donation", url.Values{"username": {"a"}, "amount": {"1"}}),
		postQuery("/api/raid", url.Values{"username": {"a"}, "viewers": {"1"}}),
		postJSON("/api/music", `{"author":"a","song":"b","base64":"c","noSound":true}`),
	}

	for _, req := range reqs {
		w := do(r, req)
		assert.Equal(t, http.StatusOK, w.Code, req.URL.Path)
		assert.Equal(t, `{"uuid":"123-abc"}`, w.Body.String(), req.URL.Path)
	}

	require.Len(t, sink.calls, len(reqs))
	for _, call := range sink.calls {
		assert.Equal(t, events.DefaultTopic, call.topic)
	}
}

func TestSinkFailure(t *testing.T) {
	sink := &stubSink{err: errors.New("hub unreachable")}

	w := do(setupRouter(sink), postQuery("/api/follow", url.Values{"username": {"alice"}}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"success":false,"error":"failed to publish event","code":"PUBLISH_FAILED"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "hub unreachable")
}

func TestOnlyPostIsRouted(t *testing.T) {
	sink := &stubSink{id: "id"}

	w := do(setupRouter(sink), httptest.NewRequest(http.MethodGet, "/api/follow?username=a", nil))

	assert.NotEqual(t, http.StatusOK, w.Code)
	assert.Empty(t, sink.calls)
}
