package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func newTestMux() *httprouter.Router {
	mux := httprouter.New()
	NewRouter(HeaderResolver{}).Register(mux, "")
	return mux
}

func authedRequest(method, path string, body any) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	r := httptest.NewRequest(method, path, &buf)
	r.Header.Set("X-User-Id", "u-alice")
	r.Header.Set("X-Username", "Alice")
	return r
}

func TestCreateJoinFlow(t *testing.T) {
	mux := newTestMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/create/bingo", map[string]any{"size": 5}))
	if rec.Code != http.StatusOK {
		t.Fatalf("create status: %d body: %s", rec.Code, rec.Body.String())
	}
	var created struct {
		OK   bool   `json:"ok"`
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if !created.OK || created.Code == "" {
		t.Fatalf("expected ok create with code, got %+v", created)
	}

	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/bingo/"+created.Code+"/join", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("join status: %d body: %s", rec.Code, rec.Body.String())
	}
}

func TestUnauthorizedRequestIsRejected(t *testing.T) {
	mux := newTestMux()

	r := httptest.NewRequest(http.MethodPost, "/create/bingo", bytes.NewReader([]byte(`{"size":5}`)))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestBodyTooLargeIsRejected(t *testing.T) {
	mux := newTestMux()

	big := bytes.Repeat([]byte("a"), MaxBodyBytes+100)
	r := httptest.NewRequest(http.MethodPost, "/create/bingo", bytes.NewReader(big))
	r.Header.Set("X-User-Id", "u-alice")
	r.Header.Set("X-Username", "Alice")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, r)

	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d body: %s", rec.Code, rec.Body.String())
	}
}

func TestStreamUnknownRoomRejectedBeforeHeaders(t *testing.T) {
	mux := newTestMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodGet, "/stream/bingo/ZZZZZZ", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("expected JSON envelope, not an SSE stream, got Content-Type %q", ct)
	}

	var body struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if body.OK || body.Error != "room_not_found" {
		t.Fatalf("expected standard room_not_found envelope, got %+v", body)
	}
}

func TestStreamNotInRoomRejectedBeforeHeaders(t *testing.T) {
	mux := newTestMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/create/bingo", map[string]any{"size": 5}))
	var created struct {
		Code string `json:"code"`
	}
	_ = json.Unmarshal(rec.Body.Bytes(), &created)

	outsider := httptest.NewRequest(http.MethodGet, "/stream/bingo/"+created.Code, nil)
	outsider.Header.Set("X-User-Id", "u-stranger")
	outsider.Header.Set("X-Username", "Stranger")
	rec = httptest.NewRecorder()
	mux.ServeHTTP(rec, outsider)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("expected JSON envelope, not an SSE stream, got Content-Type %q", ct)
	}
}

func TestUnknownGameOnCreateIsNotFound(t *testing.T) {
	mux := newTestMux()

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, authedRequest(http.MethodPost, "/create/checkers", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
