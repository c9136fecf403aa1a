package httpapi

import (
	"net/http"
	"sync"
	"time"

	"github.com/boardhall/boardhall/internal/apperr"
	"github.com/boardhall/boardhall/internal/rooms"
	"github.com/boardhall/boardhall/internal/stream"
	"github.com/julienschmidt/httprouter"
)

// sseSink adapts an http.ResponseWriter/http.Flusher pair to
// stream.Sink. Grounded on the teacher's writePump (celebrity.go),
// generalized from a channel-fed websocket writer to a direct,
// mutex-serialized flush per frame.
type sseSink struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
}

func (s *sseSink) Write(event string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(stream.EncodeFrame(event, payload)); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

func (s *sseSink) writeHeartbeat(now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.w.Write(stream.EncodeHeartbeat(now)); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// StreamHandler builds the one generic SSE handler shared by all four
// games (spec.md §4.9's subscribe operation), parameterized only by
// which Coordinator's Subscribe/Unsubscribe pair to call. heartbeat
// overrides spec.md §4.3's default 25s cadence when non-zero.
func StreamHandler(resolver Resolver, streamer rooms.Streamer, heartbeat time.Duration) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, ok := resolver.Resolve(r)
		if !ok {
			writeErr(w, apperr.New(apperr.Unauthorized))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		code := ps.ByName("code")
		if err := streamer.CheckMembership(id, code); err != nil {
			writeErr(w, err)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		sink := &sseSink{w: w, flusher: flusher}

		sub, err := streamer.Subscribe(id, code, sink)
		if err != nil {
			return
		}
		defer streamer.Unsubscribe(code, sub)

		if heartbeat <= 0 {
			heartbeat = stream.HeartbeatInterval
		}
		ticker := time.NewTicker(heartbeat)
		defer ticker.Stop()

		for {
			select {
			case <-r.Context().Done():
				return
			case now := <-ticker.C:
				if err := sink.writeHeartbeat(now); err != nil {
					return
				}
			}
		}
	}
}
