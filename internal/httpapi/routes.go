package httpapi

import (
	"net/http"
	"time"

	"github.com/boardhall/boardhall/internal/apperr"
	"github.com/boardhall/boardhall/internal/qr"
	"github.com/boardhall/boardhall/internal/rooms"
	"github.com/julienschmidt/httprouter"
)

// Games are the four fixed game names accepted in the :game path
// segment, spec.md §2.
const (
	GameBingo  = "bingo"
	GameCroc   = "croc"
	GameMemory = "memory"
	GameGomoku = "gomoku"
)

// Router owns one Coordinator per game and wires the full operation
// surface from spec.md §6 onto an httprouter.Router. It is the JSON
// counterpart to the teacher's registerCelebrityGame (celebrity.go).
type Router struct {
	Resolver Resolver

	// HeartbeatInterval overrides stream.HeartbeatInterval when set.
	HeartbeatInterval time.Duration

	Bingo  *rooms.BingoCoordinator
	Croc   *rooms.CrocCoordinator
	Memory *rooms.MemoryCoordinator
	Gomoku *rooms.GomokuCoordinator
}

// NewRouter constructs a Router with a fresh coordinator per game.
func NewRouter(resolver Resolver) *Router {
	return &Router{
		Resolver: resolver,
		Bingo:    rooms.NewBingoCoordinator(),
		Croc:     rooms.NewCrocCoordinator(),
		Memory:   rooms.NewMemoryCoordinator(),
		Gomoku:   rooms.NewGomokuCoordinator(),
	}
}

// Register wires every spec.md §6 route under prefix onto mux.
func (rt *Router) Register(mux *httprouter.Router, prefix string) {
	mux.POST(prefix+"/create/:game", rt.handleCreate)
	mux.POST(prefix+"/:game/:code/join", rt.handleJoin)
	mux.POST(prefix+"/:game/:code/leave", rt.handleLeave)
	mux.POST(prefix+"/:game/:code/start", rt.handleStart)
	mux.POST(prefix+"/bingo/:code/draw", rt.handleBingoDraw)
	mux.POST(prefix+"/croc/:code/pick", rt.handleCrocPick)
	mux.POST(prefix+"/memory/:code/pick", rt.handleMemoryPick)
	mux.POST(prefix+"/gomoku/:code/move", rt.handleGomokuMove)
	mux.GET(prefix+"/stream/:game/:code", rt.handleStream)
	mux.GET(prefix+"/:game/:code/qr", rt.handleQR)
}

func (rt *Router) handleCreate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := rt.Resolver.Resolve(r)
	if !ok {
		writeErr(w, apperr.New(apperr.Unauthorized))
		return
	}

	switch ps.ByName("game") {
	case GameBingo:
		var opts rooms.BingoCreateOptions
		if err := decodeBody(r, &opts); err != nil {
			writeErr(w, err)
			return
		}
		code, err := rt.Bingo.Create(id, opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOK(w, map[string]any{"code": code})

	case GameCroc:
		var opts rooms.CrocCreateOptions
		if err := decodeBody(r, &opts); err != nil {
			writeErr(w, err)
			return
		}
		code, err := rt.Croc.Create(id, opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOK(w, map[string]any{"code": code})

	case GameMemory:
		var opts rooms.MemoryCreateOptions
		if err := decodeBody(r, &opts); err != nil {
			writeErr(w, err)
			return
		}
		code, err := rt.Memory.Create(id, opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOK(w, map[string]any{"code": code})

	case GameGomoku:
		var opts rooms.GomokuCreateOptions
		if err := decodeBody(r, &opts); err != nil {
			writeErr(w, err)
			return
		}
		code, err := rt.Gomoku.Create(id, opts)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOK(w, map[string]any{"code": code})

	default:
		writeErr(w, apperr.New(apperr.RoomNotFound))
	}
}

func (rt *Router) handleJoin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := rt.Resolver.Resolve(r)
	if !ok {
		writeErr(w, apperr.New(apperr.Unauthorized))
		return
	}
	code := ps.ByName("code")

	switch ps.ByName("game") {
	case GameBingo:
		snap, err := rt.Bingo.Join(id, code)
		if err != nil {
			writeErr(w, err)
			return
		}
		payload := map[string]any{"room": snap}
		for _, p := range snap.Players {
			if p.UserID == id.UserID {
				payload["board"] = p.Board
				break
			}
		}
		writeOK(w, payload)

	case GameCroc:
		snap, err := rt.Croc.Join(id, code)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOK(w, map[string]any{"room": snap})

	case GameMemory:
		snap, err := rt.Memory.Join(id, code)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOK(w, map[string]any{"room": snap})

	case GameGomoku:
		snap, err := rt.Gomoku.Join(id, code)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeOK(w, map[string]any{"room": snap})

	default:
		writeErr(w, apperr.New(apperr.RoomNotFound))
	}
}

func (rt *Router) handleLeave(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := rt.Resolver.Resolve(r)
	if !ok {
		writeErr(w, apperr.New(apperr.Unauthorized))
		return
	}
	code := ps.ByName("code")

	var err error
	switch ps.ByName("game") {
	case GameBingo:
		err = rt.Bingo.Leave(id, code)
	case GameCroc:
		err = rt.Croc.Leave(id, code)
	case GameMemory:
		err = rt.Memory.Leave(id, code)
	case GameGomoku:
		err = rt.Gomoku.Leave(id, code)
	default:
		err = apperr.New(apperr.RoomNotFound)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, nil)
}

func (rt *Router) handleStart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := rt.Resolver.Resolve(r)
	if !ok {
		writeErr(w, apperr.New(apperr.Unauthorized))
		return
	}
	code := ps.ByName("code")

	var err error
	switch ps.ByName("game") {
	case GameBingo:
		var opts rooms.BingoStartOptions
		if err = decodeBody(r, &opts); err == nil {
			err = rt.Bingo.Start(id, code, opts)
		}
	case GameCroc:
		var opts rooms.CrocStartOptions
		if err = decodeBody(r, &opts); err == nil {
			err = rt.Croc.Start(id, code, opts)
		}
	case GameMemory:
		var opts rooms.MemoryStartOptions
		if err = decodeBody(r, &opts); err == nil {
			err = rt.Memory.Start(id, code, opts)
		}
	case GameGomoku:
		var opts rooms.GomokuStartOptions
		if err = decodeBody(r, &opts); err == nil {
			err = rt.Gomoku.Start(id, code, opts)
		}
	default:
		err = apperr.New(apperr.RoomNotFound)
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, nil)
}

type numberBody struct {
	Number int `json:"number"`
}

func (rt *Router) handleBingoDraw(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := rt.Resolver.Resolve(r)
	if !ok {
		writeErr(w, apperr.New(apperr.Unauthorized))
		return
	}
	var body numberBody
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, err)
		return
	}
	if err := rt.Bingo.DrawNumber(id, ps.ByName("code"), body.Number); err != nil {
		writeErr(w, err)
		return
	}
	writeOK(w, map[string]any{"number": body.Number})
}

type toothBody struct {
	Tooth int `json:"tooth"`
}

func (rt *Router) handleCrocPick(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := rt.Resolver.Resolve(r)
	if !ok {
		writeErr(w, apperr.New(apperr.Unauthorized))
		return
	}
	var body toothBody
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, err)
		return
	}
	code := ps.ByName("code")
	if err := rt.Croc.Pick(id, code, body.Tooth); err != nil {
		writeErr(w, err)
		return
	}

	trap := false
	if room, ok := rt.Croc.Registry.Get(code); ok {
		room.Lock()
		trap = body.Tooth == room.TrapTooth
		room.Unlock()
	}
	writeOK(w, map[string]any{"trap": trap})
}

type indexBody struct {
	Index int `json:"index"`
}

func (rt *Router) handleMemoryPick(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := rt.Resolver.Resolve(r)
	if !ok {
		writeErr(w, apperr.New(apperr.Unauthorized))
		return
	}
	var body indexBody
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, err)
		return
	}
	code := ps.ByName("code")
	if err := rt.Memory.Pick(id, code, body.Index); err != nil {
		writeErr(w, err)
		return
	}

	matched, ended := false, false
	if room, ok := rt.Memory.Registry.Get(code); ok {
		room.Lock()
		ended = room.Status == rooms.StatusEnded
		for _, c := range room.Cards {
			if c.UID == body.Index {
				matched = c.Matched
				break
			}
		}
		room.Unlock()
	}
	writeOK(w, map[string]any{"matched": matched, "ended": ended})
}

func (rt *Router) handleGomokuMove(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id, ok := rt.Resolver.Resolve(r)
	if !ok {
		writeErr(w, apperr.New(apperr.Unauthorized))
		return
	}
	var body indexBody
	if err := decodeBody(r, &body); err != nil {
		writeErr(w, err)
		return
	}
	code := ps.ByName("code")
	if err := rt.Gomoku.Move(id, code, body.Index); err != nil {
		writeErr(w, err)
		return
	}

	ended, draw := false, false
	if room, ok := rt.Gomoku.Registry.Get(code); ok {
		room.Lock()
		ended = room.Status == rooms.StatusEnded
		draw = room.Draw
		room.Unlock()
	}
	writeOK(w, map[string]any{"ended": ended, "draw": draw})
}

func (rt *Router) handleStream(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var streamer rooms.Streamer
	switch ps.ByName("game") {
	case GameBingo:
		streamer = rt.Bingo
	case GameCroc:
		streamer = rt.Croc
	case GameMemory:
		streamer = rt.Memory
	case GameGomoku:
		streamer = rt.Gomoku
	default:
		writeErr(w, apperr.New(apperr.RoomNotFound))
		return
	}
	StreamHandler(rt.Resolver, streamer, rt.HeartbeatInterval)(w, r, ps)
}

func (rt *Router) handleQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	game := ps.ByName("game")
	code := ps.ByName("code")

	switch game {
	case GameBingo, GameCroc, GameMemory, GameGomoku:
	default:
		writeErr(w, apperr.New(apperr.RoomNotFound))
		return
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}
	joinURL := scheme + "://" + r.Host + "/" + game + "/" + code + "/join"

	png, err := qr.Encode(joinURL)
	if err != nil {
		writeErr(w, apperr.New(apperr.RoomNotFound))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	_, _ = w.Write(png)
}
