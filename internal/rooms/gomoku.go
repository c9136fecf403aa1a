package rooms

import (
	"time"

	"github.com/boardhall/boardhall/internal/apperr"
	"github.com/boardhall/boardhall/internal/games/gomoku"
	"github.com/boardhall/boardhall/internal/identity"
	"github.com/boardhall/boardhall/internal/registry"
	"github.com/boardhall/boardhall/internal/roomcode"
	"github.com/boardhall/boardhall/internal/scheduler"
	"github.com/boardhall/boardhall/internal/stream"
)

// GomokuPlayer is one seat at a Gomoku room, spec.md §4.8.
type GomokuPlayer struct {
	UserID   string
	Username string
	JoinedAt time.Time
	Stone    gomoku.Stone
}

// GomokuRoom is a single Gomoku session.
type GomokuRoom struct {
	Base

	Board         []gomoku.Stone
	WinnerUserID  string
	Winner        gomoku.Stone
	Draw          bool
	LastMoveIndex int

	Players map[string]*GomokuPlayer
}

// IsEmpty reports whether no players remain seated.
func (r *GomokuRoom) IsEmpty() bool { return len(r.Players) == 0 }

// GomokuCreateOptions is the create-time body.
type GomokuCreateOptions struct{}

// GomokuStartOptions is the start-time body.
type GomokuStartOptions struct{}

// GomokuPlayerView is one player's entry in a GomokuSnapshot.
type GomokuPlayerView struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	JoinedAt string `json:"joinedAt"`
	Online   bool   `json:"online"`
	Stone    string `json:"stone,omitempty"`
}

// GomokuSnapshot is the public wire view of a room.
type GomokuSnapshot struct {
	Code          string             `json:"code"`
	Status        string             `json:"status"`
	HostUserID    string             `json:"hostUserId"`
	CreatedAt     string             `json:"createdAt"`
	Board         []string           `json:"board"`
	WinnerUserID  string             `json:"winnerUserId,omitempty"`
	Winner        string             `json:"winner,omitempty"`
	Draw          bool               `json:"draw"`
	LastMoveIndex *int               `json:"lastMoveIndex"`
	TurnUserID    *string            `json:"turnUserId"`
	Players       []GomokuPlayerView `json:"players"`
}

func stoneString(s gomoku.Stone) string {
	if s == gomoku.Empty {
		return ""
	}
	return string(s)
}

func (r *GomokuRoom) snapshotLocked() GomokuSnapshot {
	board := make([]string, len(r.Board))
	for i, s := range r.Board {
		board[i] = stoneString(s)
	}

	players := make([]GomokuPlayerView, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		p := r.Players[id]
		if p == nil {
			continue
		}
		players = append(players, GomokuPlayerView{
			UserID:   p.UserID,
			Username: p.Username,
			JoinedAt: p.JoinedAt.UTC().Format(time.RFC3339),
			Online:   r.Online(p.UserID),
			Stone:    stoneString(p.Stone),
		})
	}

	var lastMove *int
	if r.Status != StatusLobby && len(r.Board) > 0 {
		n := r.LastMoveIndex
		lastMove = &n
	}

	var turnUserID *string
	if id, ok := r.TurnUserID(); ok {
		turnUserID = &id
	}

	return GomokuSnapshot{
		Code:          r.Code,
		Status:        string(r.Status),
		HostUserID:    r.HostUserID,
		CreatedAt:     r.CreatedAt.UTC().Format(time.RFC3339),
		Board:         board,
		WinnerUserID:  r.WinnerUserID,
		Winner:        stoneString(r.Winner),
		Draw:          r.Draw,
		LastMoveIndex: lastMove,
		TurnUserID:    turnUserID,
		Players:       players,
	}
}

// GomokuCoordinator composes the registry and rule helpers for Gomoku.
type GomokuCoordinator struct {
	Registry *registry.Registry[*GomokuRoom]
	Now      func() time.Time
}

// NewGomokuCoordinator constructs an empty coordinator.
func NewGomokuCoordinator() *GomokuCoordinator {
	return &GomokuCoordinator{
		Registry: registry.New[*GomokuRoom](),
		Now:      time.Now,
	}
}

func (c *GomokuCoordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Create allocates a new lobby room.
func (c *GomokuCoordinator) Create(id identity.Identity, _ GomokuCreateOptions) (string, error) {
	if !id.Valid() {
		return "", apperr.New(apperr.Unauthorized)
	}

	code, err := roomcode.Allocate(c.Registry.Exists)
	if err != nil {
		return "", apperr.New(apperr.RoomCodeCollision)
	}

	room := &GomokuRoom{
		Base:    NewBase(code, c.now()),
		Players: make(map[string]*GomokuPlayer),
	}
	room.HostUserID = id.UserID

	c.Registry.Put(code, room)

	return code, nil
}

func (c *GomokuCoordinator) lookup(code string) (*GomokuRoom, error) {
	room, ok := c.Registry.Get(roomcode.Canonical(code))
	if !ok {
		return nil, apperr.New(apperr.RoomNotFound)
	}
	return room, nil
}

// blackTaken reports whether some seated player already holds Black.
func (r *GomokuRoom) blackTaken() bool {
	for _, p := range r.Players {
		if p.Stone == gomoku.Black {
			return true
		}
	}
	return false
}

// Join seats id, assigning the stone deterministically at join time
// (Black first, then White), spec.md §4.8.
func (c *GomokuCoordinator) Join(id identity.Identity, code string) (GomokuSnapshot, error) {
	if !id.Valid() {
		return GomokuSnapshot{}, apperr.New(apperr.Unauthorized)
	}

	room, err := c.lookup(code)
	if err != nil {
		return GomokuSnapshot{}, err
	}

	room.Lock()
	defer room.Unlock()
	room.Touch(c.now())

	if _, ok := room.Players[id.UserID]; ok {
		return room.snapshotLocked(), nil
	}
	if room.Status != StatusLobby {
		return GomokuSnapshot{}, apperr.New(apperr.RoomNotJoinable)
	}
	if len(room.Players) >= GomokuMaxPlayers {
		return GomokuSnapshot{}, apperr.New(apperr.RoomFull)
	}

	stone := gomoku.Black
	if room.blackTaken() {
		stone = gomoku.White
	}

	room.Players[id.UserID] = &GomokuPlayer{
		UserID:   id.UserID,
		Username: id.Username,
		JoinedAt: c.now(),
		Stone:    stone,
	}
	room.AppendPlayerOrder(id.UserID)

	snap := room.snapshotLocked()
	room.Subs.Broadcast(snap)

	return snap, nil
}

// Leave removes id, applies winner-by-forfeit if the game was playing,
// reassigns host, and prunes the room if it empties, spec.md §4.9.
func (c *GomokuCoordinator) Leave(id identity.Identity, code string) error {
	if !id.Valid() {
		return apperr.New(apperr.Unauthorized)
	}

	room, err := c.lookup(code)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	room.Touch(c.now())

	if _, ok := room.Players[id.UserID]; !ok {
		return nil
	}

	delete(room.Players, id.UserID)
	room.RemovePlayerOrder(id.UserID)
	delete(room.Connections, id.UserID)

	if room.Status == StatusPlaying {
		room.Turns.OnLeave(id.UserID)
		if len(room.Players) < GomokuMaxPlayers {
			room.Status = StatusEnded
			for _, p := range room.Players {
				room.WinnerUserID = p.UserID
				room.Winner = p.Stone
			}
		}
	}

	if room.HostUserID == id.UserID {
		room.HostUserID = NextHost(room.PlayerOrder, func(string) bool { return false })
	}

	if room.IsEmpty() {
		room.CancelTimer()
		c.Registry.Delete(room.Code)
		return nil
	}

	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

// Start resets the board and seeds turn order, requiring exactly two
// players, spec.md §4.8.
func (c *GomokuCoordinator) Start(id identity.Identity, code string, _ GomokuStartOptions) error {
	if !id.Valid() {
		return apperr.New(apperr.Unauthorized)
	}

	room, err := c.lookup(code)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	room.Touch(c.now())

	if room.HostUserID != id.UserID {
		return apperr.New(apperr.HostOnly)
	}
	if len(room.Players) != GomokuMaxPlayers {
		return apperr.New(apperr.NeedTwoPlayers)
	}

	room.Board = make([]gomoku.Stone, gomoku.Cells)
	room.WinnerUserID = ""
	room.Winner = gomoku.Empty
	room.Draw = false
	room.LastMoveIndex = -1
	room.Turns = scheduler.BuildOrder(room.PlayerOrder)
	room.Status = StatusPlaying

	// Stone assignment is re-derived from turn order at start time,
	// not inherited from join-time seating: a leave/rejoin in lobby
	// can otherwise leave the cursor-0 player holding White, spec.md
	// §4.8's "the player at cursor 0 is assigned B and plays first."
	for i, uid := range room.Turns.Order {
		stone := gomoku.White
		if i == 0 {
			stone = gomoku.Black
		}
		if p := room.Players[uid]; p != nil {
			p.Stone = stone
		}
	}

	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

// Move places the actor's stone, evaluates win/draw, and advances the
// turn, spec.md §4.8.
func (c *GomokuCoordinator) Move(id identity.Identity, code string, index int) error {
	if !id.Valid() {
		return apperr.New(apperr.Unauthorized)
	}

	room, err := c.lookup(code)
	if err != nil {
		return err
	}

	room.Lock()
	defer room.Unlock()
	room.Touch(c.now())

	player, ok := room.Players[id.UserID]
	if !ok {
		return apperr.New(apperr.NotInRoom)
	}
	if room.Status != StatusPlaying {
		return apperr.New(apperr.NotPlaying)
	}
	if player.Stone == gomoku.Empty {
		return apperr.New(apperr.PlayerNotReady)
	}
	if turn, ok := room.TurnUserID(); !ok || turn != id.UserID {
		return apperr.New(apperr.NotYourTurn)
	}
	if index < 0 || index >= gomoku.Cells {
		return apperr.New(apperr.InvalidIndex)
	}
	if room.Board[index] != gomoku.Empty {
		return apperr.New(apperr.Occupied)
	}

	room.Board[index] = player.Stone
	room.LastMoveIndex = index

	if gomoku.HasFiveInARow(room.Board, index, player.Stone) {
		room.Status = StatusEnded
		room.WinnerUserID = player.UserID
		room.Winner = player.Stone
	} else if gomoku.BoardFull(room.Board) {
		room.Status = StatusEnded
		room.Draw = true
	} else {
		room.Turns.Advance()
	}

	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

// CheckMembership implements rooms.Streamer.
func (c *GomokuCoordinator) CheckMembership(id identity.Identity, code string) error {
	if !id.Valid() {
		return apperr.New(apperr.Unauthorized)
	}
	room, err := c.lookup(code)
	if err != nil {
		return err
	}
	room.Lock()
	defer room.Unlock()
	if _, ok := room.Players[id.UserID]; !ok {
		return apperr.New(apperr.NotInRoom)
	}
	return nil
}

// Subscribe implements rooms.Streamer.
func (c *GomokuCoordinator) Subscribe(id identity.Identity, code string, sink stream.Sink) (*stream.Subscriber, error) {
	if !id.Valid() {
		return nil, apperr.New(apperr.Unauthorized)
	}

	room, err := c.lookup(code)
	if err != nil {
		return nil, err
	}

	room.Lock()
	defer room.Unlock()
	room.Touch(c.now())

	if _, ok := room.Players[id.UserID]; !ok {
		return nil, apperr.New(apperr.NotInRoom)
	}

	sub := &stream.Subscriber{UserID: id.UserID, Sink: sink}
	room.Subs.Add(sub)
	room.IncConn(id.UserID)

	snap := room.snapshotLocked()
	_ = sink.Write(stream.EventName, mustJSON(snap))

	room.Subs.Broadcast(snap)

	return sub, nil
}

// Unsubscribe implements rooms.Streamer.
func (c *GomokuCoordinator) Unsubscribe(code string, sub *stream.Subscriber) {
	room, err := c.lookup(code)
	if err != nil {
		return
	}

	room.Lock()
	defer room.Unlock()

	room.Subs.Remove(sub)
	room.DecConn(sub.UserID)

	if room.IsEmpty() {
		room.CancelTimer()
		c.Registry.Delete(room.Code)
		return
	}

	if !room.Online(sub.UserID) {
		room.Subs.Broadcast(room.snapshotLocked())
	}
}
