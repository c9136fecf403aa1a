package rooms

import (
	"sort"
	"time"

	"github.com/boardhall/boardhall/internal/apperr"
	"github.com/boardhall/boardhall/internal/games/bingo"
	"github.com/boardhall/boardhall/internal/identity"
	"github.com/boardhall/boardhall/internal/randsrc"
	"github.com/boardhall/boardhall/internal/registry"
	"github.com/boardhall/boardhall/internal/roomcode"
	"github.com/boardhall/boardhall/internal/scheduler"
	"github.com/boardhall/boardhall/internal/stream"
)

// Draw reasons, spec.md §3.
const (
	DrawReasonManual  = "manual_pick"
	DrawReasonBot     = "bot_pick"
	DrawReasonTimeout = "timeout"
)

// BingoPlayer is one seat at a Bingo room, spec.md §3.
type BingoPlayer struct {
	UserID   string
	Username string
	JoinedAt time.Time
	Board    bingo.Board
	IsBot    bool
}

// BingoWinner records a player who reached the line threshold.
type BingoWinner struct {
	UserID   string
	Username string
	Lines    int
}

// BingoRoom is a single Bingo session.
type BingoRoom struct {
	Base

	Size               int
	BotEnabled         bool
	DrawTimeoutSeconds int
	CalledNumbers      map[int]bool
	LastNumber         int
	LastDrawByUserID   string
	LastDrawByUsername string
	LastDrawReason     string
	TurnEndsAt         *time.Time
	Winners            []BingoWinner

	Players map[string]*BingoPlayer
}

func (r *BingoRoom) humanCount() int {
	n := 0
	for _, p := range r.Players {
		if !p.IsBot {
			n++
		}
	}
	return n
}

// IsEmpty reports the room as collectible once no humans remain, even
// if the bot still occupies a slot, spec.md §4.5: "bot-only presence
// does not keep a Bingo room alive."
func (r *BingoRoom) IsEmpty() bool {
	return r.humanCount() == 0
}

// BingoCreateOptions is the create-time body for a Bingo room.
type BingoCreateOptions struct {
	Size       int
	BotEnabled bool
}

// BingoStartOptions is the start-time body.
type BingoStartOptions struct {
	DrawTimeoutSeconds int
}

// BingoSnapshot is the public, viewer-neutral wire view of a room,
// spec.md §4.3: Bingo has no hidden per-player information.
type BingoSnapshot struct {
	Code               string              `json:"code"`
	Status             string              `json:"status"`
	HostUserID         string              `json:"hostUserId"`
	CreatedAt          string              `json:"createdAt"`
	Size               int                 `json:"size"`
	TargetLines        int                 `json:"targetLines"`
	BotEnabled         bool                `json:"botEnabled"`
	DrawTimeoutSeconds int                 `json:"drawTimeoutSeconds"`
	CalledNumbers      []int               `json:"calledNumbers"`
	LastNumber         *int                `json:"lastNumber"`
	LastDrawByUserID   string              `json:"lastDrawByUserId,omitempty"`
	LastDrawByUsername string              `json:"lastDrawByUsername,omitempty"`
	LastDrawReason     string              `json:"lastDrawReason,omitempty"`
	TurnEndsAt         *string             `json:"turnEndsAt"`
	TurnUserID         *string             `json:"turnUserId"`
	Winners            []BingoWinner       `json:"winners"`
	Players            []BingoPlayerView   `json:"players"`
}

// BingoPlayerView is one player's entry in a BingoSnapshot.
type BingoPlayerView struct {
	UserID   string    `json:"userId"`
	Username string    `json:"username"`
	JoinedAt string    `json:"joinedAt"`
	Online   bool      `json:"online"`
	IsBot    bool      `json:"isBot"`
	Board    bingo.Board `json:"board"`
	Lines    int       `json:"lines"`
}

func (r *BingoRoom) snapshotLocked() BingoSnapshot {
	called := make([]int, 0, len(r.CalledNumbers))
	for n := range r.CalledNumbers {
		called = append(called, n)
	}
	sort.Ints(called)

	players := make([]BingoPlayerView, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		p := r.Players[id]
		if p == nil {
			continue
		}
		players = append(players, BingoPlayerView{
			UserID:   p.UserID,
			Username: p.Username,
			JoinedAt: p.JoinedAt.UTC().Format(time.RFC3339),
			Online:   r.Online(p.UserID) || p.IsBot,
			IsBot:    p.IsBot,
			Board:    p.Board,
			Lines:    p.Board.CountLines(r.CalledNumbers),
		})
	}

	var lastNumber *int
	if r.LastNumber != 0 {
		n := r.LastNumber
		lastNumber = &n
	}

	var turnEndsAt *string
	if r.TurnEndsAt != nil {
		s := r.TurnEndsAt.UTC().Format(time.RFC3339)
		turnEndsAt = &s
	}

	var turnUserID *string
	if id, ok := r.TurnUserID(); ok {
		turnUserID = &id
	}

	winners := r.Winners
	if winners == nil {
		winners = []BingoWinner{}
	}

	return BingoSnapshot{
		Code:               r.Code,
		Status:             string(r.Status),
		HostUserID:         r.HostUserID,
		CreatedAt:          r.CreatedAt.UTC().Format(time.RFC3339),
		Size:               r.Size,
		TargetLines:        bingo.TargetLines,
		BotEnabled:         r.BotEnabled,
		DrawTimeoutSeconds: r.DrawTimeoutSeconds,
		CalledNumbers:      called,
		LastNumber:         lastNumber,
		LastDrawByUserID:   r.LastDrawByUserID,
		LastDrawByUsername: r.LastDrawByUsername,
		LastDrawReason:     r.LastDrawReason,
		TurnEndsAt:         turnEndsAt,
		TurnUserID:         turnUserID,
		Winners:            winners,
		Players:            players,
	}
}

// BingoCoordinator composes the registry, scheduler, and rule helpers
// into the single sequentially-consistent surface spec.md §4.9
// describes: create/join/leave/start/move/subscribe.
type BingoCoordinator struct {
	Registry     *registry.Registry[*BingoRoom]
	BotDrawDelay time.Duration
	Now          func() time.Time
}

// NewBingoCoordinator constructs a coordinator with the spec's default
// bot-draw delay.
func NewBingoCoordinator() *BingoCoordinator {
	return &BingoCoordinator{
		Registry:     registry.New[*BingoRoom](),
		BotDrawDelay: DefaultBotDrawDelay,
		Now:          time.Now,
	}
}

func (c *BingoCoordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Create allocates a new lobby room. The caller becomes its host but
// is not yet seated as a player — that happens on the subsequent Join,
// matching the REST operation table's separate create/join calls.
func (c *BingoCoordinator) Create(id identity.Identity, opts BingoCreateOptions) (string, error) {
	if !id.Valid() {
		return "", apperr.New(apperr.Unauthorized)
	}
	if !bingo.ValidSize(opts.Size) {
		return "", apperr.New(apperr.InvalidSize)
	}

	code, err := roomcode.Allocate(c.Registry.Exists)
	if err != nil {
		return "", apperr.New(apperr.RoomCodeCollision)
	}

	room := &BingoRoom{
		Base:          NewBase(code, c.now()),
		Size:          opts.Size,
		BotEnabled:    opts.BotEnabled,
		CalledNumbers: make(map[int]bool),
		Players:       make(map[string]*BingoPlayer),
	}
	room.HostUserID = id.UserID

	c.Registry.Put(code, room)

	return code, nil
}

func (c *BingoCoordinator) lookup(code string) (*BingoRoom, error) {
	room, ok := c.Registry.Get(roomcode.Canonical(code))
	if !ok {
		return nil, apperr.New(apperr.RoomNotFound)
	}
	return room, nil
}

// syncBotLocked applies spec.md §4.5's bot presence policy. It has no
// effect once the room has left lobby.
func (c *BingoCoordinator) syncBotLocked(room *BingoRoom) {
	if room.Status != StatusLobby {
		return
	}

	humans := room.humanCount()
	_, botPresent := room.Players[identity.BotUserID]

	switch {
	case room.BotEnabled && humans <= 1 && !botPresent:
		room.Players[identity.BotUserID] = &BingoPlayer{
			UserID:   identity.BotUserID,
			Username: identity.BotUsername,
			JoinedAt: c.now(),
			Board:    bingo.GenerateBoard(room.Size),
			IsBot:    true,
		}
		room.AppendPlayerOrder(identity.BotUserID)

	case (!room.BotEnabled || humans > 1) && botPresent:
		delete(room.Players, identity.BotUserID)
		room.RemovePlayerOrder(identity.BotUserID)
	}
}

// Join seats id in the room, or refreshes presence if already seated.
func (c *BingoCoordinator) Join(id identity.Identity, code string) (BingoSnapshot, error) {
	if !id.Valid() {
		return BingoSnapshot{}, apperr.New(apperr.Unauthorized)
	}

	room, err := c.lookup(code)
	if err != nil {
		return BingoSnapshot{}, err
	}

	room.Lock()
	defer room.Unlock()
	room.Touch(c.now())

	if _, ok := room.Players[id.UserID]; ok {
		return room.snapshotLocked(), nil
	}

	if room.Status != StatusLobby {
		return BingoSnapshot{}, apperr.New(apperr.RoomNotJoinable)
	}
	if room.humanCount() >= BingoMaxHumans {
		return BingoSnapshot{}, apperr.New(apperr.RoomFull)
	}

	room.Players[id.UserID] = &BingoPlayer{
		UserID:   id.UserID,
		Username: id.Username,
		JoinedAt: c.now(),
		Board:    bingo.GenerateBoard(room.Size),
	}
	room.AppendPlayerOrder(id.UserID)

	c.syncBotLocked(room)

	snap := room.snapshotLocked()
	room.Subs.Broadcast(snap)

	return snap, nil
}

// Leave removes id from the room, reassigns host/turn order, and
// prunes the room if it becomes empty.
func (c *BingoCoordinator) Leave(id identity.Identity, code string) error {
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
		room.CancelTimer()
		empty := room.Turns.OnLeave(id.UserID)
		if empty {
			room.Status = StatusEnded
		} else if next, ok := room.TurnUserID(); ok && next == identity.BotUserID {
			c.scheduleBotMove(room)
		}
	}

	if room.HostUserID == id.UserID {
		room.HostUserID = NextHost(room.PlayerOrder, func(u string) bool { return u == identity.BotUserID })
	}

	c.syncBotLocked(room)

	if room.IsEmpty() {
		room.CancelTimer()
		c.Registry.Delete(room.Code)
		return nil
	}

	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

// Start transitions a lobby room to playing: builds turn order,
// stores the client-hint draw timeout, and kicks off the bot if it
// holds the first turn.
func (c *BingoCoordinator) Start(id identity.Identity, code string, opts BingoStartOptions) error {
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
	if len(room.Players) == 0 {
		return apperr.New(apperr.NoPlayers)
	}
	if !bingo.ValidDrawTimeout(opts.DrawTimeoutSeconds) {
		return apperr.New(apperr.InvalidDrawTimeoutSeconds)
	}

	room.DrawTimeoutSeconds = opts.DrawTimeoutSeconds
	room.Turns = scheduler.BuildOrder(room.PlayerOrder)
	room.Status = StatusPlaying
	room.Winners = nil
	room.LastNumber = 0
	room.LastDrawByUserID = ""
	room.LastDrawByUsername = ""
	room.LastDrawReason = ""

	if turn, ok := room.TurnUserID(); ok && turn == identity.BotUserID {
		c.scheduleBotMove(room)
	}

	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

// scheduleBotMove arms the ~1.2s deferred bot draw, spec.md §4.4.
// Must be called with the room lock held.
func (c *BingoCoordinator) scheduleBotMove(room *BingoRoom) {
	room.CancelTimer()

	deadline := c.now().Add(c.BotDrawDelay)
	room.TurnEndsAt = &deadline

	var timer *scheduler.Deadline
	timer = scheduler.After(c.BotDrawDelay, func() {
		room.Lock()
		defer room.Unlock()

		if room.Timer != timer {
			return
		}
		if room.Status != StatusPlaying {
			return
		}
		turn, ok := room.TurnUserID()
		if !ok || turn != identity.BotUserID {
			return
		}

		remaining := make([]int, 0, room.Size*room.Size)
		for n := 1; n <= room.Size*room.Size; n++ {
			if !room.CalledNumbers[n] {
				remaining = append(remaining, n)
			}
		}
		if len(remaining) == 0 {
			return
		}
		number := remaining[randsrc.IntN(len(remaining))]

		c.drawLocked(room, identity.Bot(), DrawReasonBot, number)
		room.Subs.Broadcast(room.snapshotLocked())
	})
	room.Timer = timer
}

// DrawNumber applies a manual draw by a human player, spec.md §4.5.
func (c *BingoCoordinator) DrawNumber(id identity.Identity, code string, number int) error {
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
		return apperr.New(apperr.NotInRoom)
	}
	if room.Status != StatusPlaying {
		return apperr.New(apperr.NotPlaying)
	}
	if turn, ok := room.TurnUserID(); !ok || turn != id.UserID {
		return apperr.New(apperr.NotYourTurn)
	}
	if number < 1 || number > room.Size*room.Size {
		return apperr.New(apperr.InvalidNumber)
	}
	if room.CalledNumbers[number] {
		return apperr.New(apperr.NumberAlreadyCalled)
	}

	if err := c.drawLocked(room, id, DrawReasonManual, number); err != nil {
		return err
	}

	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

// drawLocked performs the actual draw: insert the number, evaluate
// winners, and either end the game or advance the turn (arming the
// bot timer if it inherits the turn). Must be called with the lock
// held; the caller is responsible for broadcasting afterward.
func (c *BingoCoordinator) drawLocked(room *BingoRoom, actor identity.Identity, reason string, number int) error {
	room.CalledNumbers[number] = true
	room.LastNumber = number
	room.LastDrawByUserID = actor.UserID
	room.LastDrawByUsername = actor.Username
	room.LastDrawReason = reason
	room.CancelTimer()
	room.TurnEndsAt = nil

	var winners []BingoWinner
	for _, uid := range room.PlayerOrder {
		p := room.Players[uid]
		if p == nil {
			continue
		}
		lines := p.Board.CountLines(room.CalledNumbers)
		if lines >= bingo.TargetLines {
			winners = append(winners, BingoWinner{UserID: p.UserID, Username: p.Username, Lines: lines})
		}
	}

	if len(winners) > 0 {
		room.Winners = winners
		room.Status = StatusEnded
		return nil
	}

	if len(room.CalledNumbers) >= room.Size*room.Size {
		room.Winners = []BingoWinner{}
		room.Status = StatusEnded
		return nil
	}

	room.Turns.Advance()
	if turn, ok := room.TurnUserID(); ok && turn == identity.BotUserID {
		c.scheduleBotMove(room)
	}

	return nil
}

// CheckMembership implements rooms.Streamer.
func (c *BingoCoordinator) CheckMembership(id identity.Identity, code string) error {
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
func (c *BingoCoordinator) Subscribe(id identity.Identity, code string, sink stream.Sink) (*stream.Subscriber, error) {
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
func (c *BingoCoordinator) Unsubscribe(code string, sub *stream.Subscriber) {
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
