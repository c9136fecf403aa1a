package rooms

import (
	"time"

	"github.com/boardhall/boardhall/internal/apperr"
	"github.com/boardhall/boardhall/internal/games/memory"
	"github.com/boardhall/boardhall/internal/identity"
	"github.com/boardhall/boardhall/internal/registry"
	"github.com/boardhall/boardhall/internal/roomcode"
	"github.com/boardhall/boardhall/internal/scheduler"
	"github.com/boardhall/boardhall/internal/stream"
)

// MemoryPlayer is one seat at a Flag Memory room, spec.md §3.
type MemoryPlayer struct {
	UserID   string
	Username string
	JoinedAt time.Time
	Score    int
}

// MemoryWinner records a player tied for the top score at game end.
type MemoryWinner struct {
	UserID   string
	Username string
	Score    int
}

// MemoryRoom is a single Flag Memory session.
type MemoryRoom struct {
	Base

	CardCount       int
	Cards           []memory.Card
	RevealedIndices []int
	MatchedCount    int
	Resolving       bool
	Winners         []MemoryWinner

	Players map[string]*MemoryPlayer
}

// IsEmpty reports whether no players remain seated.
func (r *MemoryRoom) IsEmpty() bool { return len(r.Players) == 0 }

func (r *MemoryRoom) revealedSet() map[int]bool {
	out := make(map[int]bool, len(r.RevealedIndices))
	for _, i := range r.RevealedIndices {
		out[i] = true
	}
	return out
}

// MemoryCreateOptions is the create-time body.
type MemoryCreateOptions struct{}

// MemoryStartOptions is the start-time body.
type MemoryStartOptions struct {
	CardCount int
}

// MemoryCardView is one card's wire view, masked unless the card itself
// is visible (the same for every viewer), spec.md §4.7: "Snapshot visibility uses
// revealedIndices ∪ {matched cards}."
type MemoryCardView struct {
	UID        int    `json:"uid"`
	CountryKey string `json:"countryKey,omitempty"`
	Flag       string `json:"flag,omitempty"`
	NameKo     string `json:"nameKo,omitempty"`
	Matched    bool   `json:"matched"`
	Revealed   bool   `json:"revealed"`
}

// MemoryPlayerView is one player's entry in a MemorySnapshot.
type MemoryPlayerView struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	JoinedAt string `json:"joinedAt"`
	Online   bool   `json:"online"`
	Score    int    `json:"score"`
}

// MemorySnapshot is the one shared wire view of a room: Cards is
// masked by each card's own visibility (matched, or in
// revealedIndices), not by who is asking, so a single snapshot is
// built per mutation and broadcast to every subscriber unchanged.
type MemorySnapshot struct {
	Code            string             `json:"code"`
	Status          string             `json:"status"`
	HostUserID      string             `json:"hostUserId"`
	CreatedAt       string             `json:"createdAt"`
	CardCount       int                `json:"cardCount"`
	RevealedIndices []int              `json:"revealedIndices"`
	MatchedCount    int                `json:"matchedCount"`
	Resolving       bool               `json:"resolving"`
	TurnUserID      *string            `json:"turnUserId"`
	Winners         []MemoryWinner     `json:"winners"`
	Cards           []MemoryCardView   `json:"cards"`
	Players         []MemoryPlayerView `json:"players"`
}

// snapshotLocked builds the one shared snapshot every subscriber
// receives: a card's face is visible once it enters revealedIndices or
// becomes matched, with no further per-viewer distinction, spec.md
// §4.7.
func (r *MemoryRoom) snapshotLocked() MemorySnapshot {
	revealed := r.revealedSet()

	cards := make([]MemoryCardView, 0, len(r.Cards))
	for _, c := range r.Cards {
		visible := c.Matched || revealed[c.UID]
		view := MemoryCardView{UID: c.UID, Matched: c.Matched, Revealed: revealed[c.UID]}
		if visible {
			view.CountryKey = c.CountryKey
			view.Flag = c.Flag
			view.NameKo = c.NameKo
		}
		cards = append(cards, view)
	}

	players := make([]MemoryPlayerView, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		p := r.Players[id]
		if p == nil {
			continue
		}
		players = append(players, MemoryPlayerView{
			UserID:   p.UserID,
			Username: p.Username,
			JoinedAt: p.JoinedAt.UTC().Format(time.RFC3339),
			Online:   r.Online(p.UserID),
			Score:    p.Score,
		})
	}

	var turnUserID *string
	if id, ok := r.TurnUserID(); ok {
		turnUserID = &id
	}

	revealedOrdered := make([]int, len(r.RevealedIndices))
	copy(revealedOrdered, r.RevealedIndices)

	winners := r.Winners
	if winners == nil {
		winners = []MemoryWinner{}
	}

	return MemorySnapshot{
		Code:            r.Code,
		Status:          string(r.Status),
		HostUserID:      r.HostUserID,
		CreatedAt:       r.CreatedAt.UTC().Format(time.RFC3339),
		CardCount:       r.CardCount,
		RevealedIndices: revealedOrdered,
		MatchedCount:    r.MatchedCount,
		Resolving:       r.Resolving,
		TurnUserID:      turnUserID,
		Winners:         winners,
		Cards:           cards,
		Players:         players,
	}
}

// MemoryCoordinator composes the registry and rule helpers for Flag
// Memory.
type MemoryCoordinator struct {
	Registry             *registry.Registry[*MemoryRoom]
	MismatchResolveDelay time.Duration
	Now                  func() time.Time
}

// NewMemoryCoordinator constructs a coordinator with the default
// mismatch-resolution delay.
func NewMemoryCoordinator() *MemoryCoordinator {
	return &MemoryCoordinator{
		Registry:             registry.New[*MemoryRoom](),
		MismatchResolveDelay: DefaultMismatchResolveDelay,
		Now:                  time.Now,
	}
}

func (c *MemoryCoordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Create allocates a new lobby room.
func (c *MemoryCoordinator) Create(id identity.Identity, _ MemoryCreateOptions) (string, error) {
	if !id.Valid() {
		return "", apperr.New(apperr.Unauthorized)
	}

	code, err := roomcode.Allocate(c.Registry.Exists)
	if err != nil {
		return "", apperr.New(apperr.RoomCodeCollision)
	}

	room := &MemoryRoom{
		Base:    NewBase(code, c.now()),
		Players: make(map[string]*MemoryPlayer),
	}
	room.HostUserID = id.UserID

	c.Registry.Put(code, room)

	return code, nil
}

func (c *MemoryCoordinator) lookup(code string) (*MemoryRoom, error) {
	room, ok := c.Registry.Get(roomcode.Canonical(code))
	if !ok {
		return nil, apperr.New(apperr.RoomNotFound)
	}
	return room, nil
}

// Join seats id, or refreshes presence if already seated.
func (c *MemoryCoordinator) Join(id identity.Identity, code string) (MemorySnapshot, error) {
	if !id.Valid() {
		return MemorySnapshot{}, apperr.New(apperr.Unauthorized)
	}

	room, err := c.lookup(code)
	if err != nil {
		return MemorySnapshot{}, err
	}

	room.Lock()
	defer room.Unlock()
	room.Touch(c.now())

	if _, ok := room.Players[id.UserID]; ok {
		return room.snapshotLocked(), nil
	}
	if room.Status != StatusLobby {
		return MemorySnapshot{}, apperr.New(apperr.RoomNotJoinable)
	}
	if len(room.Players) >= MemoryMaxPlayers {
		return MemorySnapshot{}, apperr.New(apperr.RoomFull)
	}

	room.Players[id.UserID] = &MemoryPlayer{
		UserID:   id.UserID,
		Username: id.Username,
		JoinedAt: c.now(),
	}
	room.AppendPlayerOrder(id.UserID)

	snap := room.snapshotLocked()
	room.Subs.Broadcast(snap)

	return snap, nil
}

// Leave removes id, reassigns host, and prunes the room if it empties.
func (c *MemoryCoordinator) Leave(id identity.Identity, code string) error {
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
		room.Resolving = false
		empty := room.Turns.OnLeave(id.UserID)
		if empty {
			room.Status = StatusEnded
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

// Start rebuilds the deck and resets scores, spec.md §4.7.
func (c *MemoryCoordinator) Start(id identity.Identity, code string, opts MemoryStartOptions) error {
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
	if !memory.ValidCardCount(opts.CardCount) {
		return apperr.New(apperr.InvalidCardCount)
	}

	room.CancelTimer()
	room.CardCount = opts.CardCount
	room.Cards = memory.BuildDeck(opts.CardCount)
	room.RevealedIndices = nil
	room.MatchedCount = 0
	room.Resolving = false
	room.Winners = nil
	for _, p := range room.Players {
		p.Score = 0
	}
	room.Turns = scheduler.BuildOrder(room.PlayerOrder)
	room.Status = StatusPlaying

	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

func (r *MemoryRoom) cardByUID(uid int) *memory.Card {
	for i := range r.Cards {
		if r.Cards[i].UID == uid {
			return &r.Cards[i]
		}
	}
	return nil
}

// Pick reveals one card, resolving a pair or arming the deferred
// mismatch-clear timer, spec.md §4.7.
func (c *MemoryCoordinator) Pick(id identity.Identity, code string, index int) error {
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
	if room.Resolving {
		return apperr.New(apperr.Resolving)
	}
	if turn, ok := room.TurnUserID(); !ok || turn != id.UserID {
		return apperr.New(apperr.NotYourTurn)
	}
	if index < 0 || index >= len(room.Cards) {
		return apperr.New(apperr.InvalidIndex)
	}

	card := room.cardByUID(index)
	if card == nil {
		return apperr.New(apperr.InvalidIndex)
	}
	if card.Matched {
		return apperr.New(apperr.AlreadyMatched)
	}
	for _, i := range room.RevealedIndices {
		if i == index {
			return apperr.New(apperr.AlreadyRevealed)
		}
	}

	room.RevealedIndices = append(room.RevealedIndices, index)

	if len(room.RevealedIndices) < 2 {
		room.Subs.Broadcast(room.snapshotLocked())
		return nil
	}

	first := room.cardByUID(room.RevealedIndices[0])
	second := room.cardByUID(room.RevealedIndices[1])

	if first != nil && second != nil && first.CountryKey == second.CountryKey {
		first.Matched = true
		second.Matched = true
		room.MatchedCount++
		room.RevealedIndices = nil
		if p := room.Players[id.UserID]; p != nil {
			p.Score++
		}

		if room.MatchedCount == room.CardCount/2 {
			room.Status = StatusEnded
			room.Winners = memoryWinners(room.Players, room.PlayerOrder)
		}

		room.Subs.Broadcast(room.snapshotLocked())
		return nil
	}

	room.Resolving = true
	c.scheduleMismatchClear(room)
	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

func memoryWinners(players map[string]*MemoryPlayer, order []string) []MemoryWinner {
	best := -1
	for _, id := range order {
		if p := players[id]; p != nil && p.Score > best {
			best = p.Score
		}
	}

	var winners []MemoryWinner
	for _, id := range order {
		p := players[id]
		if p != nil && p.Score == best {
			winners = append(winners, MemoryWinner{UserID: p.UserID, Username: p.Username, Score: p.Score})
		}
	}
	return winners
}

// scheduleMismatchClear arms the ~1100ms deferred mismatch-resolution
// task, spec.md §4.7. Must be called with the room lock held.
func (c *MemoryCoordinator) scheduleMismatchClear(room *MemoryRoom) {
	room.CancelTimer()

	var timer *scheduler.Deadline
	timer = scheduler.After(c.MismatchResolveDelay, func() {
		room.Lock()
		defer room.Unlock()

		if room.Timer != timer {
			return
		}
		if room.Status != StatusPlaying {
			return
		}

		room.RevealedIndices = nil
		room.Resolving = false
		room.Timer = nil
		room.Turns.Advance()

		room.Subs.Broadcast(room.snapshotLocked())
	})
	room.Timer = timer
}

// CheckMembership implements rooms.Streamer.
func (c *MemoryCoordinator) CheckMembership(id identity.Identity, code string) error {
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
func (c *MemoryCoordinator) Subscribe(id identity.Identity, code string, sink stream.Sink) (*stream.Subscriber, error) {
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
func (c *MemoryCoordinator) Unsubscribe(code string, sub *stream.Subscriber) {
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
