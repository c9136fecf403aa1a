package rooms

import (
	"time"

	"github.com/boardhall/boardhall/internal/apperr"
	"github.com/boardhall/boardhall/internal/games/croc"
	"github.com/boardhall/boardhall/internal/identity"
	"github.com/boardhall/boardhall/internal/registry"
	"github.com/boardhall/boardhall/internal/roomcode"
	"github.com/boardhall/boardhall/internal/scheduler"
	"github.com/boardhall/boardhall/internal/stream"
)

// CrocPlayer is one seat at a Croc room, spec.md §3.
type CrocPlayer struct {
	UserID   string
	Username string
	JoinedAt time.Time
	Alive    bool
}

// CrocRoom is a single Crocodile-Tooth session.
type CrocRoom struct {
	Base

	ToothCountPerJaw int
	TrapTooth        int
	SelectedTeeth    map[int]bool
	LastPickedTooth  int
	LastPickerUserID string
	LoserUserID      string
	LoserUsername    string
	WinnerUserID     string
	WinnerUsername   string

	Players map[string]*CrocPlayer
}

// IsEmpty reports whether no players remain seated.
func (r *CrocRoom) IsEmpty() bool { return len(r.Players) == 0 }

// CrocCreateOptions is the create-time body.
type CrocCreateOptions struct {
	ToothCountPerJaw int
}

// CrocStartOptions is the start-time body.
type CrocStartOptions struct {
	ToothCountPerJaw int
}

// CrocPlayerView is one player's entry in a CrocSnapshot.
type CrocPlayerView struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	JoinedAt string `json:"joinedAt"`
	Online   bool   `json:"online"`
	Alive    bool   `json:"alive"`
}

// CrocSnapshot is the public wire view of a room.
type CrocSnapshot struct {
	Code             string           `json:"code"`
	Status           string           `json:"status"`
	HostUserID       string           `json:"hostUserId"`
	CreatedAt        string           `json:"createdAt"`
	ToothCountPerJaw int              `json:"toothCountPerJaw"`
	SelectedTeeth    []int            `json:"selectedTeeth"`
	LastPickedTooth  *int             `json:"lastPickedTooth"`
	LastPickerUserID string           `json:"lastPickerUserId,omitempty"`
	LoserUserID      string           `json:"loserUserId,omitempty"`
	LoserUsername    string           `json:"loserUsername,omitempty"`
	WinnerUserID     string           `json:"winnerUserId,omitempty"`
	WinnerUsername   string           `json:"winnerUsername,omitempty"`
	TurnUserID       *string          `json:"turnUserId"`
	Players          []CrocPlayerView `json:"players"`
}

func (r *CrocRoom) snapshotLocked() CrocSnapshot {
	selected := make([]int, 0, len(r.SelectedTeeth))
	for t := range r.SelectedTeeth {
		selected = append(selected, t)
	}
	sortInts(selected)

	players := make([]CrocPlayerView, 0, len(r.PlayerOrder))
	for _, id := range r.PlayerOrder {
		p := r.Players[id]
		if p == nil {
			continue
		}
		players = append(players, CrocPlayerView{
			UserID:   p.UserID,
			Username: p.Username,
			JoinedAt: p.JoinedAt.UTC().Format(time.RFC3339),
			Online:   r.Online(p.UserID),
			Alive:    p.Alive,
		})
	}

	var lastPicked *int
	if r.LastPickedTooth != 0 {
		n := r.LastPickedTooth
		lastPicked = &n
	}

	var turnUserID *string
	if id, ok := r.TurnUserID(); ok {
		turnUserID = &id
	}

	return CrocSnapshot{
		Code:             r.Code,
		Status:           string(r.Status),
		HostUserID:       r.HostUserID,
		CreatedAt:        r.CreatedAt.UTC().Format(time.RFC3339),
		ToothCountPerJaw: r.ToothCountPerJaw,
		SelectedTeeth:    selected,
		LastPickedTooth:  lastPicked,
		LastPickerUserID: r.LastPickerUserID,
		LoserUserID:      r.LoserUserID,
		LoserUsername:    r.LoserUsername,
		WinnerUserID:     r.WinnerUserID,
		WinnerUsername:   r.WinnerUsername,
		TurnUserID:       turnUserID,
		Players:          players,
	}
}

// CrocCoordinator composes the registry and rule helpers for the
// Crocodile-Tooth game.
type CrocCoordinator struct {
	Registry *registry.Registry[*CrocRoom]
	Now      func() time.Time
}

// NewCrocCoordinator constructs an empty coordinator.
func NewCrocCoordinator() *CrocCoordinator {
	return &CrocCoordinator{
		Registry: registry.New[*CrocRoom](),
		Now:      time.Now,
	}
}

func (c *CrocCoordinator) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Create allocates a new lobby room. toothCountPerJaw at create time is
// advisory; Start re-validates and commits its own value, per spec.md
// §4.6's start-time seeding.
func (c *CrocCoordinator) Create(id identity.Identity, opts CrocCreateOptions) (string, error) {
	if !id.Valid() {
		return "", apperr.New(apperr.Unauthorized)
	}
	toothCountPerJaw := opts.ToothCountPerJaw
	if toothCountPerJaw == 0 {
		toothCountPerJaw = croc.MinTeethPerJaw
	}
	if !croc.ValidToothCountPerJaw(toothCountPerJaw) {
		return "", apperr.New(apperr.InvalidToothCountPerJaw)
	}

	code, err := roomcode.Allocate(c.Registry.Exists)
	if err != nil {
		return "", apperr.New(apperr.RoomCodeCollision)
	}

	room := &CrocRoom{
		Base:             NewBase(code, c.now()),
		ToothCountPerJaw: toothCountPerJaw,
		SelectedTeeth:    make(map[int]bool),
		Players:          make(map[string]*CrocPlayer),
	}
	room.HostUserID = id.UserID

	c.Registry.Put(code, room)

	return code, nil
}

func (c *CrocCoordinator) lookup(code string) (*CrocRoom, error) {
	room, ok := c.Registry.Get(roomcode.Canonical(code))
	if !ok {
		return nil, apperr.New(apperr.RoomNotFound)
	}
	return room, nil
}

// Join seats id in the room, or refreshes presence if already seated.
// Croc has no fixed human cap pre-start, spec.md §4.9.
func (c *CrocCoordinator) Join(id identity.Identity, code string) (CrocSnapshot, error) {
	if !id.Valid() {
		return CrocSnapshot{}, apperr.New(apperr.Unauthorized)
	}

	room, err := c.lookup(code)
	if err != nil {
		return CrocSnapshot{}, err
	}

	room.Lock()
	defer room.Unlock()
	room.Touch(c.now())

	if _, ok := room.Players[id.UserID]; ok {
		return room.snapshotLocked(), nil
	}
	if room.Status != StatusLobby {
		return CrocSnapshot{}, apperr.New(apperr.RoomNotJoinable)
	}

	room.Players[id.UserID] = &CrocPlayer{
		UserID:   id.UserID,
		Username: id.Username,
		JoinedAt: c.now(),
		Alive:    true,
	}
	room.AppendPlayerOrder(id.UserID)

	snap := room.snapshotLocked()
	room.Subs.Broadcast(snap)

	return snap, nil
}

// Leave removes id, reassigns host, and prunes the room if it empties.
func (c *CrocCoordinator) Leave(id identity.Identity, code string) error {
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

// Start seeds a new round: random trap tooth, fresh turn order, every
// player marked alive, spec.md §4.6.
func (c *CrocCoordinator) Start(id identity.Identity, code string, opts CrocStartOptions) error {
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
	if len(room.Players) < CrocMinStartHuman {
		return apperr.New(apperr.NeedTwoPlayers)
	}

	toothCountPerJaw := opts.ToothCountPerJaw
	if toothCountPerJaw == 0 {
		toothCountPerJaw = room.ToothCountPerJaw
	}
	if !croc.ValidToothCountPerJaw(toothCountPerJaw) {
		return apperr.New(apperr.InvalidToothCountPerJaw)
	}

	room.ToothCountPerJaw = toothCountPerJaw
	room.TrapTooth = croc.RandomTrap(toothCountPerJaw)
	room.SelectedTeeth = make(map[int]bool)
	room.LastPickedTooth = 0
	room.LastPickerUserID = ""
	room.LoserUserID = ""
	room.LoserUsername = ""
	room.WinnerUserID = ""
	room.WinnerUsername = ""
	for _, p := range room.Players {
		p.Alive = true
	}
	room.Turns = scheduler.BuildOrder(room.PlayerOrder)
	room.Status = StatusPlaying

	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

// Pick applies one tooth pick, spec.md §4.6.
func (c *CrocCoordinator) Pick(id identity.Identity, code string, tooth int) error {
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
	if !croc.ValidTooth(tooth, room.ToothCountPerJaw) {
		return apperr.New(apperr.InvalidTooth)
	}
	if room.SelectedTeeth[tooth] {
		return apperr.New(apperr.AlreadySelected)
	}

	room.SelectedTeeth[tooth] = true
	room.LastPickedTooth = tooth
	room.LastPickerUserID = id.UserID

	if tooth == room.TrapTooth {
		if p := room.Players[id.UserID]; p != nil {
			p.Alive = false
			room.LoserUserID = p.UserID
			room.LoserUsername = p.Username
		}
		if winnerID, ok := croc.FirstNonPicker(room.Turns.Order, id.UserID); ok {
			if w := room.Players[winnerID]; w != nil {
				room.WinnerUserID = w.UserID
				room.WinnerUsername = w.Username
			}
		}
		room.Status = StatusEnded
	} else {
		room.Turns.Advance()
	}

	room.Subs.Broadcast(room.snapshotLocked())

	return nil
}

// CheckMembership implements rooms.Streamer.
func (c *CrocCoordinator) CheckMembership(id identity.Identity, code string) error {
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
func (c *CrocCoordinator) Subscribe(id identity.Identity, code string, sink stream.Sink) (*stream.Subscriber, error) {
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
func (c *CrocCoordinator) Unsubscribe(code string, sub *stream.Subscriber) {
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
