// Package identity holds the authenticated-caller shape the Room
// Coordination Engine consumes. It never reads cookies or sessions
// itself; those belong to the HTTP layer that resolves an Identity
// before calling into the engine.
package identity

// BotUserID is the reserved sentinel identifying the server-controlled
// Bingo participant. It is disjoint from every human-issued userId.
const BotUserID = "__bot__"

// BotUsername is the display name attached to the bot's Player record.
const BotUsername = "Robot"

// Identity is the authenticated caller of an operation.
type Identity struct {
	UserID   string
	Username string
}

// IsBot reports whether this identity is the reserved bot sentinel.
func (id Identity) IsBot() bool {
	return id.UserID == BotUserID
}

// Bot returns the well-known bot identity.
func Bot() Identity {
	return Identity{UserID: BotUserID, Username: BotUsername}
}

// Valid reports whether id could plausibly have come from the identity
// context: both fields populated, and not impersonating the bot.
func (id Identity) Valid() bool {
	return id.UserID != "" && id.Username != "" && id.UserID != BotUserID
}
