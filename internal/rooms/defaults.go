package rooms

import "time"

// Timing constants from spec.md's literal scenarios (§4.4, §4.7, §8):
// the bot draws "within ~1200 ms" and a Memory mismatch clears "~1100
// ms later." Coordinators accept overrides for tests; production
// wiring in config.go uses these defaults.
const (
	DefaultBotDrawDelay         = 1200 * time.Millisecond
	DefaultMismatchResolveDelay = 1100 * time.Millisecond
)

// Capacity constants, spec.md §4.9.
const (
	BingoMaxHumans    = 8
	MemoryMaxPlayers  = 8
	GomokuMaxPlayers  = 2
	CrocMinStartHuman = 2
)
