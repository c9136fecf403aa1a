package rooms

import (
	"encoding/json"
	"sort"
)

// mustJSON marshals v, which is always one of this package's own
// snapshot structs and therefore never fails to encode.
func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

// sortInts sorts a slice of ints in place, used by the Croc snapshot
// builder to keep selectedTeeth deterministic on the wire.
func sortInts(xs []int) { sort.Ints(xs) }
