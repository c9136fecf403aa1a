// Package memory holds the pure deck-building helper for the Flag
// Memory game (spec.md §4.7).
package memory

import (
	"github.com/boardhall/boardhall/internal/catalogue"
	"github.com/boardhall/boardhall/internal/randsrc"
)

// ValidCardCounts enumerates the only accepted deck sizes, spec.md §3.
var ValidCardCounts = []int{20, 30, 40, 50, 60}

// ValidCardCount reports whether n is one of the enumerated sizes.
func ValidCardCount(n int) bool {
	for _, v := range ValidCardCounts {
		if v == n {
			return true
		}
	}
	return false
}

// Card is one face-down-or-up tile in the deck.
type Card struct {
	UID        int
	CountryKey string
	Flag       string
	NameKo     string
	Matched    bool
}

// BuildDeck picks cardCount/2 distinct countries uniformly at random
// from the fixed catalogue, duplicates each, and shuffles the result,
// per spec.md §4.7.
func BuildDeck(cardCount int) []Card {
	pairs := cardCount / 2

	indices := randsrc.ShuffleInts(len(catalogue.All))[:pairs]

	deck := make([]Card, 0, cardCount)
	for _, idx := range indices {
		c := catalogue.All[idx]
		deck = append(deck,
			Card{CountryKey: c.Key, Flag: c.Flag, NameKo: c.NameKo},
			Card{CountryKey: c.Key, Flag: c.Flag, NameKo: c.NameKo},
		)
	}

	randsrc.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	for i := range deck {
		deck[i].UID = i
	}

	return deck
}
