package models

import "strings"

// Genre is the closed set of book genres.
type Genre string

const (
	GenreFiction    Genre = "FICTION"
	GenreNonFiction Genre = "NON_FICTION"
	GenreSciFi      Genre = "SCIFI"
	GenreFantasy    Genre = "FANTASY"
	GenreMystery    Genre = "MYSTERY"
	GenreRomance    Genre = "ROMANCE"
	GenreHorror     Genre = "HORROR"
	GenreHistory    Genre = "HISTORY"
)

var genres = []Genre{
	GenreFiction, GenreNonFiction, GenreSciFi, GenreFantasy,
	GenreMystery, GenreRomance, GenreHorror, GenreHistory,
}

// Genres returns all genres in display order.
func Genres() []Genre {
	out := make([]Genre, len(genres))
	copy(out, genres)
	return out
}

// ParseGenre accepts a genre code in any letter case.
func ParseGenre(s string) (Genre, bool) {
	g := Genre(strings.ToUpper(strings.TrimSpace(s)))
	return g, g.Valid()
}

func (g Genre) Valid() bool {
	for _, known := range genres {
		if g == known {
			return true
		}
	}
	return false
}

// DisplayName turns NON_FICTION into "Non Fiction".
func (g Genre) DisplayName() string {
	words := strings.Split(strings.ToLower(string(g)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
