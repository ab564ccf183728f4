package subcmd

import (
	"github.com/hbollon/go-edlib"
)

// MaxSuggestionDistance is the largest Damerau-Levenshtein distance between
// an unknown token and a registered name for which a suggestion is offered.
const MaxSuggestionDistance = 2

// Resolution is the outcome of Resolve: either Matched or NotFound.
type Resolution interface {
	resolution()
}

// Matched is returned when the token names a registered subcommand.
type Matched struct {
	Subcommand Subcommand
	Args       []string
}

// NotFound is returned when no subcommand is registered under Name.
// Suggestion is empty when nothing is close enough.
type NotFound struct {
	Name       string
	Suggestion string
}

func (Matched) resolution()  {}
func (NotFound) resolution() {}

// HasSuggestion reports whether a registered name was close enough to suggest.
func (n NotFound) HasSuggestion() bool { return n.Suggestion != "" }

// Resolve looks token up in r and forwards rest on a match. On a miss the
// closest registered name is attached as a suggestion.
func Resolve(r *Registry, token string, rest []string) Resolution {
	if cmd, ok := r.Lookup(token); ok {
		return Matched{Subcommand: cmd, Args: rest}
	}
	guess, _ := Suggest(r, token)
	return NotFound{Name: token, Suggestion: guess}
}

// Suggest returns the registered name closest to token, if any lies within
// MaxSuggestionDistance. Ties go to the earliest registered name.
func Suggest(r *Registry, token string) (string, bool) {
	best := ""
	lowest := MaxSuggestionDistance + 1
	for _, name := range r.names {
		if d := edlib.DamerauLevenshteinDistance(name, token); d < lowest {
			lowest = d
			best = name
		}
	}
	return best, best != ""
}
