package filter

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoSuchItem is returned when an item lookup matches no records.
var ErrNoSuchItem = errors.New("no such item")

// Match is the outcome of resolving a free-text query to a known item.
type Match struct {
	Name  string
	Score float64
	View  View
}

// Resolver maps free text onto the closest known item name.
type Resolver struct {
	view  View
	names []string
}

// NewResolver indexes the distinct item names of v once, in view order.
func NewResolver(v View) *Resolver {
	return &Resolver{view: v, names: v.Items()}
}

// Names returns the distinct item names the resolver searches.
func (r *Resolver) Names() []string {
	return append([]string(nil), r.names...)
}

// Resolve returns the known name most similar to query and the records for
// it. The first name reaching the best score wins. An unrelated query still
// resolves to whichever name scores highest; only an empty catalog fails.
func (r *Resolver) Resolve(query string) (Match, error) {
	if len(r.names) == 0 {
		return Match{}, fmt.Errorf("resolving %q: %w", query, ErrNoSuchItem)
	}

	best, bestScore := "", -1.0
	for _, name := range r.names {
		if score := Similarity(query, name); score > bestScore {
			best, bestScore = name, score
		}
	}
	return Match{Name: best, Score: bestScore, View: r.byName(best)}, nil
}

// Exact matches the literal item name only.
func (r *Resolver) Exact(name string) (Match, error) {
	v := r.byName(name)
	if v.Empty() {
		return Match{}, fmt.Errorf("%q: %w", name, ErrNoSuchItem)
	}
	return Match{Name: name, Score: 1, View: v}, nil
}

func (r *Resolver) byName(name string) View {
	return r.view.WhereColumn(ColumnItem, func(item string) bool { return item == name })
}

// Similarity returns a case-insensitive ratio in [0, 1] derived from the
// insertion/deletion edit distance: 2*common / (len(a)+len(b)).
func Similarity(a, b string) float64 {
	ra := []rune(strings.ToLower(strings.TrimSpace(a)))
	rb := []rune(strings.ToLower(strings.TrimSpace(b)))
	total := len(ra) + len(rb)
	if total == 0 {
		return 1
	}
	return float64(total-editDistance(ra, rb, 2)) / float64(total)
}

// Distance is the Levenshtein distance between a and b.
func Distance(a, b string) int {
	return editDistance([]rune(a), []rune(b), 1)
}

func editDistance(a, b []rune, subCost int) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 0
			if a[i-1] != b[j-1] {
				cost = subCost
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
