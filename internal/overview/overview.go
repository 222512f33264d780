// Package overview composes filters, ranking and resolution into the two
// user-facing queries: daily highlights and item history.
package overview

import (
	"fmt"
	"strings"
	"time"

	"github.com/tayloree/dinecli/internal/cache"
	"github.com/tayloree/dinecli/internal/filter"
	"github.com/tayloree/dinecli/internal/menu"
	"github.com/tayloree/dinecli/internal/when"
)

// Default time-to-live for memoized queries.
const (
	DefaultOverviewTTL = 30 * time.Minute
	DefaultHistoryTTL  = 24 * time.Hour
	historyDepth       = 5
)

// DefaultLocations is the fixed hall enumeration of the daily overview.
var DefaultLocations = []string{"Chase", "Lenoir"}

// Meals is the fixed meal enumeration of the daily overview.
var Meals = []string{"lunch", "dinner"}

// Block is the highlight selection for one location and meal.
type Block struct {
	Location   string
	Meal       string
	Period     string
	Highlights []filter.Highlight
}

// Daily is the structured daily overview.
type Daily struct {
	Date   time.Time
	Blocks []Block
}

// Meal returns the blocks for one meal in location order.
func (d Daily) Meal(meal string) []Block {
	var out []Block
	for _, b := range d.Blocks {
		if b.Meal == meal {
			out = append(out, b)
		}
	}
	return out
}

// Appearance is one (date, location) occurrence of an item.
type Appearance struct {
	Date     time.Time
	Location string
}

func (a Appearance) String() string {
	return fmt.Sprintf("%s, %s", a.Location, a.Date.Format("Monday, 02 Jan"))
}

// History is the structured item history.
type History struct {
	Query  string
	Match  string
	Score  float64
	Past   []Appearance
	Future []Appearance
}

type historyArgs struct {
	query string
	exact bool
	today time.Time
}

// Aggregator answers overview queries over one store.
type Aggregator struct {
	store     *menu.Store
	all       filter.View
	resolver  *filter.Resolver
	rules     filter.Rules
	locations []string
	now       func() time.Time

	cache       *cache.Cache
	overviewTTL time.Duration
	historyTTL  time.Duration
	daily       *cache.Memo[time.Time, Daily]
	history     *cache.Memo[historyArgs, History]
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithClock overrides the source of the current moment.
func WithClock(now func() time.Time) Option {
	return func(a *Aggregator) { a.now = now }
}

// WithCache stores results in c. Several aggregators may share one cache;
// their entries are kept apart.
func WithCache(c *cache.Cache) Option {
	return func(a *Aggregator) { a.cache = c }
}

// WithRules overrides the highlight selection rules.
func WithRules(r filter.Rules) Option {
	return func(a *Aggregator) { a.rules = r }
}

// WithLocations overrides the hall enumeration.
func WithLocations(locations ...string) Option {
	return func(a *Aggregator) { a.locations = locations }
}

// WithTTL overrides the overview and history cache lifetimes.
func WithTTL(overviewTTL, historyTTL time.Duration) Option {
	return func(a *Aggregator) {
		a.overviewTTL = overviewTTL
		a.historyTTL = historyTTL
	}
}

// New builds an aggregator over store.
func New(store *menu.Store, opts ...Option) *Aggregator {
	all := filter.All(store)
	a := &Aggregator{
		store:       store,
		all:         all,
		resolver:    filter.NewResolver(all),
		rules:       filter.DefaultRules(),
		locations:   DefaultLocations,
		now:         time.Now,
		overviewTTL: DefaultOverviewTTL,
		historyTTL:  DefaultHistoryTTL,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cache == nil {
		a.cache = cache.New(cache.WithClock(a.now))
	}
	if len(a.locations) == 0 {
		a.locations = store.Locations()
	}

	// Ops carry the aggregator address; entries of aggregators sharing a
	// cache never collide.
	a.daily = cache.Wrap(a.cache, fmt.Sprintf("daily_overview@%p", a), a.overviewTTL,
		func(d time.Time) []any { return []any{d} },
		a.computeDaily,
	)
	a.history = cache.Wrap(a.cache, fmt.Sprintf("item_history@%p", a), a.historyTTL,
		func(h historyArgs) []any { return []any{h.query, h.exact, h.today} },
		a.computeHistory,
	)
	return a
}

// Cache returns the aggregator's query cache.
func (a *Aggregator) Cache() *cache.Cache { return a.cache }

// Locations returns the hall enumeration in use.
func (a *Aggregator) Locations() []string {
	return append([]string(nil), a.locations...)
}

// Daily resolves a date token and returns the structured highlights for
// every (location, meal) pair.
func (a *Aggregator) Daily(dateToken string) (Daily, error) {
	d, err := when.Date(dateToken, a.now())
	if err != nil {
		return Daily{}, err
	}
	return a.daily.Call(d)
}

// DailyOverview renders the daily highlights as a lunch message and a dinner
// message.
func (a *Aggregator) DailyOverview(dateToken string) (lunch, dinner string, err error) {
	d, err := a.Daily(dateToken)
	if err != nil {
		return "", "", err
	}
	return FormatMeal(d, "lunch"), FormatMeal(d, "dinner"), nil
}

func (a *Aggregator) computeDaily(d time.Time) (Daily, error) {
	now := a.now()
	candidates := a.rules.Apply(a.all)

	out := Daily{Date: d}
	for _, location := range a.locations {
		for _, meal := range Meals {
			dated := candidates.OnDate(d)
			timed, err := dated.ForMeal(meal, now)
			if err != nil {
				return Daily{}, err
			}
			selected := timed.AtLocation(location).Limit(a.rules.Limit)

			block := Block{Location: location, Meal: meal, Highlights: filter.Collect(selected)}
			if first, ok := selected.First(); ok {
				block.Period = first.Period
			}
			out.Blocks = append(out.Blocks, block)
		}
	}
	return out, nil
}

// History resolves query fuzzily and returns recent and upcoming appearances.
func (a *Aggregator) History(query string) (History, error) {
	return a.history.Call(historyArgs{query: strings.TrimSpace(query), today: menu.DateOf(a.now())})
}

// HistoryExact is History without fuzzy resolution.
func (a *Aggregator) HistoryExact(name string) (History, error) {
	return a.history.Call(historyArgs{query: strings.TrimSpace(name), exact: true, today: menu.DateOf(a.now())})
}

// ItemHistory renders History as text.
func (a *Aggregator) ItemHistory(query string) (string, error) {
	h, err := a.History(query)
	if err != nil {
		return "", err
	}
	return FormatHistory(h), nil
}

func (a *Aggregator) computeHistory(args historyArgs) (History, error) {
	var (
		match filter.Match
		err   error
	)
	if args.exact {
		match, err = a.resolver.Exact(args.query)
	} else {
		match, err = a.resolver.Resolve(args.query)
	}
	if err != nil {
		return History{}, err
	}

	past := match.View.Before(args.today).SortBy(false, filter.SortDate)
	future := match.View.Since(args.today).SortBy(true, filter.SortDate)

	return History{
		Query:  args.query,
		Match:  match.Name,
		Score:  match.Score,
		Past:   appearances(past, historyDepth),
		Future: appearances(future, historyDepth),
	}, nil
}

// appearances collapses a date-sorted view to at most n distinct
// (date, location) pairs.
func appearances(v filter.View, n int) []Appearance {
	seen := make(map[Appearance]struct{})
	var out []Appearance
	for _, r := range v.Records() {
		ap := Appearance{Date: r.Date, Location: r.Location}
		if _, ok := seen[ap]; ok {
			continue
		}
		seen[ap] = struct{}{}
		out = append(out, ap)
		if len(out) == n {
			break
		}
	}
	return out
}
