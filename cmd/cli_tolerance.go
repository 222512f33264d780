package cmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tayloree/dinecli/internal/filter"
)

type flagSpec struct {
	name          string
	requiresValue bool
}

var knownFlags = map[string]flagSpec{
	"date":      {name: "date", requiresValue: true},
	"meal":      {name: "meal", requiresValue: true},
	"location":  {name: "location", requiresValue: true},
	"limit":     {name: "limit", requiresValue: true},
	"threshold": {name: "threshold", requiresValue: true},
	"exact":     {name: "exact", requiresValue: false},
	"sort":      {name: "sort", requiresValue: true},
	"data":      {name: "data", requiresValue: true},
	"feed":      {name: "feed", requiresValue: true},
	"from":      {name: "from", requiresValue: true},
	"to":        {name: "to", requiresValue: true},
	"json":      {name: "json", requiresValue: false},
	"verbose":   {name: "verbose", requiresValue: false},
	"help":      {name: "help", requiresValue: false},
}

var knownCommands = []string{
	"search",
	"stations",
	"menu",
	"compare",
	"ingest",
	"tui",
	"completion",
	"help",
}

var flagAliases = map[string]string{
	"day":      "date",
	"when":     "date",
	"period":   "meal",
	"hall":     "location",
	"loc":      "location",
	"max":      "limit",
	"rarity":   "threshold",
	"snapshot": "data",
	"file":     "data",
	"feed-url": "feed",
	"start":    "from",
	"end":      "to",
	"until":    "to",
	"order":    "sort",
}

func normalizeCLIArgs(args []string) ([]string, []string) {
	out := make([]string, 0, len(args))
	notes := make([]string, 0, 2)
	commandChosen := false
	activeCommand := ""
	nestedCommandAllowed := false
	nestedCommandChosen := false
	allowBareFlagRewrite := true
	expectingValue := false
	afterDoubleDash := false

	for i, tok := range args {
		if afterDoubleDash {
			out = append(out, tok)
			continue
		}

		if expectingValue {
			out = append(out, tok)
			expectingValue = false
			continue
		}

		if tok == "--" {
			out = append(out, tok)
			afterDoubleDash = true
			continue
		}

		canBeCommand := !commandChosen || (nestedCommandAllowed && !nestedCommandChosen)
		normalized, note, isFlag, needsValue, isCommand := normalizeToken(tok, canBeCommand, allowBareFlagRewrite)
		if note != "" {
			notes = append(notes, note)
		}
		out = append(out, normalized)

		if isCommand {
			if !commandChosen {
				commandChosen = true
				activeCommand = normalized
				allowBareFlagRewrite = bareFlagRewriteAllowed(activeCommand)
				nestedCommandAllowed = allowsNestedCommandArg(activeCommand)
				continue
			}
			if nestedCommandAllowed && !nestedCommandChosen {
				nestedCommandChosen = true
			}
		}
		if isFlag && needsValue && !strings.Contains(normalized, "=") && i < len(args)-1 {
			expectingValue = true
		}
	}

	return out, notes
}

// rewrittenFlag is the outcome of canonicalizing one flag-like token.
type rewrittenFlag struct {
	token      string
	note       string
	needsValue bool
}

func rewriteNote(from, to string) string {
	if from == to {
		return ""
	}
	return fmt.Sprintf("interpreted `%s` as `%s`; use `%s` next time.", from, to, to)
}

// canonicalFlag resolves the flag name in body (without dashes, possibly
// carrying "=value") and reports the long-form token it stands for.
func canonicalFlag(tok, body string) (rewrittenFlag, bool) {
	name, rest := splitFlag(body)
	canonical, ok := resolveFlagName(name)
	if !ok {
		return rewrittenFlag{}, false
	}
	newTok := "--" + canonical + rest
	return rewrittenFlag{
		token:      newTok,
		note:       rewriteNote(tok, newTok),
		needsValue: knownFlags[canonical].requiresValue,
	}, true
}

func normalizeToken(tok string, canBeCommand bool, allowBareFlagRewrite bool) (normalized, note string, isFlag, needsValue, isCommand bool) {
	dashed := strings.HasPrefix(tok, "-")

	switch {
	case tok == "--":
		return tok, "", false, false, false
	case strings.HasPrefix(tok, "--"), dashed && len(tok) > 2:
		// Long flags and single-dash long flags such as -date.
		if f, ok := canonicalFlag(tok, strings.TrimLeft(tok, "-")); ok {
			return f.token, f.note, true, f.needsValue, false
		}
		return tok, "", true, false, false
	case dashed:
		return tok, "", false, false, false
	}

	// Bare key=value, e.g. meal=dinner.
	if strings.Contains(tok, "=") {
		if f, ok := canonicalFlag(tok, tok); ok {
			return f.token, f.note, true, f.needsValue, false
		}
	}

	if canBeCommand {
		if corrected, ok := resolveCommand(tok); ok {
			if corrected != tok {
				return corrected, fmt.Sprintf("interpreted command `%s` as `%s`; use `%s` next time.", tok, corrected, corrected), false, false, true
			}
			return tok, "", false, false, true
		}
	}

	if allowBareFlagRewrite {
		if canonical, ok := resolveFlagName(tok); ok {
			newTok := "--" + canonical
			return newTok, rewriteNote(tok, newTok), true, knownFlags[canonical].requiresValue, false
		}
	}

	return tok, "", false, false, false
}

func bareFlagRewriteAllowed(command string) bool {
	// Flag-only commands, where rewriting bare tokens like `meal` -> `--meal`
	// is helpful. `search` takes a free-text query and is left alone.
	switch command {
	case "stations", "menu", "compare", "ingest":
		return true
	default:
		return false
	}
}

func allowsNestedCommandArg(command string) bool {
	// These commands accept another command token as a positional argument.
	switch command {
	case "help", "completion":
		return true
	default:
		return false
	}
}

func resolveFlagName(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.ReplaceAll(name, "_", "-")

	if canonical, ok := flagAliases[name]; ok {
		return canonical, true
	}
	if _, ok := knownFlags[name]; ok {
		return name, true
	}

	// Short tokens are usually flag values, never guess for them.
	if len(name) < 3 {
		return "", false
	}
	if suggestion, ok := closestMatch(name, fuzzyFlagCandidates(), 2); ok {
		return suggestion, true
	}
	return "", false
}

// fuzzyFlagCandidates lists flag names long enough to be typo targets, in a
// stable order so ties resolve the same way every run.
func fuzzyFlagCandidates() []string {
	names := mapKeys(knownFlags)
	names = slices.DeleteFunc(names, func(n string) bool { return len(n) < 4 })
	slices.Sort(names)
	return names
}

func resolveCommand(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	for _, cmd := range knownCommands {
		if name == cmd {
			return cmd, true
		}
	}
	// A bare flag name such as `meal` is a flag, not a typo of `menu`.
	if _, ok := knownFlags[name]; ok {
		return "", false
	}
	if _, ok := flagAliases[name]; ok {
		return "", false
	}
	if suggestion, ok := closestMatch(name, knownCommands, 2); ok {
		return suggestion, true
	}
	return "", false
}

func explainCLIError(err error) string {
	return formatCLIErrorText(classifyCLIError(err))
}

func splitFlag(value string) (string, string) {
	parts := strings.SplitN(value, "=", 2)
	if len(parts) == 2 {
		return parts[0], "=" + parts[1]
	}
	return value, ""
}

func extractUnknownValue(msg, marker string) string {
	idx := strings.Index(msg, marker)
	if idx == -1 {
		return ""
	}

	remaining := strings.TrimSpace(msg[idx+len(marker):])
	remaining = strings.TrimPrefix(remaining, ":")
	remaining = strings.TrimSpace(remaining)

	if strings.HasPrefix(remaining, "\"") {
		remaining = strings.TrimPrefix(remaining, "\"")
		end := strings.Index(remaining, "\"")
		if end >= 0 {
			return remaining[:end]
		}
	}

	if strings.HasPrefix(remaining, "`") {
		remaining = strings.TrimPrefix(remaining, "`")
		end := strings.Index(remaining, "`")
		if end >= 0 {
			return remaining[:end]
		}
	}

	if fields := strings.Fields(remaining); len(fields) > 0 {
		return strings.Trim(fields[0], "\"`")
	}
	return ""
}

func mapKeys[K comparable, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	return keys
}

func closestMatch(target string, candidates []string, maxDistance int) (string, bool) {
	best := ""
	bestDist := maxDistance + 1

	for _, candidate := range candidates {
		d := filter.Distance(target, candidate)
		if d < bestDist {
			bestDist = d
			best = candidate
		}
	}

	if bestDist <= maxDistance {
		return best, true
	}
	return "", false
}
