package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/tayloree/dinecli/internal/filter"
	"github.com/tayloree/dinecli/internal/when"
	"golang.org/x/term"
)

const (
	// ExitSuccess is returned when the command succeeds.
	ExitSuccess = 0
	// ExitNotFound is returned when the requested snapshot or item is not available.
	ExitNotFound = 1
	// ExitInvalidArgs is returned when the command input is invalid.
	ExitInvalidArgs = 2
	// ExitUpstream is returned when an external dependency fails.
	ExitUpstream = 3
	// ExitInternal is returned for unexpected internal failures.
	ExitInternal = 4
)

type cliError struct {
	Code        string
	Message     string
	Suggestions []string
	ExitCode    int
}

func (e *cliError) Error() string {
	if e == nil {
		return ""
	}
	return e.Message
}

// Error codes shared by text and JSON output.
const (
	codeInvalidArgs = "INVALID_ARGS"
	codeNotFound    = "NOT_FOUND"
	codeUpstream    = "UPSTREAM_ERROR"
	codeData        = "DATA_ERROR"
	codeInternal    = "INTERNAL_ERROR"
)

const (
	retrySuggestion    = "Retry in a moment."
	reingestSuggestion = "Re-run `dinecli ingest` to rebuild the snapshot."
)

func newCLIError(code string, exitCode int, message string, suggestions ...string) *cliError {
	return &cliError{Code: code, Message: message, Suggestions: suggestions, ExitCode: exitCode}
}

func invalidArgsError(message string, suggestions ...string) error {
	return newCLIError(codeInvalidArgs, ExitInvalidArgs, message, suggestions...)
}

func notFoundError(message string, suggestions ...string) error {
	return newCLIError(codeNotFound, ExitNotFound, message, suggestions...)
}

func upstreamError(action string, err error) error {
	return newCLIError(codeUpstream, ExitUpstream, fmt.Sprintf("%s: %v", action, err), retrySuggestion)
}

func dataError(err error) error {
	return newCLIError(codeData, ExitInternal, err.Error(), reingestSuggestion)
}

// tokenFlags maps an InvalidTokenError kind to the flag accepting it and the
// values that flag takes.
var tokenFlags = map[string]struct {
	flag   string
	values []string
}{
	"date": {flag: "date", values: when.DateTokens},
	"time": {flag: "meal", values: []string{"lunch", "dinner", "both"}},
}

// domainError maps query errors onto the CLI taxonomy.
func domainError(err error) error {
	var tokErr *when.InvalidTokenError
	switch {
	case errors.As(err, &tokErr):
		tf, ok := tokenFlags[tokErr.Kind]
		if !ok {
			return invalidArgsError(err.Error())
		}
		suggestions := make([]string, 0, len(tf.values))
		for _, v := range tf.values {
			suggestions = append(suggestions, fmt.Sprintf("dinecli --%s %s", tf.flag, v))
		}
		return invalidArgsError(err.Error(), suggestions...)
	case errors.Is(err, filter.ErrNoSuchItem):
		return notFoundError(err.Error(), "Drop --exact to match by similarity.")
	default:
		return err
	}
}

type jsonErrorPayload struct {
	Error jsonErrorBody `json:"error"`
}

type jsonErrorBody struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
	ExitCode    int      `json:"exitCode"`
}

func printCLIErrorJSON(w io.Writer, err *cliError) error {
	if err == nil {
		return nil
	}
	payload := jsonErrorPayload{
		Error: jsonErrorBody{
			Code:        err.Code,
			Message:     err.Message,
			Suggestions: err.Suggestions,
			ExitCode:    err.ExitCode,
		},
	}
	return json.NewEncoder(w).Encode(payload)
}

func formatCLIErrorText(err *cliError) string {
	if err == nil {
		return ""
	}

	lines := []string{
		fmt.Sprintf("error[%s]: %s", strings.ToLower(err.Code), err.Message),
	}
	if len(err.Suggestions) > 0 {
		lines = append(lines, "suggestions:")
		for _, suggestion := range err.Suggestions {
			lines = append(lines, "  "+suggestion)
		}
	}
	return strings.Join(lines, "\n")
}

// errorRule classifies an untyped error by substrings of its message.
type errorRule struct {
	code        string
	exitCode    int
	markers     []string
	suggestions func(msg string) []string
}

func (r errorRule) matches(lowerMsg string) bool {
	for _, m := range r.markers {
		if strings.Contains(lowerMsg, m) {
			return true
		}
	}
	return false
}

func fixedSuggestions(s ...string) func(string) []string {
	return func(string) []string { return s }
}

// errorRules is evaluated in order; the first match wins.
var errorRules = []errorRule{
	{
		code:        codeInvalidArgs,
		exitCode:    ExitInvalidArgs,
		markers:     []string{"unknown command"},
		suggestions: unknownCommandSuggestions,
	},
	{
		code:        codeInvalidArgs,
		exitCode:    ExitInvalidArgs,
		markers:     []string{"unknown flag", "unknown shorthand flag"},
		suggestions: unknownFlagSuggestions,
	},
	{
		code:     codeInvalidArgs,
		exitCode: ExitInvalidArgs,
		markers: []string{
			"requires an argument for flag",
			"flag needs an argument",
			"required flag(s)",
			"accepts 1 arg(s)",
			"requires at least 1 arg(s)",
			"invalid argument",
			"invalid date",
			"invalid time",
		},
		suggestions: fixedSuggestions("dinecli --date today", "dinecli search \"gumbo\""),
	},
	{
		code:        codeNotFound,
		exitCode:    ExitNotFound,
		markers:     []string{"no such item", "no menu snapshot", "no records"},
		suggestions: fixedSuggestions(),
	},
	{
		code:     codeUpstream,
		exitCode: ExitUpstream,
		markers: []string{
			"unexpected status",
			"executing request",
			"decoding response",
			"fetching records",
		},
		suggestions: fixedSuggestions(retrySuggestion),
	},
	{
		code:        codeData,
		exitCode:    ExitInternal,
		markers:     []string{"malformed record"},
		suggestions: fixedSuggestions(reingestSuggestion),
	},
}

func unknownCommandSuggestions(msg string) []string {
	suggestions := []string{
		"dinecli search \"chicken florentine\"",
		"dinecli stations",
	}
	if bad := extractUnknownValue(msg, "unknown command"); bad != "" {
		if suggestion, ok := closestMatch(strings.ToLower(bad), knownCommands, 2); ok {
			suggestions = append([]string{fmt.Sprintf("Did you mean `%s`?", suggestion)}, suggestions...)
		}
	}
	return suggestions
}

func unknownFlagSuggestions(msg string) []string {
	suggestions := []string{
		"dinecli --date tomorrow",
		"dinecli --meal dinner --location Chase",
	}
	if bad := extractUnknownValue(msg, "unknown flag"); bad != "" {
		if suggestion, ok := resolveFlagName(strings.TrimLeft(bad, "-")); ok {
			suggestions = append([]string{fmt.Sprintf("Try `--%s`.", suggestion)}, suggestions...)
		}
	}
	return suggestions
}

func classifyCLIError(err error) *cliError {
	if err == nil {
		return nil
	}

	var typed *cliError
	if errors.As(err, &typed) {
		return typed
	}

	msg := strings.TrimSpace(err.Error())
	lowerMsg := strings.ToLower(msg)
	for _, rule := range errorRules {
		if rule.matches(lowerMsg) {
			return newCLIError(rule.code, rule.exitCode, msg, rule.suggestions(msg)...)
		}
	}
	return newCLIError(codeInternal, ExitInternal, msg, "Run `dinecli --help` for usage details.")
}

func isTTY(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

func hasJSONPreference(args []string) bool {
	for _, arg := range args {
		if arg == "--json" || strings.HasPrefix(arg, "--json=") {
			return true
		}
	}
	return false
}

func hasHelpRequest(args []string) bool {
	for _, arg := range args {
		if arg == "-h" || arg == "--help" {
			return true
		}
	}
	return false
}

func shouldAutoJSON(args []string, stdoutIsTTY bool) bool {
	if stdoutIsTTY || len(args) == 0 {
		return false
	}
	if hasJSONPreference(args) || hasHelpRequest(args) {
		return false
	}
	switch firstCommand(args) {
	case "completion", "help":
		return false
	default:
		return true
	}
}

// knownShorthands maps single-character shorthands to whether they require a value.
var knownShorthands = map[byte]bool{
	'd': true, // --date
	'm': true, // --meal
	'l': true, // --location
	'n': true, // --limit
	'v': false,
	'x': false,
}

func firstCommand(args []string) string {
	expectingValue := false
	for _, arg := range args {
		if expectingValue {
			expectingValue = false
			continue
		}
		if arg == "--" {
			break
		}
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
		if strings.HasPrefix(arg, "--") {
			name, rest := splitFlag(strings.TrimPrefix(arg, "--"))
			if spec, ok := knownFlags[name]; ok && spec.requiresValue && rest == "" {
				expectingValue = true
			}
		} else if len(arg) == 2 && arg[0] == '-' {
			// Single-char shorthand like -d, -m, -n
			if needsVal, ok := knownShorthands[arg[1]]; ok && needsVal {
				expectingValue = true
			}
		}
	}
	return ""
}

type quickStartJSON struct {
	Name     string   `json:"name"`
	Usage    string   `json:"usage"`
	Examples []string `json:"examples"`
}

func printQuickStart(w io.Writer, asJSON bool) error {
	help := quickStartJSON{
		Name:  "dinecli",
		Usage: "dinecli [flags] | [search|menu|stations|compare|ingest|tui] [flags]",
		Examples: []string{
			"dinecli --date tomorrow --meal lunch",
			"dinecli search \"chicken florentine\"",
			"dinecli compare --meal dinner",
		},
	}

	if asJSON {
		return json.NewEncoder(w).Encode(help)
	}

	_, err := fmt.Fprintf(
		w,
		"%s\nusage: %s\nexamples:\n  %s\n  %s\n  %s\nflags: --date --meal --location --limit --threshold --exact --sort --data --json --verbose\n",
		help.Name,
		help.Usage,
		help.Examples[0],
		help.Examples[1],
		help.Examples[2],
	)
	return err
}
