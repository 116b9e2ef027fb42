package router

import (
	"strings"
	"unicode"
)

// ParseLegacy splits a prefixed message into a command name and its
// arguments. The name must follow the prefix directly ("! help" is not a
// command). Double quotes group an argument containing spaces.
func ParseLegacy(content, prefix string) (name string, args []string, ok bool) {
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false
	}
	rest := content[len(prefix):]
	if rest == "" || unicode.IsSpace([]rune(rest)[0]) {
		return "", nil, false
	}
	tokens := tokenize(rest)
	if len(tokens) == 0 {
		return "", nil, false
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return tokens[0], args, true
}

func tokenize(s string) []string {
	var (
		tokens  []string
		current strings.Builder
		quoted  bool
		started bool
	)
	flush := func() {
		if started {
			tokens = append(tokens, current.String())
		}
		current.Reset()
		started = false
	}
	for _, r := range s {
		switch {
		case r == '"':
			quoted = !quoted
			started = true
		case unicode.IsSpace(r) && !quoted:
			flush()
		default:
			current.WriteRune(r)
			started = true
		}
	}
	flush()
	return tokens
}
