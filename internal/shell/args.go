package shell

import "strings"

// Args holds parsed command flags. Long flags keep their value ("" for bare
// presence); bundled short flags are split into individual keys.
type Args map[string]string

// Has reports whether any of the given keys was supplied.
func (a Args) Has(keys ...string) bool {
	for _, k := range keys {
		if _, ok := a[k]; ok {
			return true
		}
	}
	return false
}

// Get returns the first non-empty value among the given keys.
func (a Args) Get(keys ...string) string {
	for _, k := range keys {
		if v, ok := a[k]; ok && v != "" {
			return v
		}
	}
	return ""
}

// ParseArgs splits raw tokens into flags and positionals. Recognized forms:
// --key=value, --key value, --flag, and bundled shorts (-abc sets a, b, c).
func ParseArgs(tokens []string) (Args, []string) {
	args := Args{}
	var positional []string

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]
		switch {
		case strings.HasPrefix(tok, "--"):
			body := tok[2:]
			if key, value, ok := strings.Cut(body, "="); ok {
				args[key] = value
			} else if i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
				args[body] = tokens[i+1]
				i++
			} else {
				args[body] = ""
			}
		case strings.HasPrefix(tok, "-") && len(tok) > 1:
			if len(tok) == 2 && i+1 < len(tokens) && !strings.HasPrefix(tokens[i+1], "-") {
				args[tok[1:]] = tokens[i+1]
				i++
			} else {
				for _, c := range tok[1:] {
					args[string(c)] = ""
				}
			}
		default:
			positional = append(positional, tok)
		}
	}
	return args, positional
}
