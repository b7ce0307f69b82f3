package main

import (
	"fmt"
	"strings"
)

// parseFlags parses command arguments of the form
//
//	--client="John Dillinger" --amount=100 --description="phone bill"
//
// Values may be quoted (required when they contain spaces). Returns an
// error naming the first malformed token.
func parseFlags(args string) (map[string]string, error) {
	flags := make(map[string]string)
	rest := strings.TrimSpace(args)

	for rest != "" {
		if !strings.HasPrefix(rest, "--") {
			return nil, fmt.Errorf("expected --flag, got %q", firstToken(rest))
		}
		rest = rest[2:]

		eq := strings.IndexByte(rest, '=')
		if eq <= 0 {
			return nil, fmt.Errorf("flag %q is missing =value", "--"+firstToken(rest))
		}
		key := rest[:eq]
		rest = rest[eq+1:]

		var value string
		if strings.HasPrefix(rest, `"`) {
			end := strings.IndexByte(rest[1:], '"')
			if end < 0 {
				return nil, fmt.Errorf("flag %q has an unterminated quote", "--"+key)
			}
			value = rest[1 : end+1]
			rest = rest[end+2:]
		} else {
			cut := strings.IndexByte(rest, ' ')
			if cut < 0 {
				cut = len(rest)
			}
			value = rest[:cut]
			rest = rest[cut:]
		}

		flags[key] = value
		rest = strings.TrimSpace(rest)
	}

	return flags, nil
}

// requireFlags checks that exactly the expected flags were supplied.
func requireFlags(flags map[string]string, names ...string) error {
	for _, name := range names {
		if _, ok := flags[name]; !ok {
			return fmt.Errorf("missing --%s", name)
		}
	}
	if len(flags) != len(names) {
		for key := range flags {
			known := false
			for _, name := range names {
				if key == name {
					known = true
					break
				}
			}
			if !known {
				return fmt.Errorf("unknown flag --%s", key)
			}
		}
	}
	return nil
}

func firstToken(s string) string {
	if cut := strings.IndexByte(s, ' '); cut >= 0 {
		return s[:cut]
	}
	return s
}
