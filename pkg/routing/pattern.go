package routing

import (
	"fmt"
	"strings"
)

// Params holds the name→value bindings captured from one matched URL.
// It is request-scoped and discarded after the response is produced.
type Params map[string]string

// token is one node of a compiled URL template: a literal run of text,
// or a named capture slot when name is non-empty.
type token struct {
	literal string
	name    string
}

// Pattern is a URL template compiled at table-build time.
type Pattern struct {
	raw    string
	exact  bool
	tokens []token
	names  []string
}

// NormalizeName converts a placeholder name to its capture identifier.
// Dashes are not valid in identifiers, so they map to underscores.
func NormalizeName(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// Compile parses a URL template into a Pattern. Templates without
// placeholders compile to an exact-match pattern. A placeholder is
// written {name}; its normalized name must be unique within the
// template, otherwise Compile rejects it.
func Compile(template string) (*Pattern, error) {
	p := &Pattern{raw: template}

	if !strings.Contains(template, "{") {
		p.exact = true
		return p, nil
	}

	seen := make(map[string]bool)
	rest := template
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			if rest != "" {
				p.tokens = append(p.tokens, token{literal: rest})
			}
			break
		}
		close := strings.IndexByte(rest[open:], '}')
		if close < 0 {
			return nil, fmt.Errorf("unclosed placeholder in template %q", template)
		}
		close += open

		name := NormalizeName(rest[open+1 : close])
		if name == "" {
			return nil, fmt.Errorf("empty placeholder name in template %q", template)
		}
		if seen[name] {
			return nil, fmt.Errorf("duplicate placeholder %q in template %q", name, template)
		}
		seen[name] = true

		if open > 0 {
			p.tokens = append(p.tokens, token{literal: rest[:open]})
		}
		p.tokens = append(p.tokens, token{name: name})
		p.names = append(p.names, name)
		rest = rest[close+1:]
	}

	return p, nil
}

// Names returns the normalized capture names in template order.
func (p *Pattern) Names() []string {
	return p.names
}

// String returns the original template.
func (p *Pattern) String() string {
	return p.raw
}

// Match attempts a full match of url against the pattern. On success it
// returns the captured parameters; exact patterns return an empty map.
func (p *Pattern) Match(url string) (Params, bool) {
	if p.exact {
		if url == p.raw {
			return Params{}, true
		}
		return nil, false
	}

	params := make(Params, len(p.names))
	if !matchTokens(p.tokens, url, params) {
		return nil, false
	}
	return params, true
}

// matchTokens matches the token sequence against s. Capture slots consume
// one or more characters excluding '/' and '&', greedily, backtracking
// when a later literal fails to line up.
func matchTokens(tokens []token, s string, params Params) bool {
	if len(tokens) == 0 {
		return s == ""
	}

	tok := tokens[0]
	if tok.name == "" {
		if !strings.HasPrefix(s, tok.literal) {
			return false
		}
		return matchTokens(tokens[1:], s[len(tok.literal):], params)
	}

	for n := captureSpan(s); n >= 1; n-- {
		if matchTokens(tokens[1:], s[n:], params) {
			params[tok.name] = s[:n]
			return true
		}
	}
	return false
}

// captureSpan returns the length of the longest prefix of s a capture
// slot may consume.
func captureSpan(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '/' || s[i] == '&' {
			return i
		}
	}
	return len(s)
}
