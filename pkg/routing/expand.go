package routing

import (
	"io"
	"strings"

	"github.com/valyala/fasttemplate"
)

// Expand substitutes {name} placeholders in a query template with the
// captured parameter values. This is literal string substitution, not
// matching; placeholder names normalize the same way capture names do.
// Placeholders without a binding are kept verbatim.
func (p Params) Expand(template string) string {
	if !strings.Contains(template, "{") {
		return template
	}
	t, err := fasttemplate.NewTemplate(template, "{", "}")
	if err != nil {
		return template
	}
	return t.ExecuteFuncString(func(w io.Writer, tag string) (int, error) {
		if v, ok := p[NormalizeName(tag)]; ok {
			return w.Write([]byte(v))
		}
		return w.Write([]byte("{" + tag + "}"))
	})
}
