package http

import (
	"sort"
	"strings"

	"github.com/wesleyorama2/loadfire/internal/data"
)

// Substitute replaces every ${name} token in template with row[name].
//
// Replacement is a single left-to-right pass: text produced by a replacement is
// never rescanned, so a value that itself looks like ${other} is emitted as-is.
// Tokens without a matching column are left verbatim. Keys are applied in sorted
// order, which makes the result deterministic when one token is a prefix of another.
func Substitute(template string, row data.Row) string {
	if len(row) == 0 || !strings.Contains(template, "${") {
		return template
	}

	keys := make([]string, 0, len(row))
	for k := range row {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, "${"+k+"}", row[k])
	}

	return strings.NewReplacer(pairs...).Replace(template)
}
