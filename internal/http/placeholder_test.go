package http

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wesleyorama2/loadfire/internal/data"
)

func TestSubstitute(t *testing.T) {
	tests := []struct {
		name     string
		template string
		row      data.Row
		expected string
	}{
		{
			name:     "all tokens matched",
			template: "Hello ${name}, id=${id}",
			row:      data.Row{"name": "Ann", "id": "7"},
			expected: "Hello Ann, id=7",
		},
		{
			name:     "repeated token",
			template: "${x}-${x}-${x}",
			row:      data.Row{"x": "1"},
			expected: "1-1-1",
		},
		{
			name:     "unmatched token left verbatim",
			template: `{"user": "${user}", "org": "${org}"}`,
			row:      data.Row{"user": "bob"},
			expected: `{"user": "bob", "org": "${org}"}`,
		},
		{
			name:     "replacement is not rescanned",
			template: "${a} ${b}",
			row:      data.Row{"a": "${b}", "b": "B"},
			expected: "${b} B",
		},
		{
			name:     "bare name without braces untouched",
			template: "$name {name} ${name",
			row:      data.Row{"name": "Ann"},
			expected: "$name {name} ${name",
		},
		{
			name:     "empty value",
			template: "[${v}]",
			row:      data.Row{"v": ""},
			expected: "[]",
		},
		{
			name:     "nil row",
			template: "Hello ${name}",
			row:      nil,
			expected: "Hello ${name}",
		},
		{
			name:     "empty template",
			template: "",
			row:      data.Row{"name": "Ann"},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Substitute(tt.template, tt.row))
		})
	}
}

func TestSubstitute_NoTokensIsIdentity(t *testing.T) {
	templates := []string{
		"",
		"plain text",
		`{"json": true, "n": 1}`,
		"dollar $ and braces {} but no token",
	}
	rows := []data.Row{
		nil,
		{},
		{"name": "Ann"},
		{"json": "false", "n": "2", "": "empty-key"},
	}

	for _, tmpl := range templates {
		for _, row := range rows {
			assert.Equal(t, tmpl, Substitute(tmpl, row))
		}
	}
}

func TestSubstitute_Deterministic(t *testing.T) {
	row := data.Row{"a": "1", "b": "2", "c": "3", "d": "4", "e": "5"}
	first := Substitute("${e}${d}${c}${b}${a}", row)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, Substitute("${e}${d}${c}${b}${a}", row))
	}
	assert.Equal(t, "54321", first)
}
