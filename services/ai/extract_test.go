package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain array", `[{"a":1}]`, `[{"a":1}]`},
		{"fenced json", "```json\n[1, 2]\n```", "[1, 2]"},
		{"bare fence", "```\n{\"x\": true}\n```", `{"x": true}`},
		{"prose around", `Sure! Here you go: {"ok": "a ] b"} hope that helps`, `{"ok": "a ] b"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractJSON(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestExtractJSON_NoJSON(t *testing.T) {
	_, err := ExtractJSON("I cannot help with that.")
	assert.True(t, errors.Is(err, ErrNoJSONFound))

	_, err = ExtractJSON("   ")
	assert.True(t, errors.Is(err, ErrNoJSONFound))
}

func TestExtractJSONTo(t *testing.T) {
	var items []PlanItem
	require.NoError(t, ExtractJSONTo("```json\n[{\"date\":\"2025-03-13\",\"subject\":\"Maths\",\"topic\":\"Limits\",\"duration\":1.5}]\n```", &items))
	require.Len(t, items, 1)
	assert.Equal(t, "Maths", items[0].Subject)
	assert.Equal(t, 1.5, items[0].Duration)
}
