package highlight

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ansi = regexp.MustCompile(`\x1b\[[0-9;]*m`)

func TestIndent(t *testing.T) {
	assert.Equal(t, "[\n  {\n    \"name\": \"Canada\"\n  }\n]", Indent([]byte(` [{"name":"Canada"}] `)))
	assert.Equal(t, "<html>", Indent([]byte("<html>")))
}

func TestJSON_Colours(t *testing.T) {
	out := JSON([]byte(`[{"name":"Chile","code":"CL"}]`), DefaultStyle)

	assert.Contains(t, out, "\x1b[")
	assert.Equal(t, Indent([]byte(`[{"name":"Chile","code":"CL"}]`)), ansi.ReplaceAllString(out, ""))
}

func TestHighlight_UnknownNamesFallBack(t *testing.T) {
	out, err := Highlight(`{"a": 1}`, "no-such-language", "no-such-style")
	require.NoError(t, err)
	assert.Equal(t, `{"a": 1}`, ansi.ReplaceAllString(out, ""))
}
