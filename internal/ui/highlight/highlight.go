// Package highlight colours lookup payloads for terminal output.
package highlight

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// DefaultStyle matches the Nord palette used by the rest of the UI.
const DefaultStyle = "nord"

// Indent pretty-prints a JSON document. Invalid JSON is returned unchanged.
func Indent(src []byte) string {
	var buf bytes.Buffer
	if err := json.Indent(&buf, bytes.TrimSpace(src), "", "  "); err != nil {
		return string(src)
	}
	return buf.String()
}

// JSON returns src indented and coloured with 256-colour ANSI codes.
// On any highlighting failure the indented text is returned uncoloured.
func JSON(src []byte, style string) string {
	text := Indent(src)
	out, err := Highlight(text, "json", style)
	if err != nil {
		return text
	}
	return out
}

// Highlight tokenises text with the named lexer and formats it for a
// 256-colour terminal.
func Highlight(text, language, style string) (string, error) {
	lexer := lexers.Get(language)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	s := styles.Get(style)
	if s == nil {
		s = styles.Fallback
	}

	formatter := formatters.Get("terminal256")
	if formatter == nil {
		formatter = formatters.Fallback
	}

	it, err := lexer.Tokenise(nil, text)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	if err := formatter.Format(&b, s, it); err != nil {
		return "", err
	}
	return b.String(), nil
}
