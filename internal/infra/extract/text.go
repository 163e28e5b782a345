// Package extract decodes uploaded documents into plain text for scoring.
package extract

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// PlainText decodes raw upload bytes. A UTF-16 BOM switches the decoder,
// otherwise the bytes are read as UTF-8 and invalid sequences become U+FFFD.
// Nothing else is rewritten: line endings, NULs and combining marks reach
// the scorer as uploaded.
type PlainText struct{}

func NewPlainText() PlainText { return PlainText{} }

func (PlainText) Extract(data []byte) (string, error) {
	if len(data) == 0 {
		return "", nil
	}
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	out, _, err := transform.Bytes(dec, data)
	if err != nil {
		return "", fmt.Errorf("decode upload: %w", err)
	}

	text := string(out)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "\ufffd")
	}
	return text, nil
}
