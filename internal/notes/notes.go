// Package notes holds the free-form session notes: a small rich-text
// subset and the editor font size.
package notes

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const (
	// DefaultFontSize is the editor font size in pixels.
	DefaultFontSize = 14
	MinFontSize     = 10
	MaxFontSize     = 32
	// FontStep is the increment used by the size buttons.
	FontStep = 2

	// MaxContentBytes bounds stored notes.
	MaxContentBytes = 256 << 10
)

// ErrTooLarge indicates notes content above MaxContentBytes.
var ErrTooLarge = errors.New("notes too large")

// Notes is the stored notes document.
type Notes struct {
	Content  string `json:"content"`
	FontSize int    `json:"fontSize"`
}

// Default returns empty notes at the default size.
func Default() Notes {
	return Notes{FontSize: DefaultFontSize}
}

// Normalize sanitizes the content and clamps the font size.
func Normalize(n Notes) (Notes, error) {
	if len(n.Content) > MaxContentBytes {
		return Notes{}, fmt.Errorf("%w: %d bytes", ErrTooLarge, len(n.Content))
	}
	return Notes{Content: Sanitize(n.Content), FontSize: ClampFontSize(n.FontSize)}, nil
}

// ClampFontSize bounds size to [MinFontSize, MaxFontSize]; zero means default.
func ClampFontSize(size int) int {
	if size == 0 {
		return DefaultFontSize
	}
	return min(max(size, MinFontSize), MaxFontSize)
}

// Grow returns the next larger font size.
func Grow(size int) int {
	return ClampFontSize(ClampFontSize(size) + FontStep)
}

// Shrink returns the next smaller font size.
func Shrink(size int) int {
	return ClampFontSize(ClampFontSize(size) - FontStep)
}

var allowed = map[atom.Atom]bool{
	atom.B:      true,
	atom.Strong: true,
	atom.I:      true,
	atom.Em:     true,
	atom.U:      true,
	atom.Br:     true,
	atom.P:      true,
	atom.Div:    true,
	atom.Span:   true,
}

// Elements whose content is dropped along with the tag.
var dropped = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Iframe:   true,
	atom.Object:   true,
	atom.Template: true,
	atom.Noscript: true,
	atom.Textarea: true,
	atom.Title:    true,
}

// Sanitize keeps only bold, italic, underline and line structure tags,
// strips every attribute, drops script-like elements with their content,
// re-escapes text and closes any tags left open.
func Sanitize(input string) string {
	var b strings.Builder
	var open []atom.Atom
	skip := 0

	z := html.NewTokenizer(strings.NewReader(input))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			// io.EOF or a read error; either way the input is exhausted.
			break
		}
		tok := z.Token()
		switch tt {
		case html.TextToken:
			if skip == 0 {
				b.WriteString(html.EscapeString(tok.Data))
			}
		case html.StartTagToken, html.SelfClosingTagToken:
			if dropped[tok.DataAtom] {
				if tt == html.StartTagToken {
					skip++
				}
				continue
			}
			if skip > 0 || !allowed[tok.DataAtom] {
				continue
			}
			if tok.DataAtom == atom.Br {
				b.WriteString("<br>")
				continue
			}
			b.WriteString("<" + tok.DataAtom.String() + ">")
			if tt == html.StartTagToken {
				open = append(open, tok.DataAtom)
			} else {
				b.WriteString("</" + tok.DataAtom.String() + ">")
			}
		case html.EndTagToken:
			if dropped[tok.DataAtom] {
				if skip > 0 {
					skip--
				}
				continue
			}
			if skip > 0 || !allowed[tok.DataAtom] || tok.DataAtom == atom.Br {
				continue
			}
			i := slices.Index(open, tok.DataAtom)
			for j := len(open) - 1; j >= i && i >= 0; j-- {
				b.WriteString("</" + open[j].String() + ">")
			}
			if i >= 0 {
				open = open[:i]
			}
		}
	}
	for j := len(open) - 1; j >= 0; j-- {
		b.WriteString("</" + open[j].String() + ">")
	}
	return b.String()
}

// PlainText returns the text content of sanitized notes, with line
// breaks for br, p and div boundaries.
func PlainText(content string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}
		tok := z.Token()
		switch tt {
		case html.TextToken:
			b.WriteString(tok.Data)
		case html.StartTagToken, html.SelfClosingTagToken:
			if tok.DataAtom == atom.Br {
				b.WriteString("\n")
			}
		case html.EndTagToken:
			if tok.DataAtom == atom.P || tok.DataAtom == atom.Div {
				b.WriteString("\n")
			}
		}
	}
	return strings.TrimSpace(b.String())
}
