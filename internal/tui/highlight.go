package tui

import (
	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/gdamore/tcell/v2"
)

// span is a run of characters sharing one foreground color.
type span struct {
	text  string
	color tcell.Color
	set   bool
}

// highlighter lexes revealed code lines with the lexer matching the
// file's path. Lexers are cached per path since the editor re-renders the
// same file every frame.
type highlighter struct {
	enabled bool
	style   *chroma.Style
	cache   map[string]chroma.Lexer
}

func newHighlighter(enabled bool, styleName string) *highlighter {
	style := styles.Get(styleName)
	if style == nil {
		style = styles.Fallback
	}
	return &highlighter{
		enabled: enabled,
		style:   style,
		cache:   make(map[string]chroma.Lexer),
	}
}

func (h *highlighter) lexerFor(path string) chroma.Lexer {
	if lexer, ok := h.cache[path]; ok {
		return lexer
	}
	lexer := lexers.Match(path)
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)
	h.cache[path] = lexer
	return lexer
}

// spans splits one code line into colored runs. Disabled or failed lexing
// yields a single unstyled span.
func (h *highlighter) spans(path, code string) []span {
	if !h.enabled || code == "" {
		return []span{{text: code}}
	}
	iterator, err := h.lexerFor(path).Tokenise(nil, code)
	if err != nil {
		return []span{{text: code}}
	}
	var out []span
	for _, token := range iterator.Tokens() {
		if token.Value == "" {
			continue
		}
		sp := span{text: token.Value}
		if entry := h.style.Get(token.Type); entry.Colour.IsSet() {
			c := entry.Colour
			sp.color = tcell.NewRGBColor(int32(c.Red()), int32(c.Green()), int32(c.Blue()))
			sp.set = true
		}
		out = append(out, sp)
	}
	if len(out) == 0 {
		return []span{{text: code}}
	}
	return out
}
