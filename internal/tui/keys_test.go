package tui

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/ddaniel27/gitlogue/internal/session"
)

func TestMapKeyEvent(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		ch   rune
		want session.Input
	}{
		{key: tcell.KeyCtrlC, want: session.InputQuit},
		{key: tcell.KeyEscape, want: session.InputMenu},
		{key: tcell.KeyEnter, want: session.InputEnter},
		{key: tcell.KeyUp, want: session.InputUp},
		{key: tcell.KeyDown, want: session.InputDown},
		{key: tcell.KeyRune, ch: 'q', want: session.InputQuit},
		{key: tcell.KeyRune, ch: ' ', want: session.InputTogglePause},
		{key: tcell.KeyRune, ch: 'h', want: session.InputStepLineBack},
		{key: tcell.KeyRune, ch: 'l', want: session.InputStepLineFwd},
		{key: tcell.KeyRune, ch: 'H', want: session.InputStepChangeBack},
		{key: tcell.KeyRune, ch: 'L', want: session.InputStepChangeFwd},
		{key: tcell.KeyRune, ch: 'p', want: session.InputHistoryPrev},
		{key: tcell.KeyRune, ch: 'n', want: session.InputHistoryNext},
		{key: tcell.KeyRune, ch: 'k', want: session.InputUp},
		{key: tcell.KeyRune, ch: 'j', want: session.InputDown},
		{key: tcell.KeyRune, ch: 'x', want: session.InputNone},
		{key: tcell.KeyF1, want: session.InputNone},
	}
	for _, tc := range tests {
		ev := tcell.NewEventKey(tc.key, tc.ch, tcell.ModNone)
		if got := mapKeyEvent(ev); got != tc.want {
			t.Fatalf("key %v rune %q: want %v, got %v", tc.key, tc.ch, tc.want, got)
		}
	}
}
