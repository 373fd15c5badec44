package tui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/ddaniel27/gitlogue/internal/session"
)

// mapKeyEvent translates a raw key event into the controller's command
// surface. Unknown keys map to InputNone and are ignored.
func mapKeyEvent(ev *tcell.EventKey) session.Input {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return session.InputQuit
	case tcell.KeyEscape:
		return session.InputMenu
	case tcell.KeyEnter:
		return session.InputEnter
	case tcell.KeyUp:
		return session.InputUp
	case tcell.KeyDown:
		return session.InputDown
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return session.InputQuit
		case ' ':
			return session.InputTogglePause
		case 'h':
			return session.InputStepLineBack
		case 'l':
			return session.InputStepLineFwd
		case 'H':
			return session.InputStepChangeBack
		case 'L':
			return session.InputStepChangeFwd
		case 'p':
			return session.InputHistoryPrev
		case 'n':
			return session.InputHistoryNext
		case 'k':
			return session.InputUp
		case 'j':
			return session.InputDown
		}
	}
	return session.InputNone
}
