package session

// Input is the bounded command surface the controller understands. The
// terminal layer maps raw key events onto it, which keeps this package
// free of screen dependencies and lets tests drive the controller
// directly.
type Input int

const (
	InputNone Input = iota
	InputQuit
	InputMenu
	InputEnter
	InputUp
	InputDown
	InputTogglePause
	InputStepLineBack
	InputStepLineFwd
	InputStepChangeBack
	InputStepChangeFwd
	InputHistoryPrev
	InputHistoryNext
)
