package playback

import (
	"strings"
	"time"
)

// Granularity selects how far a manual step moves the body cursor.
type Granularity int

const (
	StepLine Granularity = iota
	StepChange
)

func (g Granularity) String() string {
	if g == StepChange {
		return "change"
	}
	return "line"
}

// Engine replays one commit: the summary types into the header stream
// first, then the diff body. Manual steps record checkpoints so each one
// can be undone exactly, without re-deriving positions from the diff.
type Engine struct {
	rules *SpeedRuleSet
	meta  *Commit

	header *TypingStream
	body   *TypingStream

	lineMarks   []Position
	changeMarks []Position

	paused   bool
	lastTick time.Time

	viewportHeight int
	contentWidth   int
}

func NewEngine(rules *SpeedRuleSet) *Engine {
	e := &Engine{rules: rules}
	e.Load(&Commit{})
	return e
}

// Load replaces the replayed commit. Both streams rewind, checkpoint
// stacks empty, and the pause flag clears.
func (e *Engine) Load(meta *Commit) {
	if meta == nil {
		meta = &Commit{}
	}
	e.meta = meta

	var header []Unit
	if meta.Summary != "" {
		var lines []DiffLine
		for _, text := range strings.Split(meta.Summary, "\n") {
			lines = append(lines, DiffLine{Kind: KindContext, Text: text})
		}
		header = []Unit{{Lines: lines}}
	}
	units := make([]Unit, 0, len(meta.Files))
	for _, file := range meta.Files {
		units = append(units, Unit{Path: file.Path, Lines: file.Lines})
	}
	e.header = NewTypingStream(e.rules, header)
	e.body = NewTypingStream(e.rules, units)
	e.lineMarks = nil
	e.changeMarks = nil
	e.paused = false
	e.lastTick = time.Time{}
}

// Tick advances the active stream by the wall-clock time since the
// previous tick and reports whether anything visible changed. The header
// completes before the body starts. While paused, time still passes but
// is not replayed on resume.
func (e *Engine) Tick(now time.Time) bool {
	if e.lastTick.IsZero() {
		e.lastTick = now
		return false
	}
	elapsed := now.Sub(e.lastTick)
	e.lastTick = now
	if e.paused || elapsed <= 0 {
		return false
	}
	if !e.header.Finished() {
		moved := e.header.Advance(elapsed)
		if e.header.Finished() {
			// Header-to-body transition needs a redraw even when the
			// last advance revealed nothing new.
			return true
		}
		return moved
	}
	return e.body.Advance(elapsed)
}

func (e *Engine) Pause()  { e.paused = true }
func (e *Engine) Resume() { e.paused = false }

func (e *Engine) Paused() bool { return e.paused }

// ManualStep force-advances the body to the next line or change start,
// bypassing timing, after recording the current cursor so the step can be
// undone. Returns false at the terminal position.
func (e *Engine) ManualStep(g Granularity) bool {
	if e.body.Finished() {
		return false
	}
	pre := e.body.Pos()
	var target Position
	switch g {
	case StepChange:
		target = e.body.nextUnitStart()
		e.changeMarks = append(e.changeMarks, pre)
	default:
		target = e.body.nextLineStart()
		e.lineMarks = append(e.lineMarks, pre)
	}
	e.body.JumpTo(target)
	return true
}

// RestoreLineCheckpoint undoes the most recent line step. An empty stack
// is a no-op, not an error.
func (e *Engine) RestoreLineCheckpoint() bool {
	n := len(e.lineMarks)
	if n == 0 {
		return false
	}
	e.body.JumpTo(e.lineMarks[n-1])
	e.lineMarks = e.lineMarks[:n-1]
	return true
}

// RestoreChangeCheckpoint undoes the most recent change step.
func (e *Engine) RestoreChangeCheckpoint() bool {
	n := len(e.changeMarks)
	if n == 0 {
		return false
	}
	e.body.JumpTo(e.changeMarks[n-1])
	e.changeMarks = e.changeMarks[:n-1]
	return true
}

// Finished reports whether the body stream sits at its terminal position.
func (e *Engine) Finished() bool {
	return e.body.Finished()
}

func (e *Engine) HeaderFinished() bool {
	return e.header.Finished()
}

func (e *Engine) Metadata() *Commit { return e.meta }

// CurrentFileIndex is the file under the body cursor, clamped to the last
// file once everything is revealed.
func (e *Engine) CurrentFileIndex() int {
	if len(e.meta.Files) == 0 {
		return 0
	}
	idx := e.body.Pos().File
	if idx >= len(e.meta.Files) {
		idx = len(e.meta.Files) - 1
	}
	return idx
}

func (e *Engine) BodyPos() Position { return e.body.Pos() }

// RevealedFile returns the revealed lines of file i for the renderer.
func (e *Engine) RevealedFile(i int) []DiffLine {
	return e.body.RevealedInUnit(i)
}

// HeaderText is the revealed prefix of the commit summary.
func (e *Engine) HeaderText() string {
	return e.header.CurrentText()
}

// Viewport metrics are recomputed every frame from the terminal size and
// feed the renderer's scroll clipping only, never the reveal pacing.
func (e *Engine) SetViewportHeight(h int) { e.viewportHeight = h }
func (e *Engine) SetContentWidth(w int)   { e.contentWidth = w }

func (e *Engine) ViewportHeight() int { return e.viewportHeight }
func (e *Engine) ContentWidth() int   { return e.contentWidth }
