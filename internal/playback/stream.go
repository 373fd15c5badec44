package playback

import "time"

// interLinePause is the fixed breath taken between lines, on top of the
// per-character pacing.
const interLinePause = 120 * time.Millisecond

// Position is a reveal cursor: how much of a unit sequence has been typed.
// File == unit count marks the terminal "fully revealed" position.
type Position struct {
	File int
	Line int
	Char int
}

// Unit is one typed source: a changed file's diff lines, or the single
// header unit holding the commit summary.
type Unit struct {
	Path  string
	Lines []DiffLine
}

// TypingStream advances a reveal cursor over ordered units, consuming
// wall-clock time according to a SpeedRuleSet. Leftover time below the
// current interval is preserved across calls so pacing does not drift.
type TypingStream struct {
	units []Unit
	rules *SpeedRuleSet

	pos   Position
	accum time.Duration
}

func NewTypingStream(rules *SpeedRuleSet, units []Unit) *TypingStream {
	s := &TypingStream{units: units, rules: rules}
	s.pos = s.normalize(Position{})
	return s
}

// normalize skips empty units so the cursor always points at a real line
// or at the terminal position.
func (s *TypingStream) normalize(pos Position) Position {
	for pos.File < len(s.units) && pos.Line >= len(s.units[pos.File].Lines) {
		pos.File++
		pos.Line = 0
		pos.Char = 0
	}
	if pos.File >= len(s.units) {
		return s.terminal()
	}
	return pos
}

func (s *TypingStream) terminal() Position {
	return Position{File: len(s.units)}
}

func (s *TypingStream) Finished() bool {
	return s.pos.File >= len(s.units)
}

func (s *TypingStream) Pos() Position { return s.pos }

func (s *TypingStream) UnitCount() int { return len(s.units) }

func (s *TypingStream) Unit(i int) Unit {
	if i < 0 || i >= len(s.units) {
		return Unit{}
	}
	return s.units[i]
}

// Advance consumes elapsed wall-clock time and reveals as many characters
// as it pays for. Reports whether the cursor moved at all. At the terminal
// position it is a no-op.
func (s *TypingStream) Advance(elapsed time.Duration) bool {
	if s.Finished() {
		return false
	}
	s.accum += elapsed
	moved := false
	for !s.Finished() {
		line := s.units[s.pos.File].Lines[s.pos.Line]
		if s.pos.Char < len([]rune(line.Text)) {
			interval := s.rules.Resolve(line)
			if s.accum < interval {
				break
			}
			s.accum -= interval
			s.pos.Char++
			moved = true
			continue
		}
		if s.accum < interLinePause {
			break
		}
		s.accum -= interLinePause
		s.pos = s.nextLineStart()
		moved = true
	}
	if s.Finished() {
		s.accum = 0
	}
	return moved
}

// nextLineStart is the start of the line after the cursor, crossing unit
// boundaries, or the terminal position.
func (s *TypingStream) nextLineStart() Position {
	pos := s.pos
	pos.Line++
	pos.Char = 0
	return s.normalize(pos)
}

// nextUnitStart is the start of the unit after the cursor's, or the
// terminal position.
func (s *TypingStream) nextUnitStart() Position {
	pos := Position{File: s.pos.File + 1}
	return s.normalize(pos)
}

// JumpTo overwrites the cursor, discarding any accumulated time. Only
// positions previously observed on this stream are valid.
func (s *TypingStream) JumpTo(pos Position) {
	s.pos = pos
	s.accum = 0
}

// RevealedInUnit returns the lines of unit i revealed so far. The line
// under the cursor is truncated at the cursor's character.
func (s *TypingStream) RevealedInUnit(i int) []DiffLine {
	if i < 0 || i >= len(s.units) || i > s.pos.File {
		return nil
	}
	lines := s.units[i].Lines
	if i < s.pos.File {
		return append([]DiffLine(nil), lines...)
	}
	out := append([]DiffLine(nil), lines[:s.pos.Line]...)
	cur := lines[s.pos.Line]
	runes := []rune(cur.Text)
	if s.pos.Char < len(runes) {
		cur.Text = string(runes[:s.pos.Char])
	}
	return append(out, cur)
}

// CurrentText joins every revealed line across all units. Used by the
// header stream, whose single unit carries the commit summary.
func (s *TypingStream) CurrentText() string {
	var out []byte
	for i := range s.units {
		if i > s.pos.File {
			break
		}
		for j, line := range s.RevealedInUnit(i) {
			if i > 0 || j > 0 {
				out = append(out, '\n')
			}
			out = append(out, line.Text...)
		}
	}
	return string(out)
}
