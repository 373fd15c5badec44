package playback

import (
	"testing"
	"time"
)

func fixedRules(interval time.Duration) *SpeedRuleSet {
	return NewSpeedRuleSet(interval, nil)
}

func TestStreamAdvanceRevealsCharacters(t *testing.T) {
	s := NewTypingStream(fixedRules(10*time.Millisecond), []Unit{
		{Path: "a.go", Lines: []DiffLine{{Kind: KindAdded, Text: "abc"}}},
	})
	if s.Advance(9 * time.Millisecond) {
		t.Fatalf("9ms should not pay for a 10ms character")
	}
	if !s.Advance(1 * time.Millisecond) {
		t.Fatalf("leftover time must carry over between calls")
	}
	if got := s.Pos(); got != (Position{File: 0, Line: 0, Char: 1}) {
		t.Fatalf("want char 1, got %+v", got)
	}
	// 25ms pays for two more characters and leaves 5ms over.
	if !s.Advance(25 * time.Millisecond) {
		t.Fatalf("25ms should reveal two characters")
	}
	if got := s.Pos().Char; got != 3 {
		t.Fatalf("want char 3, got %d", got)
	}
}

func TestStreamInterLinePause(t *testing.T) {
	s := NewTypingStream(fixedRules(10*time.Millisecond), []Unit{
		{Path: "a.go", Lines: []DiffLine{
			{Kind: KindAdded, Text: "x"},
			{Kind: KindAdded, Text: "y"},
		}},
	})
	if !s.Advance(10 * time.Millisecond) {
		t.Fatalf("first character should reveal")
	}
	// End of line: the fixed pause applies before line 1 starts.
	if s.Advance(interLinePause - time.Millisecond) {
		t.Fatalf("line break should wait for the full inter-line pause")
	}
	if !s.Advance(time.Millisecond) {
		t.Fatalf("pause elapsed, cursor should move to line 1")
	}
	if got := s.Pos(); got != (Position{File: 0, Line: 1, Char: 0}) {
		t.Fatalf("want start of line 1, got %+v", got)
	}
}

func TestStreamTerminalIsNoOp(t *testing.T) {
	s := NewTypingStream(fixedRules(time.Millisecond), []Unit{
		{Path: "a.go", Lines: []DiffLine{{Kind: KindAdded, Text: "ab"}}},
	})
	s.Advance(time.Hour)
	if !s.Finished() {
		t.Fatalf("an hour should exhaust two characters")
	}
	if s.Advance(time.Hour) {
		t.Fatalf("advance past terminal must be a no-op")
	}
	if got, want := s.Pos(), s.terminal(); got != want {
		t.Fatalf("terminal position: want %+v, got %+v", want, got)
	}
}

func TestStreamSkipsEmptyUnits(t *testing.T) {
	s := NewTypingStream(fixedRules(time.Millisecond), []Unit{
		{Path: "empty.go"},
		{Path: "b.go", Lines: []DiffLine{{Kind: KindContext, Text: "z"}}},
	})
	if got := s.Pos(); got != (Position{File: 1, Line: 0, Char: 0}) {
		t.Fatalf("cursor should start at the first non-empty unit, got %+v", got)
	}
}

func TestStreamRevealedInUnit(t *testing.T) {
	s := NewTypingStream(fixedRules(10*time.Millisecond), []Unit{
		{Path: "a.go", Lines: []DiffLine{
			{Kind: KindAdded, Text: "abc"},
			{Kind: KindAdded, Text: "def"},
		}},
	})
	s.Advance(30*time.Millisecond + interLinePause + 10*time.Millisecond)
	// Line 0 fully revealed, pause paid, one character of line 1.
	got := s.RevealedInUnit(0)
	if len(got) != 2 {
		t.Fatalf("want 2 revealed lines, got %d", len(got))
	}
	if got[0].Text != "abc" || got[1].Text != "d" {
		t.Fatalf("want [abc d], got [%s %s]", got[0].Text, got[1].Text)
	}
	if s.RevealedInUnit(1) != nil {
		t.Fatalf("unit past the cursor should reveal nothing")
	}
}

func TestStreamCurrentText(t *testing.T) {
	s := NewTypingStream(fixedRules(time.Millisecond), []Unit{
		{Lines: []DiffLine{{Kind: KindContext, Text: "fix: handle empty diff"}}},
	})
	s.Advance(4 * time.Millisecond)
	if got := s.CurrentText(); got != "fix:" {
		t.Fatalf("want %q, got %q", "fix:", got)
	}
}

func TestStreamJumpToResetsAccumulator(t *testing.T) {
	s := NewTypingStream(fixedRules(10*time.Millisecond), []Unit{
		{Path: "a.go", Lines: []DiffLine{{Kind: KindAdded, Text: "abc"}}},
	})
	s.Advance(9 * time.Millisecond)
	s.JumpTo(Position{})
	if s.Advance(9 * time.Millisecond) {
		t.Fatalf("jump must discard accumulated time")
	}
}
