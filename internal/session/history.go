package session

import "github.com/ddaniel27/gitlogue/internal/playback"

// History is the ordered log of commits already shown, browsable without
// touching the commit source. Recording a new commit truncates any
// forward entries left over from earlier backward navigation; replaying
// an existing entry never re-records.
type History struct {
	entries []*playback.Commit
	index   int
}

func NewHistory() *History {
	return &History{index: -1}
}

func (h *History) Len() int { return len(h.entries) }

func (h *History) Current() (*playback.Commit, bool) {
	if h.index < 0 || h.index >= len(h.entries) {
		return nil, false
	}
	return h.entries[h.index], true
}

// Record appends a freshly fetched commit, dropping stale forward
// entries first.
func (h *History) Record(meta *playback.Commit) {
	h.entries = append(h.entries[:h.index+1], meta)
	h.index = len(h.entries) - 1
}

// Prev steps the cursor back, if an earlier entry exists.
func (h *History) Prev() (*playback.Commit, bool) {
	if h.index <= 0 {
		return nil, false
	}
	h.index--
	return h.entries[h.index], true
}

// Next steps the cursor forward, if a later entry exists.
func (h *History) Next() (*playback.Commit, bool) {
	if h.index+1 >= len(h.entries) {
		return nil, false
	}
	h.index++
	return h.entries[h.index], true
}
