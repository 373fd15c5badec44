package playback

import "time"

// Commit is the immutable input handed to Engine.Load: one commit's
// identity plus its ordered file changes. The commit source builds it;
// the engine owns it until the next Load.
type Commit struct {
	Hash    string
	Summary string
	Author  string
	When    time.Time
	Files   []FileChange
}

// FileChange is one changed path and its classified diff lines, in diff
// order.
type FileChange struct {
	Path  string
	Lines []DiffLine
}

// ShortHash returns the abbreviated commit identifier, or the full value
// for synthetic commits like worktree snapshots.
func (c *Commit) ShortHash() string {
	if len(c.Hash) > 7 {
		return c.Hash[:7]
	}
	return c.Hash
}
