package session

import (
	"errors"

	"github.com/ddaniel27/gitlogue/internal/playback"
)

// ErrExhausted reports that traversal ran out of commits. With looping
// enabled the controller resets the source and retries exactly once;
// otherwise it is the normal end of the session, not a failure.
var ErrExhausted = errors.New("commit traversal exhausted")

// CommitSource supplies commit data by spec, order, or working tree.
// Range restriction is baked in at construction time, so the ordered
// variants already walk the restricted window.
type CommitSource interface {
	GetCommit(spec string) (*playback.Commit, error)
	RandomCommit() (*playback.Commit, error)
	NextAscCommit() (*playback.Commit, error)
	NextDescCommit() (*playback.Commit, error)
	WorkingTreeDiff(staged bool) (*playback.Commit, error)
	ResetIndex()
}
