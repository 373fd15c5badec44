package session

import (
	"testing"
	"time"

	"github.com/ddaniel27/gitlogue/internal/playback"
)

type fakeSource struct {
	commits []*playback.Commit
	idx     int

	worktree    *playback.Commit
	worktreeErr error

	calls  int
	resets int
}

func (f *fakeSource) next() (*playback.Commit, error) {
	f.calls++
	if f.idx >= len(f.commits) {
		return nil, ErrExhausted
	}
	meta := f.commits[f.idx]
	f.idx++
	return meta, nil
}

func (f *fakeSource) GetCommit(spec string) (*playback.Commit, error) {
	f.calls++
	for _, meta := range f.commits {
		if meta.Hash == spec {
			return meta, nil
		}
	}
	return nil, ErrExhausted
}

func (f *fakeSource) RandomCommit() (*playback.Commit, error)   { return f.next() }
func (f *fakeSource) NextAscCommit() (*playback.Commit, error)  { return f.next() }
func (f *fakeSource) NextDescCommit() (*playback.Commit, error) { return f.next() }

func (f *fakeSource) WorkingTreeDiff(staged bool) (*playback.Commit, error) {
	f.calls++
	if f.worktreeErr != nil {
		return nil, f.worktreeErr
	}
	return f.worktree, nil
}

func (f *fakeSource) ResetIndex() {
	f.resets++
	f.idx = 0
}

func commitFixture(hash string) *playback.Commit {
	return &playback.Commit{
		Hash:    hash,
		Summary: "commit " + hash,
		Files: []playback.FileChange{
			{Path: "main.go", Lines: []playback.DiffLine{{Kind: playback.KindAdded, Text: "x"}}},
		},
	}
}

func fastConfig() Config {
	return Config{BaseInterval: time.Millisecond, Order: OrderAscending}
}

func mustStart(t *testing.T, c *Controller) {
	t.Helper()
	if err := c.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
}

func finishBody(t *testing.T, c *Controller, now time.Time) time.Time {
	t.Helper()
	c.Advance(now)
	now = now.Add(time.Hour)
	c.Advance(now) // finishes the header
	now = now.Add(time.Hour)
	c.Advance(now) // finishes the body
	now = now.Add(time.Millisecond)
	c.Advance(now) // observes the finished body
	return now
}

func TestNoSourceFinishesDirectly(t *testing.T) {
	c := NewController(fastConfig(), nil, NewCancelToken())
	mustStart(t, c)
	now := finishBody(t, c, time.Unix(0, 0))
	_ = now
	if got := c.Mode(); got != ModeFinished {
		t.Fatalf("no commit source: want finished, got %s", got)
	}
}

func TestBodyFinishEntersWaiting(t *testing.T) {
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa"), commitFixture("bbb")}}
	c := NewController(fastConfig(), src, NewCancelToken())
	mustStart(t, c)
	now := finishBody(t, c, time.Unix(0, 0))
	if got := c.Mode(); got != ModeWaitingForNext {
		t.Fatalf("want waiting, got %s", got)
	}
	// Before resumeAt nothing happens; after it, the next commit loads.
	if c.Advance(now) {
		t.Fatalf("waiting should be quiet before resumeAt")
	}
	c.Advance(c.ResumeAt())
	if got := c.Mode(); got != ModePlaying {
		t.Fatalf("want playing after resumeAt, got %s", got)
	}
	if got := c.Engine().Metadata().Hash; got != "bbb" {
		t.Fatalf("want next commit loaded, got %q", got)
	}
}

func TestLoopRetriesExactlyOnce(t *testing.T) {
	cfg := fastConfig()
	cfg.Loop = true
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa")}}
	c := NewController(cfg, src, NewCancelToken())
	mustStart(t, c)
	now := finishBody(t, c, time.Unix(0, 0))
	_ = now
	c.Advance(c.ResumeAt())
	if src.resets != 1 {
		t.Fatalf("want exactly one reset_index call, got %d", src.resets)
	}
	if got := c.Mode(); got != ModePlaying {
		t.Fatalf("loop retry should succeed and stay playing, got %s", got)
	}
	if got := c.Engine().Metadata().Hash; got != "aaa" {
		t.Fatalf("want the looped commit reloaded, got %q", got)
	}
}

func TestExhaustionWithoutLoopFinishes(t *testing.T) {
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa")}}
	c := NewController(fastConfig(), src, NewCancelToken())
	mustStart(t, c)
	finishBody(t, c, time.Unix(0, 0))
	c.Advance(c.ResumeAt())
	if got := c.Mode(); got != ModeFinished {
		t.Fatalf("exhaustion without loop: want finished, got %s", got)
	}
	if src.resets != 0 {
		t.Fatalf("reset_index must not run without loop, got %d", src.resets)
	}
}

func TestHistoryReplayDoesNotQuerySource(t *testing.T) {
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa"), commitFixture("bbb")}}
	c := NewController(fastConfig(), src, NewCancelToken())
	mustStart(t, c)
	finishBody(t, c, time.Unix(0, 0))
	c.Advance(c.ResumeAt()) // loads bbb

	calls := src.calls
	now := c.ResumeAt().Add(time.Second)
	if !c.HandleInput(InputHistoryPrev, now) {
		t.Fatalf("history prev should replay aaa")
	}
	if got := c.Engine().Metadata().Hash; got != "aaa" {
		t.Fatalf("want aaa replayed, got %q", got)
	}
	if !c.HandleInput(InputHistoryNext, now) {
		t.Fatalf("history next should replay bbb")
	}
	if got := c.Engine().Metadata().Hash; got != "bbb" {
		t.Fatalf("want bbb replayed, got %q", got)
	}
	if src.calls != calls {
		t.Fatalf("history replay must not touch the source: %d extra calls", src.calls-calls)
	}
	if got := c.History().Len(); got != 2 {
		t.Fatalf("replay must not re-record: want 2 entries, got %d", got)
	}
}

func TestHistoryNextFallsThroughToSource(t *testing.T) {
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa"), commitFixture("bbb")}}
	c := NewController(fastConfig(), src, NewCancelToken())
	mustStart(t, c)
	now := time.Unix(0, 0)
	if !c.HandleInput(InputHistoryNext, now) {
		t.Fatalf("history exhausted forward should hit the source")
	}
	if got := c.Engine().Metadata().Hash; got != "bbb" {
		t.Fatalf("want bbb fetched, got %q", got)
	}
	if got := c.History().Len(); got != 2 {
		t.Fatalf("fetched commit must be recorded, got %d entries", got)
	}
}

func TestManualStepForcesPause(t *testing.T) {
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa")}}
	c := NewController(fastConfig(), src, NewCancelToken())
	mustStart(t, c)
	now := time.Unix(0, 0)
	c.HandleInput(InputStepLineFwd, now)
	if c.Playing() {
		t.Fatalf("a scrub must force the pause state first")
	}
	if !c.Engine().Paused() {
		t.Fatalf("the engine must be paused after a scrub")
	}
}

func TestMenuSavesAndRestoresPriorState(t *testing.T) {
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa")}}
	c := NewController(fastConfig(), src, NewCancelToken())
	mustStart(t, c)
	now := time.Unix(0, 0)

	c.HandleInput(InputMenu, now)
	if got := c.Mode(); got != ModeMenu {
		t.Fatalf("esc should open the menu, got %s", got)
	}
	if !c.Engine().Paused() {
		t.Fatalf("opening the menu must pause the engine")
	}
	c.HandleInput(InputMenu, now)
	if got := c.Mode(); got != ModePlaying {
		t.Fatalf("esc should restore the prior state, got %s", got)
	}
	if c.Engine().Paused() {
		t.Fatalf("closing the menu should resume a playing engine")
	}

	// A manually paused replay stays paused across a menu detour.
	c.HandleInput(InputTogglePause, now)
	c.HandleInput(InputMenu, now)
	c.HandleInput(InputMenu, now)
	if !c.Engine().Paused() {
		t.Fatalf("menu close must not resume a manually paused engine")
	}
}

func TestMenuNavigation(t *testing.T) {
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa")}}
	c := NewController(fastConfig(), src, NewCancelToken())
	mustStart(t, c)
	now := time.Unix(0, 0)
	c.HandleInput(InputMenu, now)

	c.HandleInput(InputDown, now)
	c.HandleInput(InputEnter, now)
	if got := c.Mode(); got != ModeAbout {
		t.Fatalf("second item should open about, got %s", got)
	}
	c.HandleInput(InputEnter, now)
	if got := c.Mode(); got != ModeMenu {
		t.Fatalf("enter should dismiss the dialog back to the menu, got %s", got)
	}
	c.HandleInput(InputUp, now)
	c.HandleInput(InputEnter, now)
	if got := c.Mode(); got != ModeKeyBindings {
		t.Fatalf("first item should open key bindings, got %s", got)
	}
	c.HandleInput(InputMenu, now)
	c.HandleInput(InputDown, now)
	c.HandleInput(InputDown, now)
	c.HandleInput(InputEnter, now)
	if got := c.Mode(); got != ModeFinished {
		t.Fatalf("last item should quit, got %s", got)
	}
}

func TestQuitFromAnyState(t *testing.T) {
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa")}}
	c := NewController(fastConfig(), src, NewCancelToken())
	mustStart(t, c)
	now := time.Unix(0, 0)
	c.HandleInput(InputQuit, now)
	if got := c.Mode(); got != ModeFinished {
		t.Fatalf("quit key: want finished, got %s", got)
	}
}

func TestCancelTokenFinishes(t *testing.T) {
	cancel := NewCancelToken()
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa")}}
	c := NewController(fastConfig(), src, cancel)
	mustStart(t, c)
	cancel.Request()
	if !c.Advance(time.Unix(0, 0)) {
		t.Fatalf("cancellation should request a final redraw")
	}
	if got := c.Mode(); got != ModeFinished {
		t.Fatalf("cancel token: want finished, got %s", got)
	}
}

func TestWorktreeEmptyDiffFinishes(t *testing.T) {
	cfg := fastConfig()
	cfg.Worktree = WorktreeUnstaged
	src := &fakeSource{worktreeErr: ErrExhausted}
	c := NewController(cfg, src, NewCancelToken())
	if err := c.Start(); err == nil {
		t.Fatalf("an empty worktree diff at startup should error")
	}
}

func TestExplicitCommitIsOneShot(t *testing.T) {
	cfg := fastConfig()
	cfg.CommitSpec = "bbb"
	src := &fakeSource{commits: []*playback.Commit{commitFixture("aaa"), commitFixture("bbb")}}
	c := NewController(cfg, src, NewCancelToken())
	mustStart(t, c)
	if got := c.Engine().Metadata().Hash; got != "bbb" {
		t.Fatalf("want the requested commit, got %q", got)
	}
	finishBody(t, c, time.Unix(0, 0))
	if got := c.Mode(); got != ModeFinished {
		t.Fatalf("a one-shot session ends after its commit, got %s", got)
	}
}

func TestExplicitCommitNotFoundPropagates(t *testing.T) {
	cfg := fastConfig()
	cfg.CommitSpec = "nope"
	src := &fakeSource{}
	c := NewController(cfg, src, NewCancelToken())
	if err := c.Start(); err == nil {
		t.Fatalf("an unresolvable commit spec must surface at startup")
	}
}
