package session

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/ddaniel27/gitlogue/internal/playback"
)

// Mode is the controller's top-level modal state, orthogonal to the
// manual play/pause toggle.
type Mode int

const (
	ModePlaying Mode = iota
	ModeWaitingForNext
	ModeMenu
	ModeKeyBindings
	ModeAbout
	ModeFinished
)

func (m Mode) String() string {
	switch m {
	case ModePlaying:
		return "playing"
	case ModeWaitingForNext:
		return "waiting"
	case ModeMenu:
		return "menu"
	case ModeKeyBindings:
		return "keybindings"
	case ModeAbout:
		return "about"
	case ModeFinished:
		return "finished"
	}
	return "unknown"
}

// interCommitDelayFactor scales the base interval into the pause between
// one commit finishing and the next starting.
const interCommitDelayFactor = 40

// MenuItems are the menu entries in display order. Enter on an entry maps
// by index in handleMenu.
var MenuItems = []string{"Key bindings", "About", "Quit"}

// Controller is the session state machine. One loop iteration dispatches
// input through HandleInput, then lets Advance tick the engine and apply
// automatic transitions, in that order.
type Controller struct {
	cfg    Config
	engine *playback.Engine
	source CommitSource
	hist   *History
	cancel *CancelToken

	mode      Mode
	savedMode Mode
	hasSaved  bool
	resumeAt  time.Time

	// playing is the manual play/pause toggle; false survives modal
	// detours, so closing the menu does not resume a paused replay.
	playing bool

	// oneShot plays a single explicitly requested commit, after which
	// the source counts as unavailable.
	oneShot bool

	menuIndex int
}

func NewController(cfg Config, source CommitSource, cancel *CancelToken) *Controller {
	rules := playback.NewSpeedRuleSet(cfg.baseInterval(), cfg.Rules)
	return &Controller{
		cfg:     cfg,
		engine:  playback.NewEngine(rules),
		source:  source,
		hist:    NewHistory(),
		cancel:  cancel,
		mode:    ModePlaying,
		playing: true,
		oneShot: cfg.CommitSpec != "",
	}
}

// Start loads the first commit. An invalid explicit commit spec surfaces
// here and is not retried.
func (c *Controller) Start() error {
	if c.source == nil {
		return nil
	}
	if c.cfg.CommitSpec != "" {
		meta, err := c.source.GetCommit(c.cfg.CommitSpec)
		if err != nil {
			return fmt.Errorf("resolve commit %q: %w", c.cfg.CommitSpec, err)
		}
		c.hist.Record(meta)
		c.engine.Load(meta)
		return nil
	}
	if err := c.advanceToNextCommit(); err != nil {
		return fmt.Errorf("load first commit: %w", err)
	}
	return nil
}

func (c *Controller) Engine() *playback.Engine { return c.engine }
func (c *Controller) Mode() Mode               { return c.mode }
func (c *Controller) Playing() bool            { return c.playing }
func (c *Controller) MenuIndex() int           { return c.menuIndex }
func (c *Controller) ResumeAt() time.Time      { return c.resumeAt }
func (c *Controller) History() *History        { return c.hist }

// HandleInput dispatches one command according to the modal state.
// Returns true when the screen needs a redraw.
func (c *Controller) HandleInput(in Input, now time.Time) bool {
	if in == InputNone || c.mode == ModeFinished {
		return false
	}
	switch c.mode {
	case ModeMenu:
		return c.handleMenu(in)
	case ModeKeyBindings, ModeAbout:
		switch in {
		case InputMenu, InputEnter, InputQuit:
			c.mode = ModeMenu
			return true
		}
		return false
	default:
		return c.handlePlayback(in, now)
	}
}

func (c *Controller) handleMenu(in Input) bool {
	switch in {
	case InputQuit:
		c.mode = ModeFinished
	case InputMenu:
		c.closeMenu()
	case InputUp:
		if c.menuIndex > 0 {
			c.menuIndex--
		}
	case InputDown:
		if c.menuIndex < len(MenuItems)-1 {
			c.menuIndex++
		}
	case InputEnter:
		switch c.menuIndex {
		case 0:
			c.mode = ModeKeyBindings
		case 1:
			c.mode = ModeAbout
		default:
			c.mode = ModeFinished
		}
	default:
		return false
	}
	return true
}

func (c *Controller) handlePlayback(in Input, now time.Time) bool {
	switch in {
	case InputQuit:
		c.mode = ModeFinished
	case InputMenu:
		c.openMenu()
	case InputTogglePause:
		c.playing = !c.playing
		if c.playing {
			c.engine.Resume()
		} else {
			c.engine.Pause()
		}
	case InputStepLineFwd:
		c.stopAutoplay()
		return c.engine.ManualStep(playback.StepLine)
	case InputStepLineBack:
		c.stopAutoplay()
		return c.engine.RestoreLineCheckpoint()
	case InputStepChangeFwd:
		c.stopAutoplay()
		return c.engine.ManualStep(playback.StepChange)
	case InputStepChangeBack:
		c.stopAutoplay()
		return c.engine.RestoreChangeCheckpoint()
	case InputHistoryPrev:
		meta, ok := c.hist.Prev()
		if !ok {
			return false
		}
		c.replay(meta)
	case InputHistoryNext:
		if meta, ok := c.hist.Next(); ok {
			c.replay(meta)
			return true
		}
		// History exhausted forward: fall through to the source.
		if c.sourceAvailable() {
			if err := c.advanceToNextCommit(); err != nil {
				slog.Debug("history next fetch failed", slog.Any("error", err))
				c.mode = ModeFinished
			} else {
				c.mode = ModePlaying
			}
			return true
		}
		return false
	default:
		return false
	}
	return true
}

// stopAutoplay forces the pause state before a scrub so a manual step
// never races timer-driven advancement.
func (c *Controller) stopAutoplay() {
	c.playing = false
	c.engine.Pause()
}

func (c *Controller) openMenu() {
	c.savedMode = c.mode
	c.hasSaved = true
	c.menuIndex = 0
	c.mode = ModeMenu
	c.engine.Pause()
}

func (c *Controller) closeMenu() {
	if c.hasSaved {
		c.mode = c.savedMode
		c.hasSaved = false
	} else {
		c.mode = ModePlaying
	}
	if c.playing {
		c.engine.Resume()
	}
}

// replay loads a commit reached through history navigation: no source
// query, no new history entry.
func (c *Controller) replay(meta *playback.Commit) {
	c.engine.Load(meta)
	if !c.playing {
		c.engine.Pause()
	}
	c.mode = ModePlaying
}

// Refresh reloads the worktree snapshot after the repository changed on
// disk. Outside worktree mode, or in a modal state, it does nothing.
func (c *Controller) Refresh() bool {
	if c.cfg.Worktree == WorktreeOff || c.source == nil {
		return false
	}
	if c.mode != ModePlaying && c.mode != ModeWaitingForNext {
		return false
	}
	meta, err := c.source.WorkingTreeDiff(c.cfg.Worktree == WorktreeStaged)
	if err != nil {
		slog.Debug("worktree refresh failed", slog.Any("error", err))
		return false
	}
	c.engine.Load(meta)
	if !c.playing {
		c.engine.Pause()
	}
	c.mode = ModePlaying
	return true
}

// Advance applies one loop iteration's automatic work: checks the cancel
// token, ticks the engine, and evaluates state transitions. Runs after
// input dispatch so a keypress and the automatic advance cannot apply out
// of order.
func (c *Controller) Advance(now time.Time) bool {
	if c.cancel.Requested() && c.mode != ModeFinished {
		c.mode = ModeFinished
		return true
	}
	switch c.mode {
	case ModePlaying:
		redraw := c.engine.Tick(now)
		if c.engine.Finished() && c.engine.HeaderFinished() {
			if !c.sourceAvailable() {
				c.mode = ModeFinished
				return true
			}
			c.mode = ModeWaitingForNext
			c.resumeAt = now.Add(c.cfg.baseInterval() * interCommitDelayFactor)
			return true
		}
		return redraw
	case ModeWaitingForNext:
		if !c.playing || now.Before(c.resumeAt) {
			return false
		}
		if err := c.advanceToNextCommit(); err != nil {
			slog.Debug("commit advancement failed", slog.Any("error", err))
			c.mode = ModeFinished
		} else {
			c.mode = ModePlaying
		}
		return true
	}
	return false
}

func (c *Controller) sourceAvailable() bool {
	if c.source == nil {
		return false
	}
	// A one-shot session treats the source as spent after its commit.
	return !c.oneShot
}

// advanceToNextCommit fetches per the configured policy, records the
// result in history, and loads it into the engine.
func (c *Controller) advanceToNextCommit() error {
	meta, err := c.fetchNext()
	if err != nil {
		return err
	}
	c.hist.Record(meta)
	c.engine.Load(meta)
	if !c.playing {
		c.engine.Pause()
	}
	return nil
}

func (c *Controller) fetchNext() (*playback.Commit, error) {
	if c.cfg.Worktree != WorktreeOff {
		return c.source.WorkingTreeDiff(c.cfg.Worktree == WorktreeStaged)
	}
	meta, err := c.nextByOrder()
	if err == nil {
		return meta, nil
	}
	if !c.cfg.Loop {
		return nil, err
	}
	// Loop mode rewinds and retries exactly once; a second failure is
	// terminal, never an infinite retry.
	slog.Debug("traversal exhausted, resetting for loop", slog.String("order", c.cfg.Order.String()))
	c.source.ResetIndex()
	return c.nextByOrder()
}

func (c *Controller) nextByOrder() (*playback.Commit, error) {
	switch c.cfg.Order {
	case OrderAscending:
		return c.source.NextAscCommit()
	case OrderDescending:
		return c.source.NextDescCommit()
	default:
		return c.source.RandomCommit()
	}
}
