package tui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/ddaniel27/gitlogue/internal/buildinfo"
	"github.com/ddaniel27/gitlogue/internal/git"
	"github.com/ddaniel27/gitlogue/internal/session"
)

// pollInterval bounds how long one loop iteration waits for input; the
// engine ticks at least this often while animating.
const pollInterval = 8 * time.Millisecond

// waitingRedrawInterval refreshes the inter-commit countdown even though
// no character is revealing.
const waitingRedrawInterval = 250 * time.Millisecond

// RunConfig carries everything the terminal runtime needs.
type RunConfig struct {
	RepoPath        string
	RangeFrom       string
	RangeTo         string
	Session         session.Config
	Theme           ThemePreference
	SyntaxHighlight bool
	AutoReload      bool
	Verbose         bool
}

func Run(cfg RunConfig) error {
	setupLogging(cfg.Verbose)
	if cfg.RepoPath == "" {
		cfg.RepoPath = "."
	}
	svc, err := git.Open(cfg.RepoPath, git.Options{RangeFrom: cfg.RangeFrom, RangeTo: cfg.RangeTo})
	if err != nil {
		return err
	}
	cancel := session.NewCancelToken()
	ctrl := session.NewController(cfg.Session, svc, cancel)
	if err := ctrl.Start(); err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("terminal setup: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("terminal setup: %w", err)
	}
	defer screen.Fini()

	// First signal requests cooperative shutdown through the token; a
	// second one tears the screen down and exits on the spot.
	sigs := make(chan os.Signal, 2)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigs)
	go func() {
		<-sigs
		cancel.Request()
		<-sigs
		screen.Fini()
		os.Exit(1)
	}()

	var watcher *repoWatcher
	if cfg.AutoReload && cfg.Session.Worktree != session.WorktreeOff {
		watcher, err = newRepoWatcher(svc.RepoPath())
		if err != nil {
			slog.Error("auto reload disabled", slog.Any("error", err))
			watcher = nil
		}
	}
	defer watcher.Close()

	palette := paletteForPreference(cfg.Theme)
	r := &renderer{
		screen:  screen,
		palette: palette,
		hl:      newHighlighter(cfg.SyntaxHighlight, palette.ChromaStyle),
		version: buildinfo.Version(),
	}

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	redraw := true
	var lastRender time.Time
	for {
		// Input first, then automatic transitions: a keypress and the
		// tick-driven advance apply in the user's intended order.
		select {
		case ev := <-events:
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if ctrl.HandleInput(mapKeyEvent(ev), time.Now()) {
					redraw = true
				}
			case *tcell.EventResize:
				screen.Sync()
				redraw = true
			}
		case <-ticker.C:
		}
		if watcher.Dirty() && ctrl.Refresh() {
			redraw = true
		}
		now := time.Now()
		if ctrl.Advance(now) {
			redraw = true
		}
		if ctrl.Mode() == session.ModeFinished {
			return nil
		}
		if ctrl.Mode() == session.ModeWaitingForNext && now.Sub(lastRender) >= waitingRedrawInterval {
			redraw = true
		}
		if redraw {
			r.render(ctrl, now)
			lastRender = now
			redraw = false
		}
	}
}

func setupLogging(verbose bool) {
	if !verbose {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	// The screen owns stderr while running; verbose logs go to a file.
	path := filepath.Join(os.TempDir(), "gitlogue.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})))
	slog.Debug("verbose logging enabled", slog.String("path", path))
}
