package session

import (
	"strings"
	"time"

	"github.com/ddaniel27/gitlogue/internal/playback"
)

// Order selects how the controller walks the repository's commits.
type Order int

const (
	OrderRandom Order = iota
	OrderAscending
	OrderDescending
)

func (o Order) String() string {
	switch o {
	case OrderAscending:
		return "asc"
	case OrderDescending:
		return "desc"
	default:
		return "random"
	}
}

func OrderFromString(raw string) Order {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "asc", "ascending":
		return OrderAscending
	case "desc", "descending":
		return OrderDescending
	default:
		return OrderRandom
	}
}

// WorktreeMode replays the working tree instead of committed history.
type WorktreeMode int

const (
	WorktreeOff WorktreeMode = iota
	WorktreeUnstaged
	WorktreeStaged
)

func WorktreeModeFromString(raw string) WorktreeMode {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "unstaged", "worktree":
		return WorktreeUnstaged
	case "staged", "index":
		return WorktreeStaged
	default:
		return WorktreeOff
	}
}

// Config is the session surface recognized by the controller. The flag
// layer in cmd/ fills it in.
type Config struct {
	BaseInterval time.Duration
	Order        Order
	Loop         bool
	CommitSpec   string
	Worktree     WorktreeMode
	Rules        []playback.SpeedRule
}

func (c Config) baseInterval() time.Duration {
	if c.BaseInterval > 0 {
		return c.BaseInterval
	}
	return playback.DefaultBaseInterval
}
