package cmd

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ddaniel27/gitlogue/internal/buildinfo"
	"github.com/ddaniel27/gitlogue/internal/playback"
	"github.com/ddaniel27/gitlogue/internal/session"
	"github.com/ddaniel27/gitlogue/internal/tui"
)

func Run() error {
	return run(os.Args[1:])
}

func run(args []string) error {
	fs := flag.NewFlagSet("gitlogue", flag.ContinueOnError)
	speed := fs.Int("speed", 50, "base typing speed in milliseconds per character")
	order := fs.String("order", session.OrderRandom.String(), "commit traversal order: random, asc, or desc")
	loop := fs.Bool("loop", false, "reset traversal once when commits run out")
	commit := fs.String("commit", "", "replay a single commit by revision and exit")
	rangeSpec := fs.String("range", "", "restrict traversal to from..to revisions")
	worktree := fs.String("worktree", "", "replay uncommitted changes instead of history: unstaged or staged")
	mode := fs.String("mode", tui.ThemeAuto.String(), "color mode: auto, light, or dark")
	noSyntax := fs.Bool("nosyntax", false, "disable syntax highlighting in the editor pane")
	noWatch := fs.Bool("nowatch", false, "disable automatic reload in worktree mode")
	verbose := fs.Bool("verbose", false, "enable verbose logging")
	showVersion := fs.Bool("version", false, "print version information and exit")
	var rules ruleList
	fs.Var(&rules, "rule", "speed rule kind[:minlen]=interval|xFACTOR (e.g. removed=x2, added=10ms); repeatable")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return nil
		}
		return err
	}
	if *showVersion {
		fmt.Println(buildinfo.Version())
		return nil
	}
	if *speed <= 0 {
		return fmt.Errorf("speed must be positive, got %d", *speed)
	}
	worktreeMode := session.WorktreeOff
	if *worktree != "" {
		worktreeMode = session.WorktreeModeFromString(*worktree)
		if worktreeMode == session.WorktreeOff {
			return fmt.Errorf("unknown worktree mode %q (want unstaged or staged)", *worktree)
		}
	}
	rangeFrom, rangeTo, err := parseRange(*rangeSpec)
	if err != nil {
		return err
	}
	repoPath := "."
	if remaining := fs.Args(); len(remaining) > 0 {
		repoPath = remaining[len(remaining)-1]
	}
	return tui.Run(tui.RunConfig{
		RepoPath:  repoPath,
		RangeFrom: rangeFrom,
		RangeTo:   rangeTo,
		Session: session.Config{
			BaseInterval: time.Duration(*speed) * time.Millisecond,
			Order:        session.OrderFromString(*order),
			Loop:         *loop,
			CommitSpec:   *commit,
			Worktree:     worktreeMode,
			Rules:        rules,
		},
		Theme:           tui.ThemePreferenceFromString(*mode),
		SyntaxHighlight: !*noSyntax,
		AutoReload:      !*noWatch,
		Verbose:         *verbose,
	})
}

func parseRange(spec string) (from, to string, err error) {
	if spec == "" {
		return "", "", nil
	}
	parts := strings.SplitN(spec, "..", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("range %q must be of the form from..to", spec)
	}
	return parts[0], parts[1], nil
}

// ruleList collects repeated -rule flags in declared order, which is
// also their matching priority.
type ruleList []playback.SpeedRule

func (r *ruleList) String() string {
	names := make([]string, 0, len(*r))
	for _, rule := range *r {
		names = append(names, rule.Kind.String())
	}
	return strings.Join(names, ",")
}

func (r *ruleList) Set(raw string) error {
	rule, err := parseSpeedRule(raw)
	if err != nil {
		return err
	}
	*r = append(*r, rule)
	return nil
}

func parseSpeedRule(raw string) (playback.SpeedRule, error) {
	var rule playback.SpeedRule
	matcher, value, ok := strings.Cut(raw, "=")
	if !ok {
		return rule, fmt.Errorf("rule %q must be of the form kind=interval or kind=xFACTOR", raw)
	}
	kindName, lenSpec, hasLen := strings.Cut(matcher, ":")
	switch strings.ToLower(strings.TrimSpace(kindName)) {
	case "context":
		rule.Kind = playback.KindContext
	case "added":
		rule.Kind = playback.KindAdded
	case "removed":
		rule.Kind = playback.KindRemoved
	case "blank":
		rule.Kind = playback.KindBlank
	case "any":
		rule.Kind = playback.KindAny
	default:
		return rule, fmt.Errorf("unknown line kind %q in rule %q", kindName, raw)
	}
	if hasLen {
		if _, err := fmt.Sscanf(lenSpec, "%d", &rule.MinLen); err != nil || rule.MinLen <= 0 {
			return rule, fmt.Errorf("bad minimum length %q in rule %q", lenSpec, raw)
		}
	}
	value = strings.TrimSpace(value)
	if factor, ok := strings.CutPrefix(value, "x"); ok {
		if _, err := fmt.Sscanf(factor, "%g", &rule.Speed); err != nil || rule.Speed <= 0 {
			return rule, fmt.Errorf("bad speed factor %q in rule %q", value, raw)
		}
		return rule, nil
	}
	interval, err := time.ParseDuration(value)
	if err != nil || interval <= 0 {
		return rule, fmt.Errorf("bad interval %q in rule %q", value, raw)
	}
	rule.Interval = interval
	return rule, nil
}
