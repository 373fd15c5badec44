package git

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"sync"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"github.com/ddaniel27/gitlogue/internal/playback"
	"github.com/ddaniel27/gitlogue/internal/session"
)

var (
	// ErrExhausted means the configured traversal has no further commit.
	// Aliased so errors.Is matches across the source boundary.
	ErrExhausted = session.ErrExhausted
	// ErrNotFound means an explicit commit spec did not resolve.
	ErrNotFound = errors.New("commit not found")
)

// Options restrict which commits the ordered traversal may visit. Either
// end of the range may be empty; From is exclusive and To inclusive,
// matching git's from..to convention.
type Options struct {
	RangeFrom string
	RangeTo   string
}

// Service reads commits from one local repository and serves them as
// replayable metadata. Traversal state lives behind a mutex the way a
// scan session does: callers never observe a half-advanced cursor.
type Service struct {
	mu sync.Mutex

	repo *gitlib.Repository
	path string

	rangeFrom plumbing.Hash
	rangeTo   plumbing.Hash

	// order holds the traversable commits oldest-first; built lazily on
	// the first ordered request and kept for the session.
	order []plumbing.Hash
	cur   cursors
}

// cursors tracks consumption per traversal order. The random order walks
// a fresh permutation each cycle so every commit shows once before
// exhaustion.
type cursors struct {
	asc     int
	desc    int
	shuffle []int
	randPos int
}

func Open(repoPath string, opts Options) (*Service, error) {
	abs, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}
	repo, err := gitlib.PlainOpenWithOptions(abs, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	s := &Service{repo: repo, path: abs}
	if opts.RangeFrom != "" {
		if s.rangeFrom, err = s.resolve(opts.RangeFrom); err != nil {
			return nil, fmt.Errorf("range start: %w", err)
		}
	}
	if opts.RangeTo != "" {
		if s.rangeTo, err = s.resolve(opts.RangeTo); err != nil {
			return nil, fmt.Errorf("range end: %w", err)
		}
	}
	return s, nil
}

func (s *Service) RepoPath() string { return s.path }

func (s *Service) resolve(spec string) (plumbing.Hash, error) {
	hash, err := s.repo.ResolveRevision(plumbing.Revision(spec))
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("%w: %q", ErrNotFound, spec)
	}
	return *hash, nil
}

// GetCommit resolves an explicit revision. Failures are ErrNotFound and
// are never retried.
func (s *Service) GetCommit(spec string) (*playback.Commit, error) {
	hash, err := s.resolve(spec)
	if err != nil {
		return nil, err
	}
	return s.metadataAt(hash)
}

func (s *Service) NextAscCommit() (*playback.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOrderLocked(); err != nil {
		return nil, err
	}
	idx, ok := s.cur.nextAsc(len(s.order))
	if !ok {
		return nil, ErrExhausted
	}
	return s.metadataAt(s.order[idx])
}

func (s *Service) NextDescCommit() (*playback.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOrderLocked(); err != nil {
		return nil, err
	}
	idx, ok := s.cur.nextDesc(len(s.order))
	if !ok {
		return nil, ErrExhausted
	}
	return s.metadataAt(s.order[idx])
}

func (s *Service) RandomCommit() (*playback.Commit, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureOrderLocked(); err != nil {
		return nil, err
	}
	idx, ok := s.cur.nextRandom(len(s.order))
	if !ok {
		return nil, ErrExhausted
	}
	return s.metadataAt(s.order[idx])
}

// ResetIndex rewinds every traversal cursor; the random order draws a new
// permutation on its next request.
func (s *Service) ResetIndex() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur = cursors{}
	slog.Debug("traversal cursors reset", slog.Int("commits", len(s.order)))
}

func (c *cursors) nextAsc(n int) (int, bool) {
	if c.asc >= n {
		return 0, false
	}
	idx := c.asc
	c.asc++
	return idx, true
}

func (c *cursors) nextDesc(n int) (int, bool) {
	if c.desc >= n {
		return 0, false
	}
	idx := n - 1 - c.desc
	c.desc++
	return idx, true
}

func (c *cursors) nextRandom(n int) (int, bool) {
	if n == 0 {
		return 0, false
	}
	if len(c.shuffle) != n {
		c.shuffle = rand.Perm(n)
		c.randPos = 0
	}
	if c.randPos >= len(c.shuffle) {
		return 0, false
	}
	idx := c.shuffle[c.randPos]
	c.randPos++
	return idx, true
}

// ensureOrderLocked walks the log once into an oldest-first hash list,
// then clips it to the configured range.
func (s *Service) ensureOrderLocked() error {
	if s.order != nil {
		return nil
	}
	from := s.rangeTo
	if from == plumbing.ZeroHash {
		ref, err := s.repo.Head()
		if err != nil {
			return fmt.Errorf("resolve HEAD: %w", err)
		}
		from = ref.Hash()
	}
	iter, err := s.repo.Log(&gitlib.LogOptions{From: from, Order: gitlib.LogOrderCommitterTime})
	if err != nil {
		return fmt.Errorf("read commits: %w", err)
	}
	defer iter.Close()

	var newestFirst []plumbing.Hash
	for {
		commit, err := iter.Next()
		if err != nil {
			if err == io.EOF {
				break
			}
			return fmt.Errorf("iterate commits: %w", err)
		}
		if s.rangeFrom != plumbing.ZeroHash && commit.Hash == s.rangeFrom {
			// from..to excludes the range start and everything older.
			break
		}
		newestFirst = append(newestFirst, commit.Hash)
	}
	order := make([]plumbing.Hash, 0, len(newestFirst))
	for i := len(newestFirst) - 1; i >= 0; i-- {
		order = append(order, newestFirst[i])
	}
	s.order = order
	slog.Debug("commit order built", slog.Int("commits", len(order)))
	return nil
}
