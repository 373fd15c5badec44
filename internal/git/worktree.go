package git

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	gitindex "github.com/go-git/go-git/v5/plumbing/format/index"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/ddaniel27/gitlogue/internal/playback"
)

// WorkingTreeDiff replays uncommitted changes: HEAD against the index
// when staged, HEAD against the working tree otherwise. An empty change
// set is exhaustion, not an error.
func (s *Service) WorkingTreeDiff(staged bool) (*playback.Commit, error) {
	wt, err := s.repo.Worktree()
	if err != nil {
		return nil, err
	}
	status, err := wt.Status()
	if err != nil {
		return nil, err
	}
	headTree, err := s.headTree()
	if err != nil && err != plumbing.ErrReferenceNotFound {
		return nil, err
	}
	var idx *gitindex.Index
	if staged {
		idx, err = s.repo.Storer.Index()
		if err != nil {
			return nil, err
		}
	}
	var paths []string
	for path, st := range status {
		include := false
		if staged {
			include = st.Staging != gitlib.Unmodified
		} else {
			include = st.Worktree != gitlib.Unmodified && st.Worktree != gitlib.Untracked
		}
		if include {
			paths = append(paths, path)
		}
	}
	sort.Strings(paths)

	var files []playback.FileChange
	for _, path := range paths {
		fromFile, err := fileFromTree(headTree, path)
		if err != nil {
			return nil, err
		}
		var toFile *object.File
		if staged {
			toFile, err = fileFromIndex(idx, s.repo, path)
		} else {
			toFile, err = fileFromDisk(s.path, path)
		}
		if err != nil {
			return nil, err
		}
		if fromFile == nil && toFile == nil {
			continue
		}
		lines, err := worktreeFileLines(path, fromFile, toFile)
		if err != nil {
			return nil, err
		}
		if len(lines) == 0 {
			continue
		}
		files = append(files, playback.FileChange{Path: path, Lines: lines})
	}
	if len(files) == 0 {
		return nil, ErrExhausted
	}
	summary := "Uncommitted changes in the working tree"
	hash := "worktree"
	if staged {
		summary = "Changes staged in the index"
		hash = "staged"
	}
	return &playback.Commit{
		Hash:    hash,
		Summary: summary,
		When:    time.Now(),
		Files:   files,
	}, nil
}

func worktreeFileLines(path string, from, to *object.File) ([]playback.DiffLine, error) {
	binary, err := binaryChange(from, to)
	if err != nil {
		return nil, err
	}
	if binary {
		return []playback.DiffLine{{Kind: playback.KindContext, Text: "(binary files differ)"}}, nil
	}
	fromLines, err := fileLines(from)
	if err != nil {
		return nil, err
	}
	toLines, err := fileLines(to)
	if err != nil {
		return nil, err
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        fromLines,
		B:        toLines,
		FromFile: fmt.Sprintf("a/%s", path),
		ToFile:   fmt.Sprintf("b/%s", path),
		Context:  3,
	})
	if err != nil {
		return nil, err
	}
	if text == "" {
		return nil, nil
	}
	var lines []playback.DiffLine
	for line := range strings.SplitSeq(strings.TrimSuffix(text, "\n"), "\n") {
		if strings.HasPrefix(line, "--- ") || strings.HasPrefix(line, "+++ ") {
			continue
		}
		if strings.HasPrefix(line, "@@") {
			lines = append(lines, playback.DiffLine{Kind: playback.KindContext, Text: line})
			continue
		}
		lines = append(lines, classifyDiffLine(line))
	}
	return lines, nil
}

func (s *Service) headTree() (*object.Tree, error) {
	ref, err := s.repo.Head()
	if err != nil {
		return nil, err
	}
	commit, err := s.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, err
	}
	return commit.Tree()
}

func fileFromTree(tree *object.Tree, path string) (*object.File, error) {
	if tree == nil {
		return nil, nil
	}
	f, err := tree.File(path)
	if err == object.ErrFileNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func fileFromIndex(idx *gitindex.Index, repo *gitlib.Repository, path string) (*object.File, error) {
	if idx == nil || repo == nil {
		return nil, nil
	}
	entry, err := idx.Entry(path)
	if err == gitindex.ErrEntryNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	blob, err := object.GetBlob(repo.Storer, entry.Hash)
	if err != nil {
		return nil, err
	}
	return object.NewFile(entry.Name, entry.Mode, blob), nil
}

func fileFromDisk(root, path string) (*object.File, error) {
	if root == "" {
		return nil, fmt.Errorf("repository root not set")
	}
	file, err := os.Open(filepath.Join(root, path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	mem := &plumbing.MemoryObject{}
	mem.SetType(plumbing.BlobObject)
	if _, err := mem.Write(data); err != nil {
		return nil, err
	}
	blob, err := object.DecodeBlob(mem)
	if err != nil {
		return nil, err
	}
	mode := filemode.Regular
	if info, err := file.Stat(); err == nil {
		if m, err := filemode.NewFromOSFileMode(info.Mode()); err == nil {
			mode = m
		}
	}
	return object.NewFile(path, mode, blob), nil
}

func binaryChange(from, to *object.File) (bool, error) {
	for _, f := range []*object.File{from, to} {
		if f == nil {
			continue
		}
		bin, err := f.IsBinary()
		if err != nil {
			return false, err
		}
		if bin {
			return true, nil
		}
	}
	return false, nil
}

func fileLines(f *object.File) ([]string, error) {
	if f == nil {
		return []string{}, nil
	}
	content, err := f.Contents()
	if err != nil {
		return nil, err
	}
	return difflib.SplitLines(content), nil
}
