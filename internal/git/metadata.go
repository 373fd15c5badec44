package git

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-git/go-git/v5/plumbing"
	diff "github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/ddaniel27/gitlogue/internal/playback"
)

// metadataAt builds the replayable form of one commit: summary plus the
// first-parent diff classified line by line.
func (s *Service) metadataAt(hash plumbing.Hash) (*playback.Commit, error) {
	commit, err := s.repo.CommitObject(hash)
	if err != nil {
		return nil, fmt.Errorf("read commit %s: %w", hash, err)
	}
	text, err := commitDiffText(commit)
	if err != nil {
		return nil, err
	}
	return &playback.Commit{
		Hash:    commit.Hash.String(),
		Summary: summaryLine(commit.Message),
		Author:  commit.Author.Name,
		When:    commit.Committer.When,
		Files:   parseUnifiedPatch(text),
	}, nil
}

func commitDiffText(commit *object.Commit) (string, error) {
	currentTree, err := commit.Tree()
	if err != nil {
		return "", err
	}
	var parentTree *object.Tree
	if commit.NumParents() > 0 {
		parent, err := commit.Parent(0)
		if err != nil {
			return "", err
		}
		parentTree, err = parent.Tree()
		if err != nil {
			return "", err
		}
	}
	changes, err := object.DiffTree(parentTree, currentTree)
	if err != nil {
		return "", err
	}
	if len(changes) == 0 {
		return "", nil
	}
	patch, err := changes.Patch()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	enc := diff.NewUnifiedEncoder(&buf, diff.DefaultContextLines)
	if err := enc.Encode(patch); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func summaryLine(message string) string {
	return strings.SplitN(strings.TrimSpace(message), "\n", 2)[0]
}

// parseUnifiedPatch splits unified diff text into per-file classified
// lines. File boundaries come from "diff --git" markers; metadata lines
// between the marker and the first hunk are dropped, hunk headers stay as
// context so the replay keeps their cadence.
func parseUnifiedPatch(text string) []playback.FileChange {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var files []playback.FileChange
	var current *playback.FileChange
	inHunk := false
	for line := range strings.SplitSeq(strings.TrimSuffix(text, "\n"), "\n") {
		if strings.HasPrefix(line, "diff --git ") {
			if current != nil {
				files = append(files, *current)
			}
			current = &playback.FileChange{Path: parseDiffGitPath(line)}
			inHunk = false
			continue
		}
		if current == nil {
			continue
		}
		if strings.HasPrefix(line, "@@") {
			inHunk = true
			current.Lines = append(current.Lines, playback.DiffLine{Kind: playback.KindContext, Text: line})
			continue
		}
		if !inHunk {
			if strings.HasPrefix(line, "Binary files ") {
				current.Lines = append(current.Lines, playback.DiffLine{Kind: playback.KindContext, Text: line})
			}
			continue
		}
		current.Lines = append(current.Lines, classifyDiffLine(line))
	}
	if current != nil {
		files = append(files, *current)
	}
	return files
}

func classifyDiffLine(line string) playback.DiffLine {
	var kind playback.LineKind
	var text string
	switch {
	case strings.HasPrefix(line, "+"):
		kind, text = playback.KindAdded, line[1:]
	case strings.HasPrefix(line, "-"):
		kind, text = playback.KindRemoved, line[1:]
	case strings.HasPrefix(line, " "):
		kind, text = playback.KindContext, line[1:]
	default:
		// "\ No newline at end of file" and stray empties.
		kind, text = playback.KindContext, line
	}
	if strings.TrimSpace(text) == "" {
		kind = playback.KindBlank
	}
	return playback.DiffLine{Kind: kind, Text: text}
}

// parseDiffGitPath extracts the post-image path from a "diff --git" line,
// handling quoted paths with escapes.
func parseDiffGitPath(line string) string {
	const prefix = "diff --git "
	tokens := diffLineTokens(strings.TrimSpace(line[len(prefix):]))
	if len(tokens) < 2 {
		return ""
	}
	token := tokens[1]
	token = strings.TrimPrefix(token, "a/")
	token = strings.TrimPrefix(token, "b/")
	return token
}

func diffLineTokens(s string) []string {
	var tokens []string
	for {
		s = strings.TrimLeft(s, " \t")
		if s == "" {
			break
		}
		if s[0] == '"' {
			var buf strings.Builder
			escaped := false
			i := 1
			for i < len(s) {
				ch := s[i]
				if escaped {
					buf.WriteByte(ch)
					escaped = false
					i++
					continue
				}
				if ch == '\\' {
					escaped = true
					i++
					continue
				}
				if ch == '"' {
					i++
					break
				}
				buf.WriteByte(ch)
				i++
			}
			tokens = append(tokens, buf.String())
			s = s[i:]
			continue
		}
		j := 0
		for j < len(s) && s[j] != ' ' && s[j] != '\t' {
			j++
		}
		tokens = append(tokens, s[:j])
		s = s[j:]
	}
	return tokens
}
