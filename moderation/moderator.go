// Package moderation censors forbidden words in message content before the
// relay persists and broadcasts it.
package moderation

import (
	"bufio"
	"io/fs"
	"strings"
	"unicode"

	"chat-relay/errors"

	goahocorasick "github.com/anknown/ahocorasick"
	"github.com/samber/lo"
)

// Moderator matches a word list against lowercased content with an
// Aho-Corasick automaton and overwrites matched spans.
type Moderator struct {
	matcher     *goahocorasick.Machine
	replacement rune
}

// NewModerator builds the automaton from the given words. Matching is
// case-insensitive; the word list is deduplicated after lowercasing.
func NewModerator(words []string, replacement rune) (*Moderator, error) {
	words = lo.Uniq(lo.Map(words, func(w string, _ int) string {
		return strings.ToLower(strings.TrimSpace(w))
	}))
	words = lo.Filter(words, func(w string, _ int) bool { return w != "" })
	if len(words) == 0 {
		return nil, errors.ErrEmptyWordList
	}

	patterns := make([][]rune, len(words))
	for i, w := range words {
		patterns[i] = []rune(w)
	}
	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return nil, err
	}
	return &Moderator{matcher: m, replacement: replacement}, nil
}

// NewModeratorFromFS loads every file under dir as a newline-separated word
// list and builds a moderator from the union.
func NewModeratorFromFS(fsys fs.FS, dir string, replacement rune) (*Moderator, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var words []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		f, err := fsys.Open(dir + "/" + entry.Name())
		if err != nil {
			return nil, err
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if line := strings.TrimSpace(scanner.Text()); line != "" && !strings.HasPrefix(line, "#") {
				words = append(words, line)
			}
		}
		closeErr := f.Close()
		if err := scanner.Err(); err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
	}
	return NewModerator(words, replacement)
}

// Censor replaces every matched span with the replacement rune. Lowercasing
// keeps rune positions aligned with the original, so spans map one-to-one.
func (m *Moderator) Censor(original string) string {
	runes := []rune(original)
	lowered := make([]rune, len(runes))
	for i, r := range runes {
		lowered[i] = unicode.ToLower(r)
	}

	spans := m.matcher.MultiPatternSearch(lowered, false)
	if len(spans) == 0 {
		return original
	}
	for _, span := range spans {
		for i := span.Pos; i < span.Pos+len(span.Word) && i < len(runes); i++ {
			runes[i] = m.replacement
		}
	}
	return string(runes)
}
