package moderation

import "embed"

//go:embed words/*.txt
var wordFiles embed.FS

// NewDefaultModerator builds a moderator from the embedded word lists.
func NewDefaultModerator(replacement rune) (*Moderator, error) {
	return NewModeratorFromFS(wordFiles, "words", replacement)
}
