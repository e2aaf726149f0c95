package moderation

import (
	"testing"
	"testing/fstest"

	"chat-relay/errors"

	"github.com/stretchr/testify/require"
)

func TestModerator_Censor_ReplacesMatchedSpans(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"heck", "darn"}, '*')
	req.NoError(err)

	req.Equal("what the ****", mod.Censor("what the heck"))
	req.Equal("**** it, **** it all", mod.Censor("darn it, heck it all"))
	req.Equal("nothing to see here", mod.Censor("nothing to see here"))
}

func TestModerator_Censor_IsCaseInsensitive(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"heck"}, '*')
	req.NoError(err)

	// The span length matches the original casing exactly
	req.Equal("WHAT THE ****", mod.Censor("WHAT THE HECK"))
	req.Equal("****", mod.Censor("hEcK"))
}

func TestModerator_Censor_MultiWordPhrase(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"shut up"}, '*')
	req.NoError(err)

	req.Equal("please ******* now", mod.Censor("please shut up now"))
}

func TestModerator_Censor_KeepsRuneAlignment(t *testing.T) {
	req := require.New(t)
	mod, err := NewModerator([]string{"heck"}, '*')
	req.NoError(err)

	// Multi-byte runes before the match must not shift the censored span
	req.Equal("héllo ****", mod.Censor("héllo heck"))
}

func TestNewModerator_EmptyWordList(t *testing.T) {
	req := require.New(t)

	_, err := NewModerator(nil, '*')
	req.ErrorIs(err, errors.ErrEmptyWordList)

	// Blank entries do not count
	_, err = NewModerator([]string{"", "  "}, '*')
	req.ErrorIs(err, errors.ErrEmptyWordList)
}

func TestNewModeratorFromFS_SkipsCommentsAndBlanks(t *testing.T) {
	req := require.New(t)
	fsys := fstest.MapFS{
		"words/en.txt": {Data: []byte("# comment\nheck\n\ndarn\n")},
		"words/fr.txt": {Data: []byte("zut\n")},
	}

	mod, err := NewModeratorFromFS(fsys, "words", '#')
	req.NoError(err)

	req.Equal("### alors, ####!", mod.Censor("zut alors, heck!"))
	req.Equal("# comment", mod.Censor("# comment"))
}

func TestNewDefaultModerator_LoadsEmbeddedList(t *testing.T) {
	req := require.New(t)

	mod, err := NewDefaultModerator('*')
	req.NoError(err)
	req.Equal("oh ****", mod.Censor("oh damn"))
}
