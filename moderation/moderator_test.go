package moderation

import (
	"chat-relay/errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

const replacementChar = '*'

// Dictionary words are long enough not to hide inside ordinary words once spaces are dropped.
func TestModerator_Censor(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	mod, err := NewModerator([]string{"spam", "scam", "phishing"}, replacementChar, log)
	req.NoError(err)

	tests := []struct {
		name     string
		input    string
		expected string
		words    []string
	}{
		{
			name:     "Single word inside a channel message",
			input:    "join #general for spam deals",
			expected: "join #general for **** deals",
			words:    []string{"spam"},
		},
		{
			name:     "Repeated word keeps spacing",
			input:    "spam spam",
			expected: "**** ****",
			words:    []string{"spam", "spam"},
		},
		{
			name:     "Leet characters separated by dots",
			input:    "Buy $.P.4.m now",
			expected: "Buy ******* now",
			words:    []string{"spam"},
		},
		{
			name:     "Two words spelled out with separators",
			input:    "S-C-A-M and P.H.I.S.H.I.N.G",
			expected: "******* and ***************",
			words:    []string{"scam", "phishing"},
		},
		{
			name:     "Accented text around the match",
			input:    "Un été plein de spam",
			expected: "Un été plein de ****",
			words:    []string{"spam"},
		},
		{
			name:     "Trailing exclamation mark is kept",
			input:    "Stop the scam!",
			expected: "Stop the ****!",
			words:    []string{"scam"},
		},
		{
			name:     "Clean message",
			input:    "Chat relay is amazing",
			expected: "Chat relay is amazing",
			words:    nil,
		},
		{
			name:     "Empty body",
			input:    "",
			expected: "",
			words:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, words := mod.Censor(tt.input)
			require.Equal(t, tt.expected, body)
			require.Equal(t, tt.words, words)
		})
	}
}

func TestModerator_Ignores_Punctuation_Only_Entries(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	// Given a dictionary polluted with punctuation and blanks
	mod, err := NewModerator([]string{"...", ",,,", "", "scam"}, replacementChar, log)
	req.NoError(err)

	// When a message contains the real entry
	body, words := mod.Censor("This scam is obvious")

	// Then only that entry is masked
	req.Equal("This **** is obvious", body)
	req.Equal([]string{"scam"}, words)

	// When a message only contains punctuation
	body, words = mod.Censor("Wait ...")

	// Then it is left alone
	req.Equal("Wait ...", body)
	req.Nil(words)
}

func TestNewModerator_Without_Usable_Words(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)

	_, err := NewModerator([]string{"...", " "}, replacementChar, log)

	req.ErrorIs(err, errors.ErrEmptyWords)
}

func TestParseWords(t *testing.T) {
	req := require.New(t)
	req.Equal([]string{"spam", "scam"}, ParseWords(" spam, ,scam,"))
	req.Nil(ParseWords(""))
}

func TestLoadWordsFile(t *testing.T) {
	req := require.New(t)
	path := filepath.Join(t.TempDir(), "words.yaml")
	req.NoError(os.WriteFile(path, []byte("words:\n  - spam\n  - phishing\n"), 0o600))

	words, err := LoadWordsFile(path)

	req.NoError(err)
	req.Equal([]string{"spam", "phishing"}, words)

	_, err = LoadWordsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	req.Error(err)
}
