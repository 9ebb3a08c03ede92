package internal

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	req := require.New(t)
	// Given a directory without .env and a clean environment
	t.Chdir(t.TempDir())
	for _, key := range []string{"HOST", "PORT", "LOG_LEVEL", "IDLE_TIMEOUT", "CENSORED_WORDS", "CENSORED_WORDS_FILE",
		"OUTBOX_SIZE", "MAX_LINE_LENGTH", "REGISTRATION_TIMEOUT", "CHARACTER_REPLACEMENT"} {
		t.Setenv(key, "")
		req.NoError(os.Unsetenv(key))
	}

	config, err := LoadConfig()

	req.NoError(err)
	req.Equal(8000, config.Port)
	req.Equal("0.0.0.0:8000", config.ChatAddr())
	req.Equal(64, config.OutboxSize)
	req.Equal(1024, config.MaxLineLength)
	req.Equal(30*time.Second, config.RegistrationTimeout)
	req.Zero(config.IdleTimeout)
	req.False(config.ModerationEnabled())
}

func TestLoadConfig_Overrides_And_Validation(t *testing.T) {
	req := require.New(t)
	t.Chdir(t.TempDir())
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9000")
	t.Setenv("IDLE_TIMEOUT", "5m")
	t.Setenv("CENSORED_WORDS", "troll,spam")

	config, err := LoadConfig()
	req.NoError(err)
	req.Equal("127.0.0.1:9000", config.ChatAddr())
	req.Equal(5*time.Minute, config.IdleTimeout)
	req.True(config.ModerationEnabled())

	t.Setenv("PORT", "70000")
	_, err = LoadConfig()
	req.Error(err)

	t.Setenv("PORT", "9000")
	t.Setenv("CHARACTER_REPLACEMENT", "##")
	_, err = LoadConfig()
	req.Error(err)
}

func TestCharacterRune(t *testing.T) {
	req := require.New(t)
	r, err := CharacterRune("€")
	req.NoError(err)
	req.Equal('€', r)

	_, err = CharacterRune("")
	req.Error(err)
}
