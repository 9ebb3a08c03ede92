package internal

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Host          string `env:"HOST,default=0.0.0.0" validate:"omitempty,ip|hostname"`
	Port          int    `env:"PORT,default=8000" validate:"min=1,max=65535"`
	WebSocketAddr string `env:"WS_ADDR" validate:"omitempty,hostname_port"`
	AdminGrpcAddr string `env:"ADMIN_GRPC_ADDR" validate:"omitempty,hostname_port"`
	DebugAddr     string `env:"DEBUG_ADDR" validate:"omitempty,hostname_port"`
	LogLevel      string `env:"LOG_LEVEL,default=INFO" validate:"oneof=DEBUG INFO WARN ERROR debug info warn error"`

	OutboxSize          int           `env:"OUTBOX_SIZE,default=64" validate:"min=1"`
	MaxLineLength       int           `env:"MAX_LINE_LENGTH,default=1024" validate:"min=16"`
	RegistrationTimeout time.Duration `env:"REGISTRATION_TIMEOUT,default=30s" validate:"min=0"`
	IdleTimeout         time.Duration `env:"IDLE_TIMEOUT" validate:"min=0"`
	WriteTimeout        time.Duration `env:"WRITE_TIMEOUT,default=10s" validate:"min=0"`
	ShutdownTimeout     time.Duration `env:"SHUTDOWN_TIMEOUT,default=5s" validate:"gt=0"`
	StatsInterval       time.Duration `env:"STATS_INTERVAL,default=30s" validate:"gt=0"`
	RestartInterval     time.Duration `env:"RESTART_INTERVAL,default=1s" validate:"gt=0"`

	BadgerFilepath    string `env:"BADGER_FILEPATH"`
	CensoredWords     string `env:"CENSORED_WORDS"`
	CensoredWordsFile string `env:"CENSORED_WORDS_FILE" validate:"omitempty,file"`
	CharReplacement   string `env:"CHARACTER_REPLACEMENT,default=*"`
}

// LoadConfig reads an optional .env file, then the environment, then validates the result.
// Variables already set in the environment win over the .env file.
func LoadConfig() (Config, error) {
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := validator.New().Struct(config); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	if _, err := CharacterRune(config.CharReplacement); err != nil {
		return Config{}, err
	}
	return config, nil
}

// ChatAddr is the address of the line protocol listener.
func (c Config) ChatAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// ModerationEnabled reports whether any censored word source is configured.
func (c Config) ModerationEnabled() bool {
	return c.CensoredWords != "" || c.CensoredWordsFile != ""
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf(
			"CHARACTER_REPLACEMENT must be a single character, got %q",
			str,
		)
	}
	return r[0], nil
}
