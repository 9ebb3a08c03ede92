// Package client is the interactive terminal front end of the chat relay.
package client

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net"
	"strings"
	"sync"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
)

// Config defines the client-side environment variables.
type Config struct {
	ServerAddr string `envconfig:"CHAT_SERVER_ADDR" default:"localhost:8000"`
	// CHAT_COLOURS enables colorized output of server lines
	Colours  bool   `envconfig:"CHAT_COLOURS" default:"true"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"WARN"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}

const listCommand = "/list"

// Menu is printed locally on /list; the server never sees that command.
var Menu = []string{
	"/join [channel] -- join a new chat channel.",
	"/leave [channel] -- leave a chat channel.",
	"/msgCh [channel] [message] -- send a message to a specific channel.",
	"/channels -- list channels which you have joined.",
	"/msg [nickname] [message] -- send a private message to a specific user.",
	"/active -- shows currently active users connected to server.",
	"/quit -- disconnect from the server.",
}

type Terminal struct {
	in      io.Reader
	out     io.Writer
	colours bool
	mu      sync.Mutex
}

func NewTerminal(in io.Reader, out io.Writer, colours bool) *Terminal {
	return &Terminal{in: in, out: out, colours: colours}
}

// Run asks for a nickname, registers it and then relays typed commands until
// the user quits, the server goes away or ctx is done. The relay answers the
// nickname with "Welcome <nickname>!" before anything else, or with a rejection
// line followed by a disconnect.
func (t *Terminal) Run(ctx context.Context, conn net.Conn) error {
	input := t.readInput()

	nickname, err := t.askNickname(ctx, input)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(conn, "%s\n", nickname); err != nil {
		return fmt.Errorf("sending nickname: %w", err)
	}

	serverGone := make(chan struct{})
	go func() {
		defer close(serverGone)
		t.listen(conn)
	}()

	for {
		select {
		case <-ctx.Done():
			t.println("Closing client.")
			return nil
		case <-serverGone:
			return nil
		case line, ok := <-input:
			if !ok {
				// stdin closed: leave the same way /quit does
				line = "/quit"
			}
			action := strings.TrimSpace(line)
			switch action {
			case "":
				continue
			case listCommand:
				for _, entry := range Menu {
					t.println(entry)
				}
				continue
			}
			if _, err := fmt.Fprintf(conn, "%s\n", action); err != nil {
				return fmt.Errorf("sending command: %w", err)
			}
			if action == "/quit" {
				t.println("Disconnecting from the server...")
				select {
				case <-serverGone:
				case <-ctx.Done():
				}
				return nil
			}
		}
	}
}

func (t *Terminal) askNickname(ctx context.Context, input <-chan string) (string, error) {
	for {
		t.print("Give nickname to use on the chat: ")
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case line, ok := <-input:
			if !ok {
				return "", io.ErrUnexpectedEOF
			}
			if nickname := strings.TrimSpace(line); nickname != "" {
				return nickname, nil
			}
			t.println("Nickname can't be empty.")
		}
	}
}

// readInput feeds typed lines to a channel so that Run can also watch the server.
func (t *Terminal) readInput() <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(t.in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func (t *Terminal) listen(conn net.Conn) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		t.println(t.paint(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		t.println(fmt.Sprintf("Disconnected from the server with an error: %v", err))
		return
	}
	t.println("Disconnected from the server.")
}

// paint colours channel traffic, direct messages and server notices differently.
func (t *Terminal) paint(line string) string {
	if !t.colours {
		return line
	}
	switch {
	case strings.HasPrefix(line, "["):
		return color.New(color.FgCyan).Render(line)
	case strings.HasPrefix(line, "Invalid command") || strings.HasPrefix(line, "Unknown action"):
		return color.New(color.FgRed).Render(line)
	case strings.Contains(line, ": "):
		return color.New(color.FgYellow).Render(line)
	default:
		return color.New(color.FgGreen).Render(line)
	}
}

func (t *Terminal) print(s string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = io.WriteString(t.out, s)
}

func (t *Terminal) println(s string) {
	t.print(s + "\n")
}
