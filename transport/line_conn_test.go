package transport

import (
	"bufio"
	"chat-relay/errors"
	"io"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLineConn_ReadLine(t *testing.T) {
	req := require.New(t)
	client, server := net.Pipe()
	conn := NewLineConn(server, 64)

	// Given a client pipelining several commands in one write
	go func() {
		_, _ = io.WriteString(client, "alice\n/join general\r\n/msgCh general hello world")
		_ = client.Close()
	}()

	// Then every command is read separately
	for _, expected := range []string{"alice", "/join general", "/msgCh general hello world"} {
		line, err := conn.ReadLine()
		req.NoError(err)
		req.Equal(expected, line)
	}
	_, err := conn.ReadLine()
	req.ErrorIs(err, io.EOF)
}

func TestLineConn_ReadLine_Too_Long(t *testing.T) {
	req := require.New(t)
	client, server := net.Pipe()
	conn := NewLineConn(server, 8)
	defer conn.Close()

	go func() {
		_, _ = io.WriteString(client, strings.Repeat("x", 64)+"\n")
		_ = client.Close()
	}()

	_, err := conn.ReadLine()
	req.ErrorIs(err, errors.ErrLineTooLong)
}

func TestLineConn_ReadLine_Length_Boundary(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		tooLong bool
	}{
		{name: "Exactly the limit", input: strings.Repeat("x", 10) + "\n"},
		{name: "Exactly the limit with CRLF", input: strings.Repeat("x", 10) + "\r\n"},
		{name: "One byte over the limit", input: strings.Repeat("x", 11) + "\n", tooLong: true},
		{name: "One byte over the limit with CRLF", input: strings.Repeat("x", 11) + "\r\n", tooLong: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			client, server := net.Pipe()
			conn := NewLineConn(server, 10)
			defer conn.Close()

			go func() {
				_, _ = io.WriteString(client, tt.input)
				_ = client.Close()
			}()

			line, err := conn.ReadLine()
			if tt.tooLong {
				req.ErrorIs(err, errors.ErrLineTooLong)
				return
			}
			req.NoError(err)
			req.Equal(strings.Repeat("x", 10), line)
		})
	}
}

func TestLineConn_WriteLine(t *testing.T) {
	req := require.New(t)
	client, server := net.Pipe()
	conn := NewLineConn(server, 0)
	defer conn.Close()

	go func() {
		_ = conn.WriteLine("Goodbye alice!")
	}()

	line, err := bufio.NewReader(client).ReadString('\n')
	req.NoError(err)
	req.Equal("Goodbye alice!\n", line)
	req.NotEmpty(conn.RemoteAddr())
}
