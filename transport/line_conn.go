// Package transport frames a byte stream into newline-delimited lines.
package transport

import (
	"bufio"
	"chat-relay/errors"
	stderrors "errors"
	"io"
	"net"
	"sync"
	"time"
)

// DefaultMaxLineLength matches the receive buffer of the historical clients.
const DefaultMaxLineLength = 1024

// LineConn reads one command per '\n' terminated line (a trailing '\r' is dropped)
// and writes every response as one line. The length limit applies to the payload,
// terminators excluded.
type LineConn struct {
	conn          net.Conn
	scanner       *bufio.Scanner
	maxLineLength int
	wmu           sync.Mutex
}

func NewLineConn(conn net.Conn, maxLineLength int) *LineConn {
	if maxLineLength <= 0 {
		maxLineLength = DefaultMaxLineLength
	}
	scanner := bufio.NewScanner(conn)
	// room for "\r\n" on top of the payload; ReadLine checks the payload itself
	scanner.Buffer(make([]byte, 0, min(maxLineLength+2, 4096)), maxLineLength+2)
	return &LineConn{conn: conn, scanner: scanner, maxLineLength: maxLineLength}
}

// ReadLine returns io.EOF once the peer has closed its side.
func (c *LineConn) ReadLine() (string, error) {
	if c.scanner.Scan() {
		line := c.scanner.Text()
		if len(line) > c.maxLineLength {
			return "", errors.ErrLineTooLong
		}
		return line, nil
	}
	err := c.scanner.Err()
	switch {
	case err == nil:
		return "", io.EOF
	case stderrors.Is(err, bufio.ErrTooLong):
		return "", errors.ErrLineTooLong
	default:
		return "", err
	}
}

func (c *LineConn) WriteLine(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	_, err := io.WriteString(c.conn, line+"\n")
	return err
}

func (c *LineConn) SetReadDeadline(t time.Time) error {
	return c.conn.SetReadDeadline(t)
}

func (c *LineConn) SetWriteDeadline(t time.Time) error {
	return c.conn.SetWriteDeadline(t)
}

func (c *LineConn) RemoteAddr() string {
	return c.conn.RemoteAddr().String()
}

func (c *LineConn) Close() error {
	return c.conn.Close()
}
