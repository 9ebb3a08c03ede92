package ws

import (
	"chat-relay/errors"
	stderrors "errors"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const closeGracePeriod = time.Second

// Conn maps the line protocol onto WebSocket text frames: one message in, one command out.
type Conn struct {
	ws            *websocket.Conn
	maxLineLength int
	wmu           sync.Mutex
}

// NewConn lets a frame carry a trailing "\r\n" on top of maxLineLength.
// A larger frame is refused by the socket itself with CloseMessageTooBig.
func NewConn(ws *websocket.Conn, maxLineLength int) *Conn {
	if maxLineLength > 0 {
		ws.SetReadLimit(int64(maxLineLength) + 2)
	}
	return &Conn{ws: ws, maxLineLength: maxLineLength}
}

// ReadLine returns io.EOF when the peer closes the socket normally.
func (c *Conn) ReadLine() (string, error) {
	_, payload, err := c.ws.ReadMessage()
	if err != nil {
		switch {
		case stderrors.Is(err, websocket.ErrReadLimit):
			return "", errors.ErrLineTooLong
		case websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived):
			return "", io.EOF
		default:
			return "", err
		}
	}
	line := strings.TrimRight(string(payload), "\r\n")
	if c.maxLineLength > 0 && len(line) > c.maxLineLength {
		return "", errors.ErrLineTooLong
	}
	return line, nil
}

func (c *Conn) WriteLine(line string) error {
	c.wmu.Lock()
	defer c.wmu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(line))
}

func (c *Conn) SetReadDeadline(t time.Time) error {
	return c.ws.SetReadDeadline(t)
}

func (c *Conn) SetWriteDeadline(t time.Time) error {
	return c.ws.SetWriteDeadline(t)
}

func (c *Conn) RemoteAddr() string {
	return c.ws.RemoteAddr().String()
}

// Close says goodbye at the WebSocket level before dropping the socket.
func (c *Conn) Close() error {
	// a writer stuck on a dead peer keeps the lock; skip the close frame then
	if c.wmu.TryLock() {
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGracePeriod))
		c.wmu.Unlock()
	}
	return c.ws.Close()
}
