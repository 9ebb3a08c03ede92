package sink_test

import (
	"bufio"
	"chat-relay/errors"
	"chat-relay/sink"
	"chat-relay/transport"
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConnSink_Writes_In_Order_And_Drains_On_Close(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client, server := net.Pipe()
	defer client.Close()
	s := sink.NewConnSink(transport.NewLineConn(server, 0), 8, time.Second)

	// Given lines queued before the writer starts
	req.NoError(s.Send(ctx, "User alice joined channel general"))
	req.NoError(s.Send(ctx, "Goodbye alice!"))
	s.Close()
	go func() { _ = s.Run() }()

	// Then they are all written in order
	reader := bufio.NewReader(client)
	for _, expected := range []string{"User alice joined channel general\n", "Goodbye alice!\n"} {
		line, err := reader.ReadString('\n')
		req.NoError(err)
		req.Equal(expected, line)
	}
	select {
	case <-s.Done():
	case <-time.After(time.Second):
		req.Fail("writer did not stop after drain")
	}

	// And nothing is accepted anymore
	req.ErrorIs(s.Send(ctx, "late"), errors.ErrSinkClosed)
}

func TestConnSink_Full_Outbox_Does_Not_Block(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	_, server := net.Pipe()
	s := sink.NewConnSink(transport.NewLineConn(server, 0), 1, time.Second)

	// Given a peer that never reads and a writer that is not running
	req.NoError(s.Send(ctx, "first"))

	// When another line is sent
	err := s.Send(ctx, "second")

	// Then it fails fast
	req.ErrorIs(err, errors.ErrSinkFull)
}

func TestConnSink_Write_Failure_Closes_Sink(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	client, server := net.Pipe()
	s := sink.NewConnSink(transport.NewLineConn(server, 0), 4, time.Second)

	// Given the peer is gone
	req.NoError(client.Close())
	req.NoError(s.Send(ctx, "[general] bob: hi"))

	// When the writer tries to deliver
	err := s.Run()

	// Then the error is reported and the sink refuses further lines
	req.Error(err)
	req.ErrorIs(s.Send(ctx, "again"), errors.ErrSinkClosed)
}

func TestConnSink_Flush_Times_Out_Without_Writer(t *testing.T) {
	_, server := net.Pipe()
	s := sink.NewConnSink(transport.NewLineConn(server, 0), 1, time.Second)

	require.False(t, s.Flush(10*time.Millisecond))
}
