package errors

import "fmt"

var (
	ErrWorkerPanic = fmt.Errorf("worker panic")

	ErrEmptyNickname   = fmt.Errorf("nickname is empty")
	ErrInvalidNickname = fmt.Errorf("nickname is invalid")
	ErrNicknameTaken   = fmt.Errorf("nickname is already taken")
	ErrSessionNotFound = fmt.Errorf("session not found")

	ErrInvalidChannel  = fmt.Errorf("channel name is invalid")
	ErrChannelNotFound = fmt.Errorf("channel not found")

	ErrSinkFull   = fmt.Errorf("sink outbox is full")
	ErrSinkClosed = fmt.Errorf("sink is closed")

	ErrLineTooLong  = fmt.Errorf("line exceeds maximum length")
	ErrServerClosed = fmt.Errorf("server closed")

	ErrEmptyWords = fmt.Errorf("no words have been found")
)
