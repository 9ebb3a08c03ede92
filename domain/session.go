// Package domain contains core concepts of the chat system.
// This file defines Session and Channel naming rules.
// No runtime, network, or UI logic should be added here.
package domain

import (
	"chat-relay/errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("nowhitespace", func(fl validator.FieldLevel) bool {
		return !strings.ContainsFunc(fl.Field().String(), unicode.IsSpace)
	})
	return v
}

// ValidateNickname rejects empty nicknames and nicknames containing whitespace,
// since the latter could not be addressed by /msg.
func ValidateNickname(nickname string) error {
	if strings.TrimSpace(nickname) == "" {
		return errors.ErrEmptyNickname
	}
	if err := validate.Var(nickname, "required,nowhitespace"); err != nil {
		return fmt.Errorf("%w: %q", errors.ErrInvalidNickname, nickname)
	}
	return nil
}

// ValidateChannel applies the same rule to channel names.
func ValidateChannel(channel string) error {
	if err := validate.Var(channel, "required,nowhitespace"); err != nil {
		return fmt.Errorf("%w: %q", errors.ErrInvalidChannel, channel)
	}
	return nil
}

// JoinResult tells a first join apart from a repeated one.
type JoinResult int

const (
	Joined JoinResult = iota + 1
	AlreadyMember
)

func (r JoinResult) String() string {
	switch r {
	case Joined:
		return "joined"
	case AlreadyMember:
		return "already member"
	default:
		return "unknown join result"
	}
}

// LeaveResult reports the outcome of a leave. None of the outcomes is an error.
type LeaveResult int

const (
	Removed LeaveResult = iota + 1
	NotMember
	NoSuchChannel
)

func (r LeaveResult) String() string {
	switch r {
	case Removed:
		return "removed"
	case NotMember:
		return "not member"
	case NoSuchChannel:
		return "no such channel"
	default:
		return "unknown leave result"
	}
}
