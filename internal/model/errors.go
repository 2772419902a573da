package model

import (
	"errors"
	"fmt"
)

// ReplyError is the user-facing failure channel: the bot understood enough
// to answer conversationally but has no command to execute. Callers must
// post Text back to the chat rather than treating it as a fault.
type ReplyError struct {
	Text string
}

func (e *ReplyError) Error() string {
	return e.Text
}

// Replyf builds a ReplyError from a format string.
func Replyf(format string, args ...any) *ReplyError {
	return &ReplyError{Text: fmt.Sprintf(format, args...)}
}

// AsReply unwraps err into a ReplyError if it is one.
func AsReply(err error) (*ReplyError, bool) {
	var re *ReplyError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
