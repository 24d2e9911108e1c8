package task

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/rivo/uniseg"

	"dayplan/internal/timeutil"
)

const (
	MaxActivityLen = 50
	MaxEmojiLen    = 2
)

var (
	ErrActivityRequired = errors.New("activity is required")
	ErrActivityTooLong  = fmt.Errorf("activity must be at most %d characters", MaxActivityLen)
	ErrEmojiRequired    = errors.New("emoji is required")
	ErrEmojiTooLong     = fmt.Errorf("emoji must be at most %d characters", MaxEmojiLen)
	ErrInvalidTime      = errors.New("time must be HH:MM")
	ErrEndBeforeStart   = errors.New("end time must be after start time")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrNotArray         = errors.New("persisted tasks are not an array")
)

// ValidationError carries the field that failed so a form can show the message inline.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks a draft before it is added or saved.
func Validate(d Draft) error {
	activity := strings.TrimSpace(d.Activity)
	switch {
	case activity == "":
		return &ValidationError{Field: "activity", Err: ErrActivityRequired}
	case utf8.RuneCountInString(activity) > MaxActivityLen:
		return &ValidationError{Field: "activity", Err: ErrActivityTooLong}
	}

	emoji := strings.TrimSpace(d.Emoji)
	switch {
	case emoji == "":
		return &ValidationError{Field: "emoji", Err: ErrEmojiRequired}
	case uniseg.GraphemeClusterCount(emoji) > MaxEmojiLen:
		return &ValidationError{Field: "emoji", Err: ErrEmojiTooLong}
	}

	if !d.Category.Valid() {
		return &ValidationError{Field: "category", Err: fmt.Errorf("%w: %q", ErrUnknownCategory, d.Category)}
	}
	if !timeutil.Valid(d.StartTime) {
		return &ValidationError{Field: "start", Err: ErrInvalidTime}
	}
	if !timeutil.Valid(d.EndTime) {
		return &ValidationError{Field: "end", Err: ErrInvalidTime}
	}
	if timeutil.Minutes(d.EndTime) <= timeutil.Minutes(d.StartTime) {
		return &ValidationError{Field: "end", Err: ErrEndBeforeStart}
	}
	return nil
}
