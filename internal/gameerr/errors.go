// Package gameerr defines the classified failures returned by the session
// engine and the persistence layer.
package gameerr

import (
	"fmt"
	"strconv"
)

// Code is a machine-readable failure class.
type Code string

const (
	CodeInsufficientFunds Code = "insufficient_funds"
	CodeInventoryFull     Code = "inventory_full"
	CodeRoomLocked        Code = "room_locked"
	CodeWrongItem         Code = "wrong_item"
	CodeSaveCorrupted     Code = "save_corrupted"
	CodeRoomIncomplete    Code = "room_incomplete"
	CodeNoNextRoom        Code = "no_next_room"
	CodeInvalidRoom       Code = "invalid_room"
	CodeItemNotOwned      Code = "item_not_owned"
	CodePuzzleNotFound    Code = "puzzle_not_found"
)

// Sentinels for errors.Is; matching is by code only.
var (
	ErrInsufficientFunds = &Error{Code: CodeInsufficientFunds, Message: "insufficient funds"}
	ErrInventoryFull     = &Error{Code: CodeInventoryFull, Message: "inventory full"}
	ErrRoomLocked        = &Error{Code: CodeRoomLocked, Message: "room locked"}
	ErrWrongItem         = &Error{Code: CodeWrongItem, Message: "wrong item"}
	ErrSaveCorrupted     = &Error{Code: CodeSaveCorrupted, Message: "save corrupted"}
	ErrRoomIncomplete    = &Error{Code: CodeRoomIncomplete, Message: "room incomplete"}
	ErrNoNextRoom        = &Error{Code: CodeNoNextRoom, Message: "no next room"}
	ErrInvalidRoom       = &Error{Code: CodeInvalidRoom, Message: "invalid room"}
	ErrItemNotOwned      = &Error{Code: CodeItemNotOwned, Message: "item not owned"}
	ErrPuzzleNotFound    = &Error{Code: CodePuzzleNotFound, Message: "puzzle not found"}
)

// Metadata keys.
const (
	KeyRequired  = "required"
	KeyAvailable = "available"
	KeyCurrent   = "current"
	KeyMax       = "max"
	KeyRoom      = "room"
	KeyRoomName  = "room_name"
	KeyItem      = "item"
	KeyStep      = "step"
	KeyRecovery  = "recovery"
)

// Error is a classified failure with structured metadata.
type Error struct {
	Code     Code
	Message  string
	Metadata map[string]string
	Cause    error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error { return e.Cause }

// Is reports whether target has the same code.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Code == t.Code
	}
	return false
}

// Get returns a metadata value, or "" when absent.
func (e *Error) Get(key string) string {
	if e.Metadata == nil {
		return ""
	}
	return e.Metadata[key]
}

// Int returns a numeric metadata value, or 0 when absent or not a number.
func (e *Error) Int(key string) int {
	n, err := strconv.Atoi(e.Get(key))
	if err != nil {
		return 0
	}
	return n
}

// New creates a classified error.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithMetadata creates a classified error carrying metadata.
func WithMetadata(code Code, message string, metadata map[string]string) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata}
}

// Wrap creates a classified error around a cause.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// WrapWithMetadata creates a classified error with metadata and a cause.
func WrapWithMetadata(code Code, message string, metadata map[string]string, cause error) *Error {
	return &Error{Code: code, Message: message, Metadata: metadata, Cause: cause}
}

// InsufficientFunds reports a draw the player cannot pay for.
func InsufficientFunds(required, available int) *Error {
	return WithMetadata(CodeInsufficientFunds,
		fmt.Sprintf("insufficient funds: need %d coins, have %d", required, available),
		map[string]string{
			KeyRequired:  strconv.Itoa(required),
			KeyAvailable: strconv.Itoa(available),
		})
}

// InventoryFull reports an item that did not fit.
func InventoryFull(current, max int, item string) *Error {
	return WithMetadata(CodeInventoryFull,
		fmt.Sprintf("inventory full (%d/%d): %s was lost", current, max, item),
		map[string]string{
			KeyCurrent: strconv.Itoa(current),
			KeyMax:     strconv.Itoa(max),
			KeyItem:    item,
		})
}

// RoomLocked reports navigation to a gated room.
func RoomLocked(number int, name string) *Error {
	return WithMetadata(CodeRoomLocked,
		fmt.Sprintf("room %d (%s) is locked", number, name),
		map[string]string{
			KeyRoom:     strconv.Itoa(number),
			KeyRoomName: name,
		})
}

// WrongItem reports an item that does not fit a puzzle.
func WrongItem(item, puzzle string) *Error {
	return WithMetadata(CodeWrongItem,
		fmt.Sprintf("%s does not work on %s", item, puzzle),
		map[string]string{KeyItem: item})
}

// SaveCorrupted reports a failed save or load. step names the stage that
// failed and recovery how the automatic restoration went.
func SaveCorrupted(step, recovery string, cause error) *Error {
	msg := fmt.Sprintf("save corrupted at %s", step)
	if recovery != "" {
		msg = fmt.Sprintf("%s (recovery %s)", msg, recovery)
	}
	return WrapWithMetadata(CodeSaveCorrupted, msg,
		map[string]string{
			KeyStep:     step,
			KeyRecovery: recovery,
		}, cause)
}
