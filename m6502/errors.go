package m6502

import (
	"fmt"
	"strings"
)

// RangeError reports an invalid address range: a bus constructed with bad
// bounds, or a device whose declared range cannot be registered.
type RangeError struct {
	Name  string
	Start int
	End   int
	Msg   string
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("range fault: %s [0x%04x-0x%04x]: %s", e.Name, e.Start, e.End, e.Msg)
}

// AccessError reports a read or write that a device could not serve.
type AccessError struct {
	Name    string
	Address int
	Write   bool
	Msg     string
}

func (e *AccessError) Error() string {
	op := "read"
	if e.Write {
		op = "write"
	}
	return fmt.Sprintf("access fault: %s %s 0x%04x: %s", e.Name, op, e.Address, e.Msg)
}

// DecodeError means the instruction table has no usable entry for an opcode.
// The table is validated at init, so seeing one is a programming error.
type DecodeError struct {
	Opcode byte
	Family Family
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode fault: opcode=0x%02x family=%s", e.Opcode, e.Family)
}

// SizeMismatchError reports a ROM image that does not fill its window exactly.
type SizeMismatchError struct {
	Want int
	Got  int
}

func (e *SizeMismatchError) Error() string {
	return fmt.Sprintf("ROM image must be exactly %d bytes, got %d", e.Want, e.Got)
}

// ErrorSet collects the failures of an operation that keeps going past the
// first one, such as resetting every device on a bus.
type ErrorSet []error

func (e ErrorSet) Len() int { return len(e) }

// Append adds the non-nil errors in errs.
func (e *ErrorSet) Append(errs ...error) {
	for _, err := range errs {
		if err != nil {
			*e = append(*e, err)
		}
	}
}

// Err returns nil for an empty set and the set otherwise.
func (e ErrorSet) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e ErrorSet) Error() string {
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap lets errors.Is and errors.As look inside the set.
func (e ErrorSet) Unwrap() []error { return e }
