package resp

import (
	"fmt"
	"strings"
)

// ErrorKind selects one failure class of the decoder.
type ErrorKind uint8

const (
	// KindUnexpectedByte: a CRLF terminator was expected but something
	// else is at that position.
	KindUnexpectedByte ErrorKind = iota + 1
	// KindUnexpectedEndOfInput: the buffer ran out while a tag byte, a
	// digit run or a declared-length payload was still expected.
	KindUnexpectedEndOfInput
	// KindUnexpectedType: an integer lexeme did not parse.
	KindUnexpectedType
	// KindUnexpectedValue: a length prefix was below -1.
	KindUnexpectedValue
	// KindUnknownTag: the first byte of a unit is not one of + - : $ *.
	KindUnknownTag
)

// ParseError describes one decode failure. Offset and Length locate the
// offending bytes in the input buffer; a stream decoder that cannot know
// offsets sets Offset to -1.
type ParseError struct {
	Kind     ErrorKind
	Offset   int
	Length   int
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	switch e.Kind {
	case KindUnexpectedByte:
		return fmt.Sprintf("unexpected byte at offset %d", e.Offset)
	case KindUnexpectedEndOfInput:
		return "the input ended unexpectedly"
	case KindUnexpectedType:
		return fmt.Sprintf("expected %s but got %q", e.Expected, e.Got)
	case KindUnexpectedValue:
		return fmt.Sprintf("expected value to be %s but got %s", e.Expected, e.Got)
	case KindUnknownTag:
		return fmt.Sprintf("unknown type tag %q at offset %d", e.Got, e.Offset)
	}
	return "malformed input"
}

// Is matches any ParseError of the same kind, so callers can write
// errors.Is(err, resp.ErrUnexpectedEndOfInput) without caring about the
// recorded position.
func (e *ParseError) Is(target error) bool {
	t, ok := target.(*ParseError)
	return ok && t.Kind == e.Kind
}

// Kind-only sentinels for errors.Is.
var (
	ErrUnexpectedByte       = &ParseError{Kind: KindUnexpectedByte}
	ErrUnexpectedEndOfInput = &ParseError{Kind: KindUnexpectedEndOfInput}
	ErrUnexpectedType       = &ParseError{Kind: KindUnexpectedType}
	ErrUnexpectedValue      = &ParseError{Kind: KindUnexpectedValue}
	ErrUnknownTag           = &ParseError{Kind: KindUnknownTag}
)

// Annotate renders err against the buffer it came from: the escaped
// input on one line and a caret run under the offending span on the
// next. Presentation only, the error itself carries just the record.
// Falls back to err.Error() when there is nothing to point at.
func Annotate(err error, input []byte) string {
	e, ok := err.(*ParseError)
	if !ok || e.Offset < 0 {
		return err.Error()
	}

	var rendered strings.Builder
	markStart, markEnd := -1, -1
	for i, b := range input {
		if i == e.Offset {
			markStart = rendered.Len()
		}
		rendered.WriteString(escapeByte(b))
		if i == e.Offset+max(e.Length, 1)-1 {
			markEnd = rendered.Len()
		}
	}
	if markStart < 0 {
		// The span points past the end of the input.
		markStart = rendered.Len()
	}
	if markEnd <= markStart {
		markEnd = markStart + 1
	}

	var out strings.Builder
	out.WriteString(e.Error())
	out.WriteString("\n  ")
	out.WriteString(rendered.String())
	out.WriteString("\n  ")
	out.WriteString(strings.Repeat(" ", markStart))
	out.WriteString(strings.Repeat("^", markEnd-markStart))
	return out.String()
}

func escapeByte(b byte) string {
	switch {
	case b == '\r':
		return `\r`
	case b == '\n':
		return `\n`
	case b >= 0x20 && b < 0x7f:
		return string(b)
	default:
		return fmt.Sprintf(`\x%02x`, b)
	}
}

// EncodeError reports a command line that cannot be turned into wire form.
type EncodeError struct {
	msg string
}

func (e *EncodeError) Error() string {
	return e.msg
}

var ErrEmptyCommand = &EncodeError{msg: "empty command"}
