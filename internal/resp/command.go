package resp

import (
	"bytes"
	"strconv"
	"strings"
)

// EncodeCommand converts a single-line, space-separated command such as
// "LLEN mylist" into its wire form, always framed as an array, single
// token commands like PING included. Splitting is naive: tokens are
// separated by single spaces, runs of spaces collapse, and quotes are
// ordinary characters. A token whose first byte is a decimal digit is
// sent as an integer, every other token as a bulk string; arguments
// that must reach the server as bulk data regardless of their first
// byte go through EncodeArgs instead.
func EncodeCommand(command string) ([]byte, error) {
	pieces := strings.Split(command, " ")
	tokens := pieces[:0]
	for _, piece := range pieces {
		if piece != "" {
			tokens = append(tokens, piece)
		}
	}
	if len(tokens) == 0 {
		return nil, ErrEmptyCommand
	}

	var buf bytes.Buffer
	writeArrayHeader(&buf, len(tokens))
	for _, token := range tokens {
		if token[0] >= '0' && token[0] <= '9' {
			// The token text goes out verbatim after the ':' tag, the
			// server is the one validating it as a number.
			buf.WriteByte(TypeInteger)
			buf.WriteString(token)
			buf.WriteString("\r\n")
		} else {
			writeBulkString(&buf, token)
		}
	}
	return buf.Bytes(), nil
}

// EncodeArgs encodes already-split command arguments following the
// request convention servers enforce: an array of bulk strings only.
// Arguments may therefore contain spaces, digits and arbitrary bytes.
func EncodeArgs(args ...string) ([]byte, error) {
	if len(args) == 0 {
		return nil, ErrEmptyCommand
	}

	elements := make([]Value, len(args))
	for i, arg := range args {
		elements[i] = MakeBulkString(arg)
	}

	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	if err := enc.Write(MakeArray(elements)); err != nil {
		return nil, err
	}
	if err := enc.Flush(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeArrayHeader(buf *bytes.Buffer, n int) {
	buf.WriteByte(TypeArray)
	buf.WriteString(strconv.Itoa(n))
	buf.WriteString("\r\n")
}

func writeBulkString(buf *bytes.Buffer, token string) {
	buf.WriteByte(TypeBulkString)
	buf.WriteString(strconv.Itoa(len(token)))
	buf.WriteString("\r\n")
	buf.WriteString(token)
	buf.WriteString("\r\n")
}
