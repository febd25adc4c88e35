package resp

import (
	"bufio"
	"errors"
	"io"
	"strconv"
)

var (
	ErrInvalidEnding = errors.New("invalid line ending")
)

// maxBulkLength is the protocol's cap on a single bulk payload (512MB).
// The length prefix arrives from the peer, so it must be validated
// before it sizes an allocation.
const maxBulkLength = 512 * 1024 * 1024

// Decoder reads RESP values off a stream. Unlike Decode it tolerates
// partial network reads: bufio blocks until each unit is complete, so a
// transport can hand it a raw connection. Position information is lost,
// stream side ParseErrors carry Offset -1.
type Decoder struct {
	rd *bufio.Reader
}

func NewDecoder(rd io.Reader) *Decoder {
	return &Decoder{rd: bufio.NewReader(rd)}
}

// Read decodes the next complete value from the stream.
func (d *Decoder) Read() (Value, error) {
	tag, err := d.rd.ReadByte()
	if err != nil {
		return Value{}, err
	}

	switch tag {
	case TypeSimpleString, TypeError:
		line, err := d.readLine()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: tag, String: line}, nil

	case TypeInteger:
		n, err := d.readInteger()
		if err != nil {
			return Value{}, err
		}
		return Value{Type: TypeInteger, Integer: n}, nil

	case TypeBulkString:
		return d.readBulkString()

	case TypeArray:
		return d.readArray()

	default:
		return Value{}, &ParseError{Kind: KindUnknownTag, Offset: -1, Got: string(tag)}
	}
}

// Buffered returns the number of bytes already read off the connection
// but not yet decoded.
func (d *Decoder) Buffered() int {
	return d.rd.Buffered()
}

// readLine reads up to the next LF and strips the CRLF.
func (d *Decoder) readLine() ([]byte, error) {
	line, err := d.rd.ReadBytes('\n')
	if err != nil {
		return nil, err
	}
	if len(line) < 2 || line[len(line)-2] != '\r' {
		return nil, ErrInvalidEnding
	}
	return line[: len(line)-2 : len(line)-2], nil
}

func (d *Decoder) readInteger() (int64, error) {
	line, err := d.readLine()
	if err != nil {
		return 0, err
	}
	n, err := strconv.ParseInt(string(line), 10, 64)
	if err != nil {
		return 0, &ParseError{Kind: KindUnexpectedType, Offset: -1, Expected: "integer", Got: string(line)}
	}
	return n, nil
}

// readLength applies the length prefix rules shared by bulk strings and
// arrays: exactly -1 is null, below that is malformed.
func (d *Decoder) readLength() (int64, bool, error) {
	n, err := d.readInteger()
	if err != nil {
		return 0, false, err
	}
	if n == -1 {
		return 0, true, nil
	}
	if n < 0 {
		return 0, false, &ParseError{
			Kind:     KindUnexpectedValue,
			Offset:   -1,
			Expected: "integer greater than or equal to -1",
			Got:      strconv.FormatInt(n, 10),
		}
	}
	return n, false, nil
}

func (d *Decoder) readBulkString() (Value, error) {
	n, null, err := d.readLength()
	if err != nil {
		return Value{}, err
	}
	if null {
		return MakeNull(), nil
	}
	if n > maxBulkLength {
		return Value{}, &ParseError{
			Kind:     KindUnexpectedValue,
			Offset:   -1,
			Expected: "bulk string length within 512MB",
			Got:      strconv.FormatInt(n, 10),
		}
	}

	buf := make([]byte, n+2)
	if _, err := io.ReadFull(d.rd, buf); err != nil {
		return Value{}, err
	}
	if buf[n] != '\r' || buf[n+1] != '\n' {
		return Value{}, ErrInvalidEnding
	}
	return Value{Type: TypeBulkString, String: buf[:n:n]}, nil
}

func (d *Decoder) readArray() (Value, error) {
	n, null, err := d.readLength()
	if err != nil {
		return Value{}, err
	}
	if null {
		return MakeNull(), nil
	}

	elements := make([]Value, 0, min(n, 1024))
	for i := int64(0); i < n; i++ {
		element, err := d.Read()
		if err != nil {
			return Value{}, err
		}
		elements = append(elements, element)
	}
	return Value{Type: TypeArray, Array: elements}, nil
}
