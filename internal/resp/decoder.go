package resp

import (
	"strconv"
)

// Decode parses one complete RESP message out of buf. It is a pure
// function of its input: the cursor lives on the stack of this call and
// malformed or truncated input always comes back as a *ParseError,
// never as a panic or an out of bounds read. Bytes after the first
// complete message are ignored.
func Decode(buf []byte) (Value, error) {
	p := parser{input: buf}
	return p.value()
}

// parser walks a byte buffer with an explicit position. It owns no
// data, it only indexes into the caller's buffer.
type parser struct {
	input []byte
	pos   int
}

func (p *parser) hasNext() bool {
	return p.pos < len(p.input)
}

// atCRLF reports whether pos points at the start of a "\r\n"
// termination. Both comparisons stay valid on empty and one-byte
// buffers.
func (p *parser) atCRLF() bool {
	return p.pos+1 < len(p.input) && p.input[p.pos] == '\r' && p.input[p.pos+1] == '\n'
}

// consumeCRLF skips the termination at pos or fails.
func (p *parser) consumeCRLF() error {
	if p.atCRLF() {
		p.pos += 2
		return nil
	}
	if len(p.input)-p.pos < 2 {
		return &ParseError{Kind: KindUnexpectedEndOfInput, Offset: len(p.input), Length: 1}
	}
	return &ParseError{Kind: KindUnexpectedByte, Offset: p.pos, Length: 2}
}

// line scans from pos up to the next CRLF and returns the span between,
// leaving pos on the '\r'.
func (p *parser) line() []byte {
	start := p.pos
	for p.hasNext() && !p.atCRLF() {
		p.pos++
	}
	return p.input[start:p.pos]
}

func (p *parser) value() (Value, error) {
	if !p.hasNext() {
		return Value{}, &ParseError{Kind: KindUnexpectedEndOfInput, Offset: p.pos, Length: 1}
	}
	tag := p.input[p.pos]
	p.pos++

	switch tag {
	case TypeSimpleString:
		return p.simpleString()
	case TypeError:
		return p.errorValue()
	case TypeInteger:
		return p.integer()
	case TypeBulkString:
		return p.bulkStringOrNull()
	case TypeArray:
		return p.arrayOrNull()
	default:
		return Value{}, &ParseError{Kind: KindUnknownTag, Offset: p.pos - 1, Length: 1, Got: string(tag)}
	}
}

func (p *parser) simpleString() (Value, error) {
	span := p.line()
	if err := p.consumeCRLF(); err != nil {
		return Value{}, err
	}
	return Value{Type: TypeSimpleString, String: span}, nil
}

func (p *parser) errorValue() (Value, error) {
	span := p.line()
	if err := p.consumeCRLF(); err != nil {
		return Value{}, err
	}
	return Value{Type: TypeError, String: span}, nil
}

// parseInt scans the digit run in front of a CRLF and parses it as a
// signed 64-bit integer. pos is left on the '\r'.
func (p *parser) parseInt() (int64, error) {
	start := p.pos
	lexeme := p.line()
	n, err := strconv.ParseInt(string(lexeme), 10, 64)
	if err != nil {
		return 0, &ParseError{
			Kind:     KindUnexpectedType,
			Offset:   start,
			Length:   len(lexeme),
			Expected: "integer",
			Got:      string(lexeme),
		}
	}
	return n, nil
}

func (p *parser) integer() (Value, error) {
	n, err := p.parseInt()
	if err != nil {
		return Value{}, err
	}
	if err := p.consumeCRLF(); err != nil {
		return Value{}, err
	}
	return Value{Type: TypeInteger, Integer: n}, nil
}

// length parses the length prefix of a bulk string or array. Exactly -1
// means null, anything below that is rejected.
func (p *parser) length() (int64, bool, error) {
	start := p.pos
	n, err := p.parseInt()
	if err != nil {
		return 0, false, err
	}
	lexemeLen := p.pos - start
	if err := p.consumeCRLF(); err != nil {
		return 0, false, err
	}
	if n == -1 {
		return 0, true, nil
	}
	if n < 0 {
		return 0, false, &ParseError{
			Kind:     KindUnexpectedValue,
			Offset:   start,
			Length:   lexemeLen,
			Expected: "integer greater than or equal to -1",
			Got:      strconv.FormatInt(n, 10),
		}
	}
	return n, false, nil
}

func (p *parser) bulkStringOrNull() (Value, error) {
	n, null, err := p.length()
	if err != nil {
		return Value{}, err
	}
	if null {
		return MakeNull(), nil
	}

	// The declared length is authoritative: the payload is read as raw
	// bytes without scanning for CRLF, so it may contain anything.
	if n > int64(len(p.input)-p.pos) {
		return Value{}, &ParseError{Kind: KindUnexpectedEndOfInput, Offset: len(p.input), Length: 1}
	}
	span := p.input[p.pos : p.pos+int(n)]
	p.pos += int(n)

	if err := p.consumeCRLF(); err != nil {
		return Value{}, err
	}
	return Value{Type: TypeBulkString, String: span}, nil
}

func (p *parser) arrayOrNull() (Value, error) {
	n, null, err := p.length()
	if err != nil {
		return Value{}, err
	}
	if null {
		return MakeNull(), nil
	}

	// Capacity is clamped to the bytes actually left so a lying prefix
	// cannot force a huge allocation.
	capHint := min(n, int64(len(p.input)-p.pos))
	elements := make([]Value, 0, capHint)

	for i := int64(0); i < n; i++ {
		element, err := p.value()
		if err != nil {
			return Value{}, err
		}
		elements = append(elements, element)
	}
	return Value{Type: TypeArray, Array: elements}, nil
}
