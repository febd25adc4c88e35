package resp_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/eternalApril/starlight/internal/resp"
)

func TestDecoderRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  resp.Value
	}{
		{
			name:  "Simple string",
			input: "+OK\r\n",
			want:  resp.MakeSimpleString("OK"),
		},
		{
			name:  "Error",
			input: "-ERR oops\r\n",
			want:  resp.MakeError("ERR oops"),
		},
		{
			name:  "Integer",
			input: ":1000\r\n",
			want:  resp.MakeInteger(1000),
		},
		{
			name:  "Integer negative",
			input: ":-15\r\n",
			want:  resp.MakeInteger(-15),
		},
		{
			name:  "Bulk string",
			input: "$6\r\nfoobar\r\n",
			want:  resp.MakeBulkString("foobar"),
		},
		{
			name:  "Null bulk string",
			input: "$-1\r\n",
			want:  resp.MakeNull(),
		},
		{
			name:  "Nested array",
			input: "*2\r\n:1\r\n*1\r\n+inner\r\n",
			want: resp.MakeArray([]resp.Value{
				resp.MakeInteger(1),
				resp.MakeArray([]resp.Value{resp.MakeSimpleString("inner")}),
			}),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := resp.NewDecoder(strings.NewReader(tt.input))

			got, err := d.Read()
			if err != nil {
				t.Fatalf("Read() unexpected error: %v", err)
			}
			if !valuesEqual(got, tt.want) {
				t.Errorf("Read() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// The stream decoder must assemble a value even when the transport
// yields it one byte at a time.
func TestDecoderReadPartialChunks(t *testing.T) {
	input := "*2\r\n$3\r\nfoo\r\n:42\r\n"
	d := resp.NewDecoder(iotest.OneByteReader(strings.NewReader(input)))

	got, err := d.Read()
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	want := resp.MakeArray([]resp.Value{
		resp.MakeBulkString("foo"),
		resp.MakeInteger(42),
	})
	if !valuesEqual(got, want) {
		t.Errorf("Read() = %+v, want %+v", got, want)
	}
}

func TestDecoderReadErrors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{
			name:    "Bare line feed",
			input:   ":1000\n",
			wantErr: resp.ErrInvalidEnding,
		},
		{
			name:    "Bulk string terminator missing",
			input:   "$3\r\nfooXY",
			wantErr: resp.ErrInvalidEnding,
		},
		{
			name:    "Bulk length below -1",
			input:   "$-2\r\n",
			wantErr: resp.ErrUnexpectedValue,
		},
		{
			name:    "Unknown tag",
			input:   "!oops\r\n",
			wantErr: resp.ErrUnknownTag,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := resp.NewDecoder(strings.NewReader(tt.input))

			if _, err := d.Read(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Read() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// A length prefix promising an absurd payload must come back as a
// typed error before anything is allocated for it, whether it would
// overflow the size arithmetic or merely exhaust memory.
func TestDecoderReadBulkLengthCap(t *testing.T) {
	for _, input := range []string{
		"$9223372036854775806\r\n",
		"$1000000000000\r\n",
	} {
		d := resp.NewDecoder(strings.NewReader(input))

		if _, err := d.Read(); !errors.Is(err, resp.ErrUnexpectedValue) {
			t.Errorf("Read(%q) error = %v, want kind of %v", input, err, resp.ErrUnexpectedValue)
		}
	}
}

// Read consumes exactly one message so the next call sees the next one,
// and Buffered exposes what is still waiting in between.
func TestDecoderReadSequential(t *testing.T) {
	d := resp.NewDecoder(bytes.NewReader([]byte("+OK\r\n:7\r\n")))

	first, err := d.Read()
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if !valuesEqual(first, resp.MakeSimpleString("OK")) {
		t.Errorf("Read() = %+v, want +OK", first)
	}
	if n := d.Buffered(); n != len(":7\r\n") {
		t.Errorf("Buffered() = %d, want %d", n, len(":7\r\n"))
	}

	second, err := d.Read()
	if err != nil {
		t.Fatalf("Read() unexpected error: %v", err)
	}
	if !valuesEqual(second, resp.MakeInteger(7)) {
		t.Errorf("Read() = %+v, want :7", second)
	}
	if n := d.Buffered(); n != 0 {
		t.Errorf("Buffered() = %d after last message, want 0", n)
	}
}
