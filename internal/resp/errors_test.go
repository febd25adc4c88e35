package resp_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/eternalApril/starlight/internal/resp"
)

func TestParseErrorIs(t *testing.T) {
	input := []byte(":abc\r\n")

	_, err := resp.Decode(input)
	if !errors.Is(err, resp.ErrUnexpectedType) {
		t.Errorf("errors.Is() = false for %v against %v", err, resp.ErrUnexpectedType)
	}
	if errors.Is(err, resp.ErrUnexpectedValue) {
		t.Errorf("errors.Is() matched the wrong kind for %v", err)
	}
}

func TestAnnotate(t *testing.T) {
	input := []byte(":abc\r\n")

	_, err := resp.Decode(input)
	if err == nil {
		t.Fatal("Decode() expected error, got nil")
	}

	got := resp.Annotate(err, input)
	want := "expected integer but got \"abc\"\n" +
		"  :abc\\r\\n\n" +
		"   ^^^"
	if got != want {
		t.Errorf("Annotate() = %q, want %q", got, want)
	}
}

func TestAnnotateEndOfInput(t *testing.T) {
	input := []byte("$6\r\nfoo")

	_, err := resp.Decode(input)
	if err == nil {
		t.Fatal("Decode() expected error, got nil")
	}

	got := resp.Annotate(err, input)
	// The span points past the end, the caret lands after the last byte.
	lines := strings.Split(got, "\n")
	if len(lines) != 3 {
		t.Fatalf("Annotate() = %q, want three lines", got)
	}
	if lines[1] != `  $6\r\nfoo` {
		t.Errorf("Annotate() source line = %q", lines[1])
	}
	if lines[2] != "  "+strings.Repeat(" ", len(`$6\r\nfoo`))+"^" {
		t.Errorf("Annotate() caret line = %q", lines[2])
	}
}

func TestAnnotateNonParseError(t *testing.T) {
	err := errors.New("plain")
	if got := resp.Annotate(err, nil); got != "plain" {
		t.Errorf("Annotate() = %q, want %q", got, "plain")
	}
}

func TestAnnotateBinaryInput(t *testing.T) {
	input := []byte{'!', 0x00, 0xff}

	_, err := resp.Decode(input)
	if !errors.Is(err, resp.ErrUnknownTag) {
		t.Fatalf("Decode() error = %v, want unknown tag", err)
	}

	got := resp.Annotate(err, input)
	want := "unknown type tag \"!\" at offset 0\n" +
		`  !\x00\xff` + "\n" +
		"  ^"
	if got != want {
		t.Errorf("Annotate() = %q, want %q", got, want)
	}
}
