package lsp

import (
	"testing"

	"github.com/dshills/lumenedit/internal/engine/rope"
)

func TestNegotiateEncoding(t *testing.T) {
	if got := NegotiateEncoding([]string{"utf-16", "utf-8"}); got != EncodingUTF8 {
		t.Fatalf("expected utf-8 preferred, got %s", got)
	}
	if got := NegotiateEncoding([]string{"utf-16"}); got != EncodingUTF16 {
		t.Fatalf("expected utf-16 fallback, got %s", got)
	}
	if got := NegotiateEncoding(nil); got != EncodingUTF16 {
		t.Fatalf("expected utf-16 default, got %s", got)
	}
}

func TestRopeConverterUTF8RoundTrip(t *testing.T) {
	r := rope.FromString("hello\nworld\n")
	c := NewRopeConverter(r, EncodingUTF8)

	pos := c.ByteOffsetToPosition(8) // 'o' in "world"
	if pos.Line != 1 || pos.Character != 2 {
		t.Fatalf("got %+v, want line 1 char 2", pos)
	}
	back := c.PositionToByteOffset(pos)
	if back != 8 {
		t.Fatalf("got %d want 8", back)
	}
}

func TestRopeConverterUTF16SurrogatePair(t *testing.T) {
	// U+1F600 (grinning face) is a surrogate pair in UTF-16 but 4 bytes in UTF-8.
	r := rope.FromString("a\U0001F600b\n")
	c := NewRopeConverter(r, EncodingUTF16)

	// byte offset of 'b' is 1 (a) + 4 (emoji) = 5
	pos := c.ByteOffsetToPosition(5)
	if pos.Character != 3 { // 'a' (1) + surrogate pair (2) = 3
		t.Fatalf("expected UTF-16 character 3, got %d", pos.Character)
	}
	back := c.PositionToByteOffset(pos)
	if back != 5 {
		t.Fatalf("got %d want 5", back)
	}
}

func TestStaleResponse(t *testing.T) {
	if !StaleResponse(3, 5) {
		t.Fatal("expected stale when response version is older")
	}
	if StaleResponse(5, 5) {
		t.Fatal("expected not stale when versions match")
	}
}
