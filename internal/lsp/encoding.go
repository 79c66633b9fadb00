package lsp

import (
	"github.com/dshills/lumenedit/internal/engine/rope"
)

// OffsetEncoding is one of the three `positionEncoding` values an LSP
// server may advertise in its initialize response (`general.positionEncodings`
// capability). The client and server must agree on exactly one; absent
// negotiation, LSP defaults to UTF-16 for backward compatibility.
type OffsetEncoding string

const (
	EncodingUTF8  OffsetEncoding = "utf-8"
	EncodingUTF16 OffsetEncoding = "utf-16"
	EncodingUTF32 OffsetEncoding = "utf-32" // Unicode scalar values, i.e. rope.Rope's Chars domain
)

// NegotiateEncoding picks the first mutually-supported encoding from a
// server's advertised list, preferring UTF-8 (cheapest for this editor,
// since the rope's native domain is bytes) then UTF-32 (no surrogate-pair
// arithmetic) and falling back to UTF-16 per the LSP spec's default.
func NegotiateEncoding(serverSupported []string) OffsetEncoding {
	pref := []OffsetEncoding{EncodingUTF8, EncodingUTF32, EncodingUTF16}
	supported := make(map[string]bool, len(serverSupported))
	for _, s := range serverSupported {
		supported[s] = true
	}
	for _, p := range pref {
		if supported[string(p)] {
			return p
		}
	}
	return EncodingUTF16
}

// RopeConverter translates between byte offsets and LSP Positions directly
// against a rope.Rope, using the rope's O(log n) line/char/byte domain
// conversions instead of scanning the whole document per call (unlike the
// string-based PositionConverter above, which a one-shot diagnostic-range
// conversion on a cold document still reaches for).
type RopeConverter struct {
	r        rope.Rope
	encoding OffsetEncoding
}

// NewRopeConverter builds a converter over r using the negotiated encoding.
func NewRopeConverter(r rope.Rope, encoding OffsetEncoding) *RopeConverter {
	return &RopeConverter{r: r, encoding: encoding}
}

// ByteOffsetToPosition converts a byte offset to an LSP Position in the
// negotiated encoding.
func (c *RopeConverter) ByteOffsetToPosition(off rope.ByteOffset) Position {
	line := c.r.OffsetToPoint(off).Line
	lineStart := c.r.LineStartOffset(line)
	col := c.columnFor(lineStart, off)
	return Position{Line: int(line), Character: col}
}

// PositionToByteOffset converts an LSP Position back to a byte offset.
func (c *RopeConverter) PositionToByteOffset(pos Position) rope.ByteOffset {
	if pos.Line < 0 {
		return 0
	}
	lineStart := c.r.LineStartOffset(uint32(pos.Line))
	return c.byteForColumn(lineStart, pos.Character)
}

func (c *RopeConverter) columnFor(lineStart, off rope.ByteOffset) int {
	switch c.encoding {
	case EncodingUTF8:
		return int(off - lineStart)
	case EncodingUTF32:
		return int(c.r.ByteToChar(off) - c.r.ByteToChar(lineStart))
	default: // UTF-16
		lineText := c.r.Slice(lineStart, off)
		count := 0
		for _, r := range lineText {
			if r >= 0x10000 {
				count += 2
			} else {
				count++
			}
		}
		return count
	}
}

func (c *RopeConverter) byteForColumn(lineStart rope.ByteOffset, col int) rope.ByteOffset {
	switch c.encoding {
	case EncodingUTF8:
		return lineStart + rope.ByteOffset(col)
	case EncodingUTF32:
		return c.r.CharToByte(c.r.ByteToChar(lineStart) + uint64(col))
	default: // UTF-16
		startLine := c.r.OffsetToPoint(lineStart).Line
		lineEnd := c.r.LineEndOffset(startLine)
		if lineEnd <= lineStart {
			lineEnd = c.r.Len()
		}
		lineText := c.r.Slice(lineStart, lineEnd)
		units := 0
		for i, r := range lineText {
			if units >= col {
				return lineStart + rope.ByteOffset(i)
			}
			if r >= 0x10000 {
				units += 2
			} else {
				units++
			}
		}
		return lineEnd
	}
}

// StaleResponse reports whether a response tagged with responseVersion
// should be discarded because the document has since moved to a newer
// version (an in-flight completion/hover/diagnostics request raced an
// edit). Callers compare against DocumentManager.GetVersion at the moment
// the response arrives.
func StaleResponse(responseVersion, currentVersion int) bool {
	return responseVersion < currentVersion
}
