package syntax

import (
	"sort"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/dshills/lumenedit/internal/renderer/highlight"
)

// capture is one highlight capture's byte span and resolved token type,
// tagged with the layer depth it came from so overlapping captures from
// different layers resolve by depth (injected layers win inside their own
// range) and, within a layer, by query order (first-match-wins, mirroring
// how nvim-treesitter-style highlight queries are conventionally written
// most-specific-first).
type capture struct {
	start, end uint32
	tokenType  highlight.TokenType
	depth      int
	order      int
}

// Highlight runs each live layer's highlight query and returns the
// resulting tokens grouped into TokenLines covering [0, lineCount).
// lineStarts are byte offsets of the start of each line (lineStarts[i] is
// where line i begins; a final sentinel equal to len(content) is
// expected).
func (s *Syntax) Highlight(lineStarts []uint32) []highlight.TokenLine {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var all []capture
	depth := 0
	for _, l := range s.Layers() {
		if l.lang.HighlightQuery == nil || l.tree == nil {
			depth++
			continue
		}
		cursor := sitter.NewQueryCursor()
		root := l.tree.RootNode()
		it := cursor.Matches(l.lang.HighlightQuery, root, s.content[l.startByte:l.clampEnd(len(s.content))])
		order := 0
		for {
			m := it.Next()
			if m == nil {
				break
			}
			for _, cap := range m.Captures {
				name := l.lang.HighlightQuery.CaptureNameForID(cap.Index)
				tt, ok := tokenTypeForCapture(name)
				if !ok {
					continue
				}
				all = append(all, capture{
					start:     cap.Node.StartByte() + l.startByte,
					end:       cap.Node.EndByte() + l.startByte,
					tokenType: tt,
					depth:     depth,
					order:     order,
				})
				order++
			}
		}
		depth++
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].start != all[j].start {
			return all[i].start < all[j].start
		}
		if all[i].depth != all[j].depth {
			return all[i].depth > all[j].depth // deeper (more specific) layer wins ties
		}
		return all[i].order < all[j].order
	})

	return splitByLine(all, lineStarts)
}

func (l *layer) clampEnd(contentLen int) int {
	if int(l.endByte) > contentLen {
		return contentLen
	}
	return int(l.endByte)
}

// splitByLine clips each capture to the lines it spans and assembles
// per-line TokenLines with columns relative to the line start. Later
// captures in `all` are expected pre-sorted so that a narrower/deeper
// capture overriding an enclosing one appears after it; firstMatchWins
// keeps the first (outermost/earlier) claim on a given byte.
func splitByLine(all []capture, lineStarts []uint32) []highlight.TokenLine {
	if len(lineStarts) < 2 {
		return nil
	}
	claimed := make(map[uint32]bool)
	lines := make([]highlight.TokenLine, len(lineStarts)-1)
	for i := range lines {
		lines[i] = highlight.TokenLine{Line: uint32(i)}
	}

	for _, c := range all {
		lineIdx := lineForOffset(lineStarts, c.start)
		for lineIdx < len(lines) {
			lineStart := lineStarts[lineIdx]
			lineEnd := lineStarts[lineIdx+1]
			segStart := c.start
			if segStart < lineStart {
				segStart = lineStart
			}
			segEnd := c.end
			if segEnd > lineEnd {
				segEnd = lineEnd
			}
			if segStart >= segEnd {
				break
			}
			if !claimed[segStart] {
				lines[lineIdx].Tokens = append(lines[lineIdx].Tokens, highlight.Token{
					Type:     c.tokenType,
					StartCol: segStart - lineStart,
					EndCol:   segEnd - lineStart,
				})
				claimed[segStart] = true
			}
			if c.end <= lineEnd {
				break
			}
			lineIdx++
		}
	}

	for i := range lines {
		sort.Slice(lines[i].Tokens, func(a, b int) bool {
			return lines[i].Tokens[a].StartCol < lines[i].Tokens[b].StartCol
		})
	}
	return lines
}

func lineForOffset(lineStarts []uint32, off uint32) int {
	// lineStarts is small (one document's line count) and already sorted;
	// a linear scan from the front is simplest and avoids importing sort
	// search helpers for a call site that already owns the slice.
	for i := 0; i < len(lineStarts)-1; i++ {
		if off < lineStarts[i+1] {
			return i
		}
	}
	return len(lineStarts) - 2
}
