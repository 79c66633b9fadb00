package syntax_test

import (
	"context"
	"testing"

	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/dshills/lumenedit/internal/syntax"
	"github.com/dshills/lumenedit/internal/syntax/langs"
)

func TestParsePHP(t *testing.T) {
	reg := langs.New()
	lang, ok := reg.ForExtension(".php")
	if !ok {
		t.Fatal("expected .php registered")
	}

	src := []byte("<?php\nclass Greeter {\n  public function hello() {\n    return \"hi\";\n  }\n}\n")
	s := syntax.New(reg, lang, src)
	defer s.Close()

	if err := s.Reparse(context.Background(), src, nil); err != nil {
		t.Fatalf("reparse: %v", err)
	}

	lineStarts := computeLineStarts(src)
	tokens := s.Highlight(lineStarts)
	if len(tokens) != len(lineStarts)-1 {
		t.Fatalf("expected %d TokenLines, got %d", len(lineStarts)-1, len(tokens))
	}

	foundKeyword := false
	for _, line := range tokens {
		for _, tok := range line.Tokens {
			if tok.Type.IsKeyword() {
				foundKeyword = true
			}
		}
	}
	if !foundKeyword {
		t.Error("expected at least one keyword token across the PHP class body")
	}
}

func TestIncrementalReparseAfterEdit(t *testing.T) {
	reg := langs.New()
	lang, _ := reg.ForExtension(".php")

	src := []byte("<?php\n$x = 1;\n")
	s := syntax.New(reg, lang, src)
	defer s.Close()

	if err := s.Reparse(context.Background(), src, nil); err != nil {
		t.Fatalf("initial reparse: %v", err)
	}

	edited := []byte("<?php\n$x = 12;\n")
	edit := sitter.InputEdit{
		StartIndex:  11,
		OldEndIndex: 12,
		NewEndIndex: 13,
	}
	if err := s.Reparse(context.Background(), edited, &edit); err != nil {
		t.Fatalf("incremental reparse: %v", err)
	}

	lineStarts := computeLineStarts(edited)
	if tokens := s.Highlight(lineStarts); len(tokens) == 0 {
		t.Error("expected tokens after incremental reparse")
	}
}

func computeLineStarts(content []byte) []uint32 {
	starts := []uint32{0}
	for i, b := range content {
		if b == '\n' {
			starts = append(starts, uint32(i+1))
		}
	}
	starts = append(starts, uint32(len(content)))
	return starts
}
