package syntax

import (
	"context"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// layer is one incrementally-parsed tree, either the document's host
// language or a language injected into a sub-range of it (e.g. a Twig
// expression embedded inside an HTML attribute, or a PHP block inside a
// Twig `{% verbatim %}`-less template).
type layer struct {
	key      string // stable identity so injections survive reparse; see layerKey
	lang     Language
	parser   *sitter.Parser
	tree     *sitter.Tree
	startByte uint32
	endByte   uint32
}

// layerKey derives a stable identity for an injected layer from its
// language name and byte range, so that reconcileInjections can tell an
// injection that merely shifted (edit upstream of it) from one that was
// actually removed, and reuse the existing incremental tree for the
// former instead of reparsing from scratch.
func layerKey(lang string, start, end uint32) string {
	return lang + ":" + itoa(start) + "-" + itoa(end)
}

func itoa(n uint32) string {
	if n == 0 {
		return "0"
	}
	var buf [10]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func newLayer(lang Language, start, end uint32) *layer {
	p := sitter.NewParser()
	_ = p.SetLanguage(lang.Grammar)
	return &layer{
		key:       layerKey(lang.Name, start, end),
		lang:      lang,
		parser:    p,
		startByte: start,
		endByte:   end,
	}
}

// reparse incrementally (or, if oldTree is nil, fully) parses content
// restricted to [startByte, endByte). content is the whole document;
// tree-sitter's IncludedRanges mechanism is intentionally not used here
// in favor of slicing, which keeps layers independent and matches how the
// host languages in this module (PHP/Twig/XML) are actually nested — a
// single top-level file per layer rather than multi-range interleaving.
func (l *layer) reparse(ctx context.Context, content []byte) error {
	slice := content
	if l.endByte > l.startByte && int(l.endByte) <= len(content) {
		slice = content[l.startByte:l.endByte]
	}
	tree, err := l.parser.ParseString(ctx, l.tree, slice)
	if err != nil {
		return err
	}
	if l.tree != nil {
		l.tree.Close()
	}
	l.tree = tree
	return nil
}

// edit applies an InputEdit to this layer's tree so the next reparse is
// incremental rather than full. Offsets are translated into the layer's
// local coordinate space.
func (l *layer) edit(e sitter.InputEdit) {
	if l.tree == nil {
		return
	}
	local := e
	local.StartIndex -= l.startByte
	local.OldEndIndex -= l.startByte
	local.NewEndIndex -= l.startByte
	l.tree.Edit(local)
}

func (l *layer) close() {
	if l.tree != nil {
		l.tree.Close()
		l.tree = nil
	}
}
