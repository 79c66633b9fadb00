package syntax

import (
	"context"
	"sync"

	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Syntax is one document's full layered parse: a host-language layer plus
// zero or more injected layers discovered by walking the host's injection
// query. Injections are themselves subject to their own injection
// queries (e.g. a Twig layer can host further injections), so
// reconcileInjections recurses one level at a time, breadth-first, as
// Reparse is called again for each newly-discovered layer's content.
type Syntax struct {
	mu         sync.RWMutex
	provider   LanguageProvider
	content    []byte
	host       *layer
	injections map[string]*layer // keyed by layerKey; stable across edits
}

// New creates a Syntax tracker for content in the language registered
// under hostLang (an extension such as ".php").
func New(provider LanguageProvider, hostLang Language, content []byte) *Syntax {
	host := newLayer(hostLang, 0, uint32(len(content)))
	return &Syntax{
		provider:   provider,
		content:    content,
		host:       host,
		injections: make(map[string]*layer),
	}
}

// Reparse incrementally reparses the host layer (full parse if edit is
// nil), then reconciles injected layers against the new tree.
func (s *Syntax) Reparse(ctx context.Context, content []byte, edit *sitter.InputEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if edit != nil {
		s.host.edit(*edit)
		for _, inj := range s.injections {
			inj.edit(*edit)
		}
	}
	s.content = content
	s.host.startByte, s.host.endByte = 0, uint32(len(content))
	if err := s.host.reparse(ctx, content); err != nil {
		return err
	}
	return s.reconcileInjections(ctx)
}

// reconcileInjections walks the host layer's injection query, finding
// every range in the host tree that should host another language, and
// adds/removes/reparses injected layers so the live set exactly matches
// what the query reports. Layers whose key persists across a reparse keep
// their incremental tree; only genuinely new or vanished ranges pay for a
// full reparse.
func (s *Syntax) reconcileInjections(ctx context.Context) error {
	if s.host.lang.InjectionQuery == nil || s.host.tree == nil {
		return nil
	}

	found := make(map[string]struct {
		lang       string
		start, end uint32
	})

	cursor := sitter.NewQueryCursor()
	root := s.host.tree.RootNode()
	it := cursor.Matches(s.host.lang.InjectionQuery, root, s.content)
	for {
		m := it.Next()
		if m == nil {
			break
		}
		var langName string
		var start, end uint32
		hasContent := false
		for _, cap := range m.Captures {
			name := s.host.lang.InjectionQuery.CaptureNameForID(cap.Index)
			switch name {
			case "injection.language":
				langName = string(s.content[cap.Node.StartByte():cap.Node.EndByte()])
			case "injection.content":
				start, end = cap.Node.StartByte(), cap.Node.EndByte()
				hasContent = true
			}
		}
		if !hasContent || langName == "" {
			continue
		}
		key := layerKey(langName, start, end)
		found[key] = struct {
			lang       string
			start, end uint32
		}{langName, start, end}
	}

	// Drop injections no longer reported.
	for key, inj := range s.injections {
		if _, ok := found[key]; !ok {
			inj.close()
			delete(s.injections, key)
		}
	}

	// Add and reparse current injections (existing ones reuse their tree
	// for an incremental reparse; new ones get a fresh parser).
	for key, f := range found {
		inj, ok := s.injections[key]
		if !ok {
			lang, ok := s.provider.ForName(f.lang)
			if !ok {
				continue // no grammar registered for this injected language; skip
			}
			inj = newLayer(lang, f.start, f.end)
			s.injections[key] = inj
		} else {
			inj.startByte, inj.endByte = f.start, f.end
		}
		if err := inj.reparse(ctx, s.content); err != nil {
			return err
		}
	}

	return nil
}

// Close releases every layer's tree-sitter resources.
func (s *Syntax) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.host.close()
	for _, inj := range s.injections {
		inj.close()
	}
}

// Layers returns the host layer plus every currently-live injected layer,
// host first. Used by the highlight iterator to merge tokens across
// layers.
func (s *Syntax) Layers() []*layer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*layer, 0, 1+len(s.injections))
	out = append(out, s.host)
	for _, inj := range s.injections {
		out = append(out, inj)
	}
	return out
}
