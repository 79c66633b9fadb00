// Package syntax provides layered, injection-aware tree-sitter parsing:
// a document's syntax tree is not a single parse but a stack of layers
// (the host language plus every embedded language reachable through
// injection queries), each independently incrementally reparsed.
package syntax

import (
	sitter "github.com/alexaandru/go-tree-sitter-bare"
)

// Language bundles a tree-sitter grammar with the queries that drive
// highlighting and injection discovery for it.
type Language struct {
	Name            string
	Extensions      []string
	Grammar         sitter.Language
	HighlightQuery  *sitter.Query
	InjectionQuery  *sitter.Query // nil if this language never hosts injections
}

// LanguageProvider resolves a language by name or file extension and
// supplies its compiled queries. Implementations cache compiled queries
// since Query construction is not free.
type LanguageProvider interface {
	// ForExtension returns the Language registered for a file extension
	// (e.g. ".php"), and false if none is registered.
	ForExtension(ext string) (Language, bool)

	// ForName returns the Language registered under its injection-query
	// name (e.g. the "twig" in `(#set! injection.language "twig")`).
	ForName(name string) (Language, bool)
}
