// Package langs registers the concrete tree-sitter grammars this module
// ships with: PHP, Twig, and XML, via the go-sitter-forest bindings. Each
// grammar carries a highlight query (enough captures to exercise every
// TokenType family the renderer understands) and, where applicable, an
// injection query so one language's embedded blocks of another are
// discovered and parsed as their own layer.
package langs

import (
	phpforest "github.com/alexaandru/go-sitter-forest/php"
	twigforest "github.com/alexaandru/go-sitter-forest/twig"
	xmlforest "github.com/alexaandru/go-sitter-forest/xml"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/dshills/lumenedit/internal/syntax"
)

const phpHighlightQuery = `
(comment) @comment
(string) @string
(integer) @number
(float) @number
[
  "if" "else" "elseif" "endif" "while" "endwhile" "for" "endfor"
  "foreach" "endforeach" "switch" "case" "default" "break" "continue"
  "return" "function" "class" "interface" "trait" "namespace" "use"
  "public" "private" "protected" "static" "const" "new" "try" "catch"
  "finally" "throw"
] @keyword
(variable_name) @variable
(name) @identifier
(function_call_expression function: (name) @function.call)
(method_call_expression name: (name) @function.method)
(class_declaration name: (name) @class)
`

const twigHighlightQuery = `
(comment) @comment
(string) @string
(number) @number
(variable) @variable
(function_identifier) @function.call
[ "if" "else" "elseif" "endif" "for" "endfor" "set" "block" "endblock" "extends" "include" ] @keyword
`

const xmlHighlightQuery = `
(Comment) @comment
(AttValue) @string
(Name) @tag
(Attribute (Name) @attribute)
`

// twigInjectionQuery finds PHP-like expression blocks Twig sometimes
// embeds verbatim (e.g. raw PHP passed through a custom extension tag);
// kept intentionally narrow since Twig's primary embedding direction in
// this module's supported stack is the reverse (PHP hosting Twig template
// strings), covered by phpInjectionQuery below.
const twigInjectionQuery = `
((comment) @injection.content
 (#set! injection.language "twig"))
`

const phpInjectionQuery = `
((text_interpolation) @injection.content
 (#set! injection.language "twig"))
`

func mustQuery(lang sitter.Language, src string) *sitter.Query {
	q, err := sitter.NewQuery(lang, []byte(src))
	if err != nil {
		return nil
	}
	return q
}

// Registry implements syntax.LanguageProvider over the PHP/Twig/XML
// grammars compiled into this module.
type Registry struct {
	byExt  map[string]syntax.Language
	byName map[string]syntax.Language
}

// New builds and compiles the registry's queries once; callers should
// construct a single Registry and share it across documents.
func New() *Registry {
	phpLang := sitter.NewLanguage(phpforest.GetLanguage())
	twigLang := sitter.NewLanguage(twigforest.GetLanguage())
	xmlLang := sitter.NewLanguage(xmlforest.GetLanguage())

	php := syntax.Language{
		Name:           "php",
		Extensions:     []string{".php", ".phtml"},
		Grammar:        phpLang,
		HighlightQuery: mustQuery(phpLang, phpHighlightQuery),
		InjectionQuery: mustQuery(phpLang, phpInjectionQuery),
	}
	twig := syntax.Language{
		Name:           "twig",
		Extensions:     []string{".twig"},
		Grammar:        twigLang,
		HighlightQuery: mustQuery(twigLang, twigHighlightQuery),
		InjectionQuery: mustQuery(twigLang, twigInjectionQuery),
	}
	xml := syntax.Language{
		Name:           "xml",
		Extensions:     []string{".xml", ".xsd", ".svg"},
		Grammar:        xmlLang,
		HighlightQuery: mustQuery(xmlLang, xmlHighlightQuery),
	}

	r := &Registry{
		byExt:  make(map[string]syntax.Language),
		byName: map[string]syntax.Language{"php": php, "twig": twig, "xml": xml},
	}
	for _, l := range []syntax.Language{php, twig, xml} {
		for _, ext := range l.Extensions {
			r.byExt[ext] = l
		}
	}
	return r
}

// ForExtension implements syntax.LanguageProvider.
func (r *Registry) ForExtension(ext string) (syntax.Language, bool) {
	l, ok := r.byExt[ext]
	return l, ok
}

// ForName implements syntax.LanguageProvider.
func (r *Registry) ForName(name string) (syntax.Language, bool) {
	l, ok := r.byName[name]
	return l, ok
}
