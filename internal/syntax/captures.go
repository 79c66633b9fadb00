package syntax

import "github.com/dshills/lumenedit/internal/renderer/highlight"

// captureTokenTypes maps the conventional tree-sitter highlight capture
// names (the @foo.bar names used by nvim-treesitter-style highlights.scm
// queries, which the php/twig/xml grammars in this module follow) to the
// renderer's TokenType. Unrecognized captures fall back to TokenNone and
// are skipped by the iterator rather than guessed at.
var captureTokenTypes = map[string]highlight.TokenType{
	"comment":               highlight.TokenComment,
	"comment.documentation": highlight.TokenCommentDoc,
	"string":                highlight.TokenString,
	"string.special":        highlight.TokenStringEscape,
	"string.escape":         highlight.TokenStringEscape,
	"number":                highlight.TokenNumber,
	"float":                 highlight.TokenNumberFloat,
	"keyword":               highlight.TokenKeyword,
	"keyword.control":       highlight.TokenKeywordControl,
	"keyword.operator":      highlight.TokenKeywordOperator,
	"keyword.return":        highlight.TokenKeywordControl,
	"conditional":           highlight.TokenKeywordControl,
	"repeat":                highlight.TokenKeywordControl,
	"operator":              highlight.TokenOperator,
	"punctuation.bracket":   highlight.TokenPunctuationBracket,
	"punctuation.delimiter": highlight.TokenPunctuationDelimiter,
	"variable":              highlight.TokenVariable,
	"variable.parameter":    highlight.TokenVariableParameter,
	"variable.builtin":      highlight.TokenConstantLanguage,
	"constant":              highlight.TokenConstant,
	"constant.builtin":      highlight.TokenConstantLanguage,
	"function":              highlight.TokenFunction,
	"function.call":         highlight.TokenFunctionCall,
	"function.method":       highlight.TokenFunctionMethod,
	"function.builtin":      highlight.TokenFunctionBuiltin,
	"method":                highlight.TokenFunctionMethod,
	"type":                  highlight.TokenTypeName,
	"type.builtin":          highlight.TokenTypeBuiltin,
	"class":                 highlight.TokenTypeClass,
	"property":              highlight.TokenVariableOther,
	"parameter":             highlight.TokenVariableParameter,
	"storageclass":          highlight.TokenStorageType,
	"tag":                   highlight.TokenTag,
	"tag.attribute":         highlight.TokenAttribute,
	"attribute":             highlight.TokenAttribute,
	"label":                 highlight.TokenLabel,
	"namespace":             highlight.TokenNamespace,
	"text.literal":          highlight.TokenMarkupRaw,
}

// tokenTypeForCapture resolves a capture name, walking from the most
// specific dotted suffix toward the root (e.g. "function.method.call"
// first tries itself, then "function.method", then "function") since
// query authors often define only the coarse capture.
func tokenTypeForCapture(name string) (highlight.TokenType, bool) {
	for name != "" {
		if tt, ok := captureTokenTypes[name]; ok {
			return tt, true
		}
		idx := lastDot(name)
		if idx < 0 {
			break
		}
		name = name[:idx]
	}
	return highlight.TokenNone, false
}

func lastDot(s string) int {
	for i := len(s) - 1; i >= 0; i-- {
		if s[i] == '.' {
			return i
		}
	}
	return -1
}
