package transform

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
)

// Built-in processors, registered under well-known names in the default
// registry. They work on the external library's token stream and rewrite
// text token by token, leaving anything they do not understand untouched.
//
//	strip-comments      - removes /* */ comments
//	lowercase-selectors - lowercases ident and hash tokens in top-level
//	                      selector preludes
//	prefix-selectors    - prepends a configured ancestor prefix to every
//	                      top-level selector
//
// Selector rewrites apply to top-level rulesets only; rules nested in @-rule
// blocks pass through unchanged.

func init() {
	for name, f := range map[string]Factory{
		"strip-comments":      newStripComments,
		"lowercase-selectors": newLowercaseSelectors,
		"prefix-selectors":    newPrefixSelectors,
	} {
		if err := Register(name, f); err != nil {
			panic(err)
		}
	}
}

func newStripComments(_ Options) (Processor, error) {
	return New("strip-comments", func(_ context.Context, text, from string) (string, error) {
		l := css.NewLexer(parse.NewInput(strings.NewReader(text)))
		var b strings.Builder
		b.Grow(len(text))
		for {
			tt, data := l.Next()
			if tt == css.ErrorToken {
				if err := l.Err(); err != nil && err != io.EOF {
					return "", fmt.Errorf("tokenizing '%s': %w", from, err)
				}
				return b.String(), nil
			}
			if tt == css.CommentToken {
				continue
			}
			b.Write(data)
		}
	}), nil
}

func newLowercaseSelectors(_ Options) (Processor, error) {
	return New("lowercase-selectors", func(_ context.Context, text, from string) (string, error) {
		return rewriteSelectors(text, from, "", true)
	}), nil
}

// prefixSelectorsOptions configures the prefix-selectors processor.
type prefixSelectorsOptions struct {
	Prefix string `yaml:"prefix"`
}

func newPrefixSelectors(opts Options) (Processor, error) {
	var o prefixSelectorsOptions
	if err := opts.Decode(&o); err != nil {
		return nil, err
	}
	if o.Prefix == "" {
		return nil, fmt.Errorf("prefix-selectors requires a non-empty 'prefix' option")
	}
	return New("prefix-selectors", func(_ context.Context, text, from string) (string, error) {
		return rewriteSelectors(text, from, o.Prefix, false)
	}), nil
}

// rewriteSelectors walks the token stream tracking brace depth and rewrites
// top-level selector preludes: optionally prefixing each selector and
// optionally lowercasing ident/hash tokens. @-rule preludes are never
// touched.
func rewriteSelectors(text, from, prefix string, lower bool) (string, error) {
	l := css.NewLexer(parse.NewInput(strings.NewReader(text)))

	var b strings.Builder
	b.Grow(len(text) + 16)

	depth := 0
	atPrelude := false  // inside a top-level @-rule prelude
	stmtStart := true   // before the first significant token of a statement
	pendingPrefix := false

	for {
		tt, data := l.Next()
		if tt == css.ErrorToken {
			if err := l.Err(); err != nil && err != io.EOF {
				return "", fmt.Errorf("tokenizing '%s': %w", from, err)
			}
			return b.String(), nil
		}

		insignificant := tt == css.WhitespaceToken || tt == css.CommentToken || tt == css.CDOToken || tt == css.CDCToken

		switch {
		case insignificant:
			// passes through unchanged

		case depth > 0:
			switch tt {
			case css.LeftBraceToken:
				depth++
			case css.RightBraceToken:
				depth--
				if depth == 0 {
					stmtStart = true
					atPrelude = false
					pendingPrefix = false
				}
			}

		case tt == css.LeftBraceToken:
			depth++
			stmtStart = false
			atPrelude = false
			pendingPrefix = false

		case tt == css.SemicolonToken, tt == css.RightBraceToken:
			// stray closing brace at top level resets statement tracking
			stmtStart = true
			atPrelude = false
			pendingPrefix = false

		case tt == css.CommaToken:
			if !atPrelude && prefix != "" {
				pendingPrefix = true
			}

		default:
			if stmtStart {
				stmtStart = false
				if tt == css.AtKeywordToken {
					atPrelude = true
				} else if prefix != "" {
					pendingPrefix = true
				}
			}
			if pendingPrefix {
				b.WriteString(prefix)
				b.WriteByte(' ')
				pendingPrefix = false
			}
			if lower && !atPrelude && (tt == css.IdentToken || tt == css.HashToken) {
				data = bytes.ToLower(data)
			}
		}

		b.Write(data)
	}
}
