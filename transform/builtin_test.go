package transform_test

import (
	"context"
	"testing"

	"cssbus/transform"
)

func resolve(t *testing.T, name string, opts transform.Options) transform.Processor {
	t.Helper()
	p, err := transform.Default().Resolve(name, opts)
	if err != nil {
		t.Fatalf("resolve '%s' failed: %v", name, err)
	}
	return p
}

func TestStripComments(t *testing.T) {
	p := resolve(t, "strip-comments", nil)

	out, err := p.Process(context.Background(), "/* header */a{color:red}/* trailer */", "test")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if out != "a{color:red}" {
		t.Errorf("expected comments stripped, got %q", out)
	}
}

func TestLowercaseSelectors(t *testing.T) {
	p := resolve(t, "lowercase-selectors", nil)

	out, err := p.Process(context.Background(), "DIV.Note { Color: RED; }", "test")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	// selector prelude lowercased, declarations untouched
	if out != "div.note { Color: RED; }" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestLowercaseSelectors_HashAndGroup(t *testing.T) {
	p := resolve(t, "lowercase-selectors", nil)

	out, err := p.Process(context.Background(), "#MAIN, H1 { x: Y }", "test")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if out != "#main, h1 { x: Y }" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestPrefixSelectors(t *testing.T) {
	p := resolve(t, "prefix-selectors", transform.Options{"prefix": ".scope"})

	out, err := p.Process(context.Background(), "h1, .note { color: red }", "test")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if out != ".scope h1, .scope .note { color: red }" {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestPrefixSelectors_LeavesAtRulesAlone(t *testing.T) {
	p := resolve(t, "prefix-selectors", transform.Options{"prefix": ".scope"})

	in := "@media screen { a { color: blue } }"
	out, err := p.Process(context.Background(), in, "test")
	if err != nil {
		t.Fatalf("process failed: %v", err)
	}
	if out != in {
		t.Errorf("expected @media block untouched, got %q", out)
	}
}

func TestPrefixSelectors_RequiresPrefix(t *testing.T) {
	if _, err := transform.Default().Resolve("prefix-selectors", nil); err == nil {
		t.Error("expected missing prefix option to fail")
	}
}

func TestBuiltinsRegistered(t *testing.T) {
	names := transform.Default().Names()
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		seen[n] = true
	}
	for _, want := range []string{"strip-comments", "lowercase-selectors", "prefix-selectors"} {
		if !seen[want] {
			t.Errorf("expected builtin '%s' to be registered", want)
		}
	}
}
