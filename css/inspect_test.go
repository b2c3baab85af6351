package css_test

import (
	"testing"

	"go.uber.org/zap"

	"cssbus/css"
)

func TestInspector_CountsRulesets(t *testing.T) {
	in := css.NewInspector(zap.NewNop())

	stats := in.Inspect([]byte(`
p { text-indent: 1em; color: red; }
.note { font-style: italic; }
`), "test")

	if stats.Rulesets != 2 {
		t.Errorf("expected 2 rulesets, got %d", stats.Rulesets)
	}
	if stats.Declarations != 3 {
		t.Errorf("expected 3 declarations, got %d", stats.Declarations)
	}
	if stats.AtRules != 0 {
		t.Errorf("expected no at-rules, got %d", stats.AtRules)
	}
}

func TestInspector_CountsAtRules(t *testing.T) {
	in := css.NewInspector(zap.NewNop())

	stats := in.Inspect([]byte(`
@import url("base.css");
@media screen { a { color: blue; } }
`), "")

	if stats.AtRules != 2 {
		t.Errorf("expected 2 at-rules, got %d", stats.AtRules)
	}
	if stats.Rulesets != 1 {
		t.Errorf("expected 1 nested ruleset, got %d", stats.Rulesets)
	}
}

func TestInspector_EmptyInput(t *testing.T) {
	in := css.NewInspector(nil)

	stats := in.Inspect(nil, "empty")
	if stats.Rulesets != 0 || stats.AtRules != 0 || stats.Declarations != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
