package css

import (
	"bytes"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"
)

// Stats summarizes a tokenization pass over a CSS fragment.
type Stats struct {
	Rulesets     int      // top-level and nested rulesets
	AtRules      int      // @-rules, with or without blocks
	Declarations int      // property declarations
	Warnings     []string // tokenizer-level problems, non-fatal
}

// Inspector runs CSS text through the external tokenizer to report what a
// fragment contains. It never rejects input: the downstream pipeline is
// authoritative and pass-through is the contract here.
type Inspector struct {
	log *zap.Logger
}

// NewInspector creates a new fragment inspector.
func NewInspector(log *zap.Logger) *Inspector {
	if log == nil {
		log = zap.NewNop()
	}
	return &Inspector{log: log.Named("css-inspect")}
}

// Inspect tokenizes data and returns fragment statistics. The from label
// identifies what is being inspected in debug logging.
func (in *Inspector) Inspect(data []byte, from string) Stats {
	var stats Stats

	if from == "" {
		from = "unknown"
	}
	in.log.Debug("Inspecting CSS", zap.String("from", from), zap.Int("bytes", len(data)))

	input := parse.NewInput(bytes.NewReader(data))
	parser := css.NewParser(input, false)

	for {
		gt, _, _ := parser.Next()

		switch gt {
		case css.ErrorGrammar:
			if err := parser.Err(); err != nil && err.Error() != "EOF" {
				stats.Warnings = append(stats.Warnings, err.Error())
				in.log.Debug("CSS tokenizer warning", zap.String("from", from), zap.Error(err))
			}
			return stats

		case css.BeginRulesetGrammar, css.QualifiedRuleGrammar:
			stats.Rulesets++

		case css.AtRuleGrammar, css.BeginAtRuleGrammar:
			stats.AtRules++

		case css.DeclarationGrammar, css.CustomPropertyGrammar:
			stats.Declarations++
		}
	}
}
