package model

import "fmt"

// ParamDecision is the analyzer's verdict for one function parameter: the
// calling convention the emitter must use.
type ParamDecision struct {
	Function    string `yaml:"function"` // qualified name
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	IsConst     bool   `yaml:"const,omitempty"`
	Mutated     bool   `yaml:"mutated"`
	PassByValue bool   `yaml:"passByValue"`
}

// RewriteDecision records the resolver's substitution for a bare-identifier
// use site. Identifiers that pass through unchanged are not recorded.
type RewriteDecision struct {
	Function  string `yaml:"function"` // qualified name of the enclosing function
	Ident     string `yaml:"ident"`
	Rewritten string `yaml:"rewritten"`
}

// FunctionReport aggregates all decisions for one function.
type FunctionReport struct {
	Qualified  string            `yaml:"qualified"`
	Scope      string            `yaml:"scope,omitempty"` // dotted path, empty for global
	Name       string            `yaml:"name"`
	Visibility Visibility        `yaml:"visibility"`
	Params     []ParamDecision   `yaml:"params,omitempty"`
	Rewrites   []RewriteDecision `yaml:"rewrites,omitempty"`
}

// Report is the persisted output of one analysis run.
type Report struct {
	Units        []string         `yaml:"units"`
	MaxValueBits int              `yaml:"maxValueBits"`
	Functions    []FunctionReport `yaml:"functions"`
}

// CanonicalLines renders the report as stable, order-preserving text lines.
// Two runs over the same program produce identical lines, which makes the
// rendering diffable for calling-convention drift checks.
func (r Report) CanonicalLines() []string {
	lines := make([]string, 0, len(r.Functions))

	for _, fn := range r.Functions {
		for _, p := range fn.Params {
			conv := "by-ref"
			if p.PassByValue {
				conv = "by-value"
			}

			lines = append(lines, fmt.Sprintf("%s %s %s %s", fn.Qualified, p.Name, p.Type, conv))
		}
	}

	return lines
}
