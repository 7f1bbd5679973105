// Package policy evaluates planning rules against campus readings.
package policy

import (
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/DrSkyle/campuslab/pkg/campus"
)

// Rule is a planning rule. Condition is a CEL expression over a single
// reading; Message is formatted with the zone name when the rule matches.
type Rule struct {
	ID        string `json:"id" yaml:"id"`
	Condition string `json:"condition" yaml:"condition"` // e.g. "footfall > 220 && risk == 'High'"
	Message   string `json:"message" yaml:"message"`
}

// DefaultRules returns the built-in planning rule set.
func DefaultRules() []Rule {
	return []Rule{
		{
			ID:        "infrastructure-upgrade",
			Condition: fmt.Sprintf("footfall > %d", campus.UpgradeFootfallThreshold),
			Message:   "Consider infrastructure upgrade near %s",
		},
	}
}

type compiledRule struct {
	Rule
	prg cel.Program
}

// Planner holds compiled rules. Rules are evaluated in declaration order.
type Planner struct {
	env   *cel.Env
	rules []compiledRule
}

// NewPlanner compiles the built-in rule set.
func NewPlanner() (*Planner, error) {
	return newPlanner(DefaultRules())
}

func newPlanner(rules []Rule) (*Planner, error) {
	env, err := cel.NewEnv(
		cel.Variable("zone", cel.StringType),
		cel.Variable("footfall", cel.IntType),
		cel.Variable("occupancy", cel.IntType),
		cel.Variable("power", cel.IntType),
		cel.Variable("risk", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL env: %w", err)
	}

	p := &Planner{env: env}
	for _, r := range rules {
		ast, issues := env.Compile(r.Condition)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %s compilation error: %w", r.ID, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule %s must evaluate to bool, got %s", r.ID, ast.OutputType())
		}

		prg, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %s program creation error: %w", r.ID, err)
		}
		p.rules = append(p.rules, compiledRule{Rule: r, prg: prg})
	}
	return p, nil
}

// Rules returns the rules the planner was built with.
func (p *Planner) Rules() []Rule {
	out := make([]Rule, len(p.rules))
	for i, r := range p.rules {
		out[i] = r.Rule
	}
	return out
}

// Evaluate runs every rule against every reading and returns one insight per
// match, ordered by reading then rule.
func (p *Planner) Evaluate(s campus.Snapshot) ([]campus.Insight, error) {
	insights := []campus.Insight{}
	for _, r := range s {
		vars := activation(r)
		for _, rule := range p.rules {
			out, _, err := rule.prg.Eval(vars)
			if err != nil {
				return nil, fmt.Errorf("rule %s on %s: %w", rule.ID, r.Zone, err)
			}
			// Rules are type-checked to bool at compile time.
			if match, ok := out.Value().(bool); ok && match {
				insights = append(insights, campus.Insight{
					Zone:    r.Zone,
					Rule:    rule.ID,
					Message: fmt.Sprintf(rule.Message, r.Zone),
				})
			}
		}
	}
	return insights, nil
}

func activation(r campus.ZoneReading) map[string]any {
	return map[string]any{
		"zone":      r.Zone.String(),
		"footfall":  int64(r.Footfall),
		"occupancy": int64(r.Occupancy),
		"power":     int64(r.Power),
		"risk":      r.Risk.String(),
	}
}
