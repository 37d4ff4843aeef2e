// Package completion decides whether entity sections are complete and rolls
// the results up into per-entity, per-registration and overall status.
package completion

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/cel-go/cel"

	"onboarding/internal/core/apperror"
	"onboarding/internal/core/fields"
	"onboarding/internal/domain/catalog"
)

// Rule is one row of the completion table.
//
// When is a CEL predicate over the string variables kind and subtype; an
// empty predicate always applies. A rule either requires every name in Fields
// to be present or, with AnyInstanceOf, at least one instance in any list of
// the named collection.
type Rule struct {
	Section       catalog.Section
	When          string
	Fields        []string
	AnyInstanceOf string
}

// Subject identifies what a dictionary describes.
type Subject struct {
	Kind    catalog.Kind
	Subtype catalog.Subtype
}

type compiledRule struct {
	Rule
	program cel.Program
}

// Engine evaluates the rule table. Safe for concurrent use.
type Engine struct {
	rules []compiledRule
}

// NewEngine compiles every predicate up front.
func NewEngine(rules []Rule) (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("kind", cel.StringType),
		cel.Variable("subtype", cel.StringType),
	)
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}

	compiled := make([]compiledRule, 0, len(rules))
	for _, r := range rules {
		if len(r.Fields) == 0 && r.AnyInstanceOf == "" {
			return nil, apperror.NewRuleInvalid(string(r.Section), r.When, fmt.Errorf("rule requires nothing"))
		}

		cr := compiledRule{Rule: r}
		cr.Fields = slices.Clone(r.Fields)
		if r.When != "" {
			ast, iss := env.Compile(r.When)
			if iss != nil && iss.Err() != nil {
				return nil, apperror.NewRuleInvalid(string(r.Section), r.When, iss.Err())
			}
			if !ast.OutputType().IsExactType(cel.BoolType) {
				return nil, apperror.NewRuleInvalid(string(r.Section), r.When,
					fmt.Errorf("predicate yields %s, want bool", ast.OutputType()))
			}
			prg, err := env.Program(ast)
			if err != nil {
				return nil, apperror.NewRuleInvalid(string(r.Section), r.When, err)
			}
			cr.program = prg
		}
		compiled = append(compiled, cr)
	}

	return &Engine{rules: compiled}, nil
}

var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// DefaultEngine returns the engine for DefaultRules.
func DefaultEngine() *Engine {
	defaultOnce.Do(func() {
		e, err := NewEngine(DefaultRules())
		if err != nil {
			panic(fmt.Sprintf("completion: default rules invalid: %v", err))
		}
		defaultEngine = e
	})
	return defaultEngine
}

// applicable returns the rules for section that match subject.
// A predicate that fails to evaluate is treated as not matching.
func (e *Engine) applicable(subject Subject, section catalog.Section) []*compiledRule {
	var out []*compiledRule
	vars := map[string]any{
		"kind":    string(subject.Kind),
		"subtype": string(subject.Subtype),
	}
	for i := range e.rules {
		r := &e.rules[i]
		if r.Section != section {
			continue
		}
		if r.program != nil {
			val, _, err := r.program.Eval(vars)
			if err != nil {
				continue
			}
			if ok, isBool := val.Value().(bool); !isBool || !ok {
				continue
			}
		}
		out = append(out, r)
	}
	return out
}

// IsSectionComplete reports whether dict satisfies every rule for section.
// A nil dictionary, or a section no rule covers, is never complete.
func (e *Engine) IsSectionComplete(dict fields.Dictionary, subject Subject, section catalog.Section) bool {
	if dict == nil {
		return false
	}
	rules := e.applicable(subject, section)
	if len(rules) == 0 {
		return false
	}
	for _, r := range rules {
		if !r.satisfied(dict) {
			return false
		}
	}
	return true
}

// Missing lists the required field names that are not present, in rule order.
func (e *Engine) Missing(dict fields.Dictionary, subject Subject, section catalog.Section) []string {
	var missing []string
	for _, r := range e.applicable(subject, section) {
		for _, f := range r.Fields {
			if !dict.Present(f) && !slices.Contains(missing, f) {
				missing = append(missing, f)
			}
		}
		if r.AnyInstanceOf != "" && !hasInstance(dict, r.AnyInstanceOf) {
			missing = append(missing, r.AnyInstanceOf)
		}
	}
	return missing
}

// Required returns the plain fields and instance collections a section asks for.
func (e *Engine) Required(subject Subject, section catalog.Section) (required []string, collections []string) {
	for _, r := range e.applicable(subject, section) {
		for _, f := range r.Fields {
			if !slices.Contains(required, f) {
				required = append(required, f)
			}
		}
		if r.AnyInstanceOf != "" {
			collections = append(collections, r.AnyInstanceOf)
		}
	}
	return required, collections
}

func (r *compiledRule) satisfied(dict fields.Dictionary) bool {
	for _, f := range r.Fields {
		if !dict.Present(f) {
			return false
		}
	}
	if r.AnyInstanceOf != "" && !hasInstance(dict, r.AnyInstanceOf) {
		return false
	}
	return true
}

// hasInstance accepts either a map of type -> instance list or a flat list.
func hasInstance(dict fields.Dictionary, key string) bool {
	if m := dict.GetMap(key); m != nil {
		for _, v := range m {
			if len(fields.AsList(v)) > 0 {
				return true
			}
		}
		return false
	}
	return len(dict.GetList(key)) > 0
}
