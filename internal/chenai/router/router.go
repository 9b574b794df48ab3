// Package router selects the data source for a user query.
//
// Routing is an ordered list of keyword rules evaluated first-match-wins over
// the lowercased query. Realtime intent always beats the topical collections,
// and queries matching nothing fall back to a configurable target.
package router

import (
	"fmt"
	"strings"

	"github.com/longkey1/chenai/internal/chenai"
)

// Target is the data source a query is routed to.
type Target string

const (
	TargetCollectionA Target = "collection_a"
	TargetCollectionB Target = "collection_b"
	TargetCollectionC Target = "collection_c"
	TargetInternet    Target = "internet"
	TargetNone        Target = "none"
)

// DefaultResultCount is the number of documents requested from a collection.
const DefaultResultCount = 5

// IsCollection reports whether the target is one of the document collections.
func (t Target) IsCollection() bool {
	return t == TargetCollectionA || t == TargetCollectionB || t == TargetCollectionC
}

// ParseTarget parses a fallback target name from configuration.
func ParseTarget(s string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(s))) {
	case TargetInternet, "":
		return TargetInternet, nil
	case TargetNone:
		return TargetNone, nil
	default:
		return "", fmt.Errorf("unsupported router fallback: %s (expected internet or none)", s)
	}
}

// Params carries the arguments for the selected backend.
type Params struct {
	Collection string `json:"collection,omitempty" yaml:"collection,omitempty"`
	Query      string `json:"query" yaml:"query"`
	N          int    `json:"n,omitempty" yaml:"n,omitempty"`
}

// Decision is the outcome of routing one user turn.
type Decision struct {
	Target Target `json:"target" yaml:"target"`
	Rule   string `json:"rule" yaml:"rule"`
	Params Params `json:"params" yaml:"params"`
}

// Function returns the backend function name the decision will call,
// or an empty string when no retrieval is made.
func (d Decision) Function() string {
	switch {
	case d.Target.IsCollection():
		return chenai.FuncSearchDB
	case d.Target == TargetInternet:
		return chenai.FuncInternetSearch
	default:
		return ""
	}
}

// Rule pairs a predicate over the lowercased query with the decision it produces.
type Rule struct {
	Name  string
	Match func(lowered string) bool
	Build func(query string) Decision
}

// Keyword sets, tested by case-insensitive substring matching.
var (
	RealtimeKeywords = []string{
		"latest", "current", "recent", "now", "today", "news", "realtime",
		"breaking", "update", "trending", "happening now",
	}
	AgentKeywords = []string{
		"agent", "agents", "llm agent", "autonomous agent", "task decomposition",
		"memory", "tool use", "agentic",
	}
	PromptKeywords = []string{
		"prompt", "prompting", "zero-shot", "few-shot", "chain-of-thought", "cot",
		"prompt engineering",
	}
	AttackKeywords = []string{
		"adversarial", "attack", "jailbreak", "mitigation", "white-box", "black-box",
		"adversarial attack",
	}
)

// Router classifies queries. The zero value is not usable; call New.
type Router struct {
	rules    []Rule
	fallback Target
}

// Option configures a Router.
type Option func(*Router)

// WithFallback sets the target used when no rule matches. Only TargetInternet
// and TargetNone are meaningful fallbacks.
func WithFallback(target Target) Option {
	return func(r *Router) {
		r.fallback = target
	}
}

// New returns a router with the default rule order.
func New(opts ...Option) *Router {
	r := &Router{
		rules:    DefaultRules(),
		fallback: TargetInternet,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DefaultRules returns the rules in priority order: realtime intent first,
// then the agent, prompting and adversarial-attack collections.
func DefaultRules() []Rule {
	return []Rule{
		{Name: "realtime", Match: containsAny(RealtimeKeywords), Build: internet},
		{Name: "agent", Match: containsAny(AgentKeywords), Build: collection(TargetCollectionA, chenai.CollectionAgent)},
		{Name: "prompt", Match: containsAny(PromptKeywords), Build: collection(TargetCollectionB, chenai.CollectionPrompt)},
		{Name: "attack", Match: containsAny(AttackKeywords), Build: collection(TargetCollectionC, chenai.CollectionAttack)},
	}
}

// Route returns the decision for query. It has no side effects.
// An empty or whitespace-only query yields chenai.ErrNoQuery.
func (r *Router) Route(query string) (Decision, error) {
	if strings.TrimSpace(query) == "" {
		return Decision{}, chenai.ErrNoQuery
	}

	lowered := strings.ToLower(query)
	for _, rule := range r.rules {
		if rule.Match(lowered) {
			d := rule.Build(query)
			d.Rule = rule.Name
			return d, nil
		}
	}

	if r.fallback == TargetNone {
		return Decision{Target: TargetNone, Rule: "fallback", Params: Params{Query: query}}, nil
	}
	d := internet(query)
	d.Rule = "fallback"
	return d, nil
}

func containsAny(keywords []string) func(string) bool {
	return func(lowered string) bool {
		for _, kw := range keywords {
			if strings.Contains(lowered, kw) {
				return true
			}
		}
		return false
	}
}

func internet(query string) Decision {
	return Decision{Target: TargetInternet, Params: Params{Query: query}}
}

func collection(target Target, name string) func(string) Decision {
	return func(query string) Decision {
		return Decision{
			Target: target,
			Params: Params{Collection: name, Query: query, N: DefaultResultCount},
		}
	}
}
