package chat

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Route tells whether a query is answered by deterministic lookups or
// delegated to the conversational model.
type Route string

const (
	RouteDeterministic  Route = "deterministic"
	RouteConversational Route = "conversational"
)

// Rule is one entry of the ordered matcher list. A rule matches when any of
// its patterns has every word contained in the lowercased query.
type Rule struct {
	Name     string     `yaml:"name"`
	Route    Route      `yaml:"route"`
	Patterns [][]string `yaml:"patterns"`
}

//go:embed rules.yaml
var rulesYAML []byte

// Router classifies free-text queries with a greedy first-match rule list.
// Order is part of the contract: stats phrasings must win over conversational
// topics that share words with them.
type Router struct {
	rules []Rule
}

// NewRouter loads the embedded rule list.
func NewRouter() (*Router, error) {
	var rules []Rule
	if err := yaml.Unmarshal(rulesYAML, &rules); err != nil {
		return nil, fmt.Errorf("parse routing rules: %w", err)
	}
	for _, r := range rules {
		if r.Route != RouteDeterministic && r.Route != RouteConversational {
			return nil, fmt.Errorf("rule %q: unknown route %q", r.Name, r.Route)
		}
	}
	return &Router{rules: rules}, nil
}

// Classify returns the route for a query. Anything no rule claims is
// conversational, including queries that merely mention a proper name: the
// responder then hands the matched customer's data to the model as context.
func (r *Router) Classify(query string) Route {
	q := strings.ToLower(query)
	for _, rule := range r.rules {
		for _, pattern := range rule.Patterns {
			if containsAllWords(q, pattern) {
				return rule.Route
			}
		}
	}
	return RouteConversational
}

func containsAllWords(lowered string, words []string) bool {
	for _, w := range words {
		if !strings.Contains(lowered, w) {
			return false
		}
	}
	return true
}

// stopWords are tokens never treated as customer names when scanning a query.
var stopWords = map[string]struct{}{
	"who": {}, "is": {}, "what": {}, "where": {}, "when": {}, "how": {},
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {},
	"customer": {}, "customers": {}, "named": {}, "called": {}, "about": {},
	"tell": {}, "me": {}, "show": {}, "find": {}, "search": {}, "get": {},
	"my": {}, "your": {}, "his": {}, "her": {},
}

// ExtractNames pulls words from the query that could be customer names:
// longer than two characters and not in the stop-word set.
func ExtractNames(query string) []string {
	var names []string
	for _, word := range strings.Fields(query) {
		clean := strings.Trim(word, `.,!?;:"()[]`)
		if len(clean) <= 2 {
			continue
		}
		if _, skip := stopWords[strings.ToLower(clean)]; skip {
			continue
		}
		names = append(names, clean)
	}
	return names
}
