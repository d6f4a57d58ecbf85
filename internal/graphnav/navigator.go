// Package graphnav implements the graph navigator: free-text entity
// lookup, bounded breadth-first relationship traversal, and a read-only
// escape hatch for ad hoc graph queries.
package graphnav

import (
	"context"
	"errors"
	"strings"
	"unicode"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/internal/storage"
	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// ErrReadOnlyViolation indicates a caller-supplied query carried write
// intent. Never retried.
var ErrReadOnlyViolation = errors.New("query is not read-only")

// Options configures the navigator.
type Options struct {
	// AgentID identifies the navigator in message envelopes.
	// Default: "graph_navigator".
	AgentID string
	// MaxPaths caps the number of traversal paths returned. Default: 50.
	MaxPaths int
}

// Normalize fills in defaults for unset options.
func (o *Options) Normalize() {
	if o.AgentID == "" {
		o.AgentID = "graph_navigator"
	}
	if o.MaxPaths <= 0 {
		o.MaxPaths = 50
	}
}

// Navigator owns the graph store handle.
type Navigator struct {
	opts  Options
	store storage.GraphStore
}

// NewNavigator creates a navigator over the given graph store.
func NewNavigator(store storage.GraphStore, opts Options) *Navigator {
	opts.Normalize()
	return &Navigator{opts: opts, store: store}
}

// AgentID returns the navigator's message-envelope identity.
func (n *Navigator) AgentID() string {
	return n.opts.AgentID
}

// FindEntities resolves free text into graph entities. Candidate terms are
// extracted from the query (stopword-filtered tokens plus capitalized
// phrases) and matched against entity names and types. Exact name matches
// rank before partial matches; within each band, earlier query terms rank
// first.
func (n *Navigator) FindEntities(ctx context.Context, queryText string) ([]types.Entity, error) {
	terms := extractTerms(queryText)
	if len(terms) == 0 {
		return nil, nil
	}

	var exact, partial []types.Entity
	seen := map[string]bool{}
	for _, term := range terms {
		matches, err := n.store.SearchEntities(ctx, term)
		if err != nil {
			return nil, err
		}
		for _, ent := range matches {
			if seen[ent.ID] {
				continue
			}
			seen[ent.ID] = true
			if strings.EqualFold(ent.Name, term) {
				exact = append(exact, ent)
			} else {
				partial = append(partial, ent)
			}
		}
	}
	return append(exact, partial...), nil
}

// Ping verifies the backing store is reachable.
func (n *Navigator) Ping(ctx context.Context) error {
	return n.store.Ping(ctx)
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "can": true, "do": true, "does": true,
	"for": true, "from": true, "how": true, "in": true, "is": true,
	"it": true, "its": true, "of": true, "on": true, "or": true,
	"relate": true, "related": true, "that": true, "the": true, "to": true,
	"was": true, "what": true, "when": true, "where": true, "which": true,
	"who": true, "why": true, "with": true,
}

// extractTerms pulls candidate entity terms out of free text: multi-word
// capitalized phrases first (they are the strongest entity signals), then
// the remaining stopword-filtered tokens. Order is preserved and terms are
// unique.
func extractTerms(text string) []string {
	var terms []string
	seen := map[string]bool{}
	add := func(term string) {
		key := strings.ToLower(term)
		if key == "" || seen[key] {
			return
		}
		seen[key] = true
		terms = append(terms, term)
	}

	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})

	// Capitalized runs like "Neural Networks" form one phrase term.
	// Sentence-leading stopwords ("What", "How") are capitalized too, so
	// single-word runs still go through the stopword filter.
	var run []string
	flush := func() {
		if len(run) > 1 || (len(run) == 1 && !stopwords[strings.ToLower(run[0])]) {
			add(strings.Join(run, " "))
		}
		run = nil
	}
	for _, word := range words {
		if len(word) > 1 && unicode.IsUpper([]rune(word)[0]) {
			run = append(run, word)
			continue
		}
		flush()
	}
	flush()

	for _, word := range words {
		if len(word) < 3 || stopwords[strings.ToLower(word)] {
			continue
		}
		add(word)
	}
	return terms
}
