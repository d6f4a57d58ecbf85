package graphnav

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/Sunilk240/Agentic-RAG-and-Knowledge-Graph/pkg/types"
)

// Write-intent clause keywords. CALL stays allowed: read procedures like
// db.labels are a legitimate inspection tool, and mutating procedures are
// gated by the store's own access mode as a second layer.
var writeClauseRe = regexp.MustCompile(`(?i)\b(CREATE|MERGE|DELETE|DETACH|SET|REMOVE|DROP|FOREACH|LOAD)\b`)

// ExecuteCypherQuery runs a caller-supplied query verbatim and maps
// returned node records into entities. Queries with write intent are
// rejected before execution with ErrReadOnlyViolation; the check is a
// keyword scan outside string literals, so the guarantee does not depend
// on the backing store's privilege model.
func (n *Navigator) ExecuteCypherQuery(ctx context.Context, query string) (types.CypherResult, error) {
	if clause := writeClause(query); clause != "" {
		return types.CypherResult{}, fmt.Errorf("%w: %s clause", ErrReadOnlyViolation, clause)
	}
	entities, err := n.store.RunReadQuery(ctx, query)
	if err != nil {
		return types.CypherResult{}, err
	}
	return types.CypherResult{Entities: entities, CypherQuery: query}, nil
}

// writeClause returns the first write-intent keyword found outside string
// literals, or "" if the query is read-only.
func writeClause(query string) string {
	stripped := stripStringLiterals(query)
	match := writeClauseRe.FindString(stripped)
	return strings.ToUpper(match)
}

// stripStringLiterals blanks out single-quoted, double-quoted, and
// backtick-quoted runs so keyword scanning cannot be fooled by literal
// text like WHERE n.name = 'DELETE ME'.
func stripStringLiterals(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var quote rune
	for _, r := range s {
		switch {
		case quote != 0:
			if r == quote {
				quote = 0
			}
			b.WriteRune(' ')
		case r == '\'' || r == '"' || r == '`':
			quote = r
			b.WriteRune(' ')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
