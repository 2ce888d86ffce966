package operand

import (
	"strings"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// resolveText validates a free-text search literal. The index rejects
// leading-wildcard terms and queries ending in a dangling boolean
// operator; those surface as distinct parse errors.
func (r *Resolver) resolveText(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	text := op.Str
	if text == "" {
		return nil, model.NewEmptyStringNotSupported(f.Name)
	}
	if text == "*" || text == "?" {
		return nil, model.NewInvalidStartChar(op.SourceText(), f.Name)
	}
	for _, term := range strings.Fields(text) {
		if term[0] == '*' || term[0] == '?' {
			return nil, model.NewWildcardStart(op.SourceText(), f.Name)
		}
	}
	if danglingOperator(text) {
		return nil, model.NewCantParseQuery(op.SourceText(), f.Name)
	}
	return []model.Value{model.StringValue(text)}, nil
}

// danglingOperator reports whether the query ends in a bare boolean
// operator token ("BAD +", "x &&").
func danglingOperator(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	switch fields[len(fields)-1] {
	case "+", "-", "!", "&&", "||", "AND", "OR", "NOT":
		return true
	}
	return false
}
