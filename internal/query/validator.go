package query

import (
	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// validate checks one comparison against the snapshot and resolves its
// operands. Rules apply in a fixed order and the first failure wins:
// existence, searchability, scope, operator, EMPTY support, operand
// resolution. Out-of-scope fields report the same message as missing
// fields; the user cannot tell the two apart.
func (e *Engine) validate(comp *model.Comparison, sc Scope) (*registry.Field, []model.Value, *model.QueryError) {
	f := e.snap.FieldByName(comp.Field)
	if f == nil {
		return nil, nil, model.NewFieldNotFound(comp.Field)
	}
	if !f.Searchable {
		return nil, nil, model.NewFieldNotSearchable(comp.Field)
	}
	if !e.snap.InScope(f, e.user, sc.Projects, sc.IssueTypes) {
		return nil, nil, model.NewFieldNotFound(comp.Field)
	}

	if !registry.SupportsOperator(f.Type, comp.Op) {
		return nil, nil, model.NewOperatorNotSupported(comp.Op, comp.Field)
	}
	if comp.Op.IsRelational() && len(comp.Operands) != 1 {
		return nil, nil, model.NewOperatorNotSupported(comp.Op, comp.Field)
	}
	if comp.Op == model.OpIs || comp.Op == model.OpIsNot {
		// is / is not test the empty marker and nothing else.
		for _, op := range comp.Operands {
			if !op.IsEmpty() {
				return nil, nil, model.NewOperatorNotSupported(comp.Op, comp.Field)
			}
		}
	}

	// Errors should carry the name exactly as the clause wrote it, which
	// may be an alias of the registered display name.
	display := *f
	display.Name = comp.Field

	var values []model.Value
	for _, op := range comp.Operands {
		if op.IsEmpty() {
			if !registry.SupportsEmpty(f.Type) || comp.Op.IsRelational() {
				return nil, nil, model.NewEmptyNotSupported(comp.Field)
			}
			values = append(values, model.EmptyValue())
			continue
		}
		resolved, qerr := e.resolver.Resolve(&display, op)
		if qerr != nil {
			return nil, nil, qerr
		}
		values = append(values, resolved...)
	}
	return f, values, nil
}

// ResolveComparison validates one comparison in the given scope and
// returns the field record and resolved operand values. The fitter
// re-validates clauses against fit-time scope through this.
func (e *Engine) ResolveComparison(comp *model.Comparison, sc Scope) (*registry.Field, []model.Value, *model.QueryError) {
	return e.validate(comp, sc)
}

// DeriveScope exposes AND-branch scope narrowing to collaborators that
// walk clause trees themselves.
func (e *Engine) DeriveScope(children []model.Clause, sc Scope) Scope {
	return e.deriveScope(children, sc)
}

// Validate walks the clause tree depth-first and reports the first
// invalid comparison, without evaluating anything. AND branches narrow
// the scope for their descendants the same way evaluation does.
func (e *Engine) Validate(clause model.Clause) *model.QueryError {
	return e.validateTree(clause, Scope{})
}

func (e *Engine) validateTree(clause model.Clause, sc Scope) *model.QueryError {
	switch n := clause.(type) {
	case *model.Comparison:
		_, _, qerr := e.validate(n, sc)
		return qerr
	case *model.AndClause:
		child := e.deriveScope(n.Children, sc)
		for _, c := range n.Children {
			if qerr := e.validateTree(c, child); qerr != nil {
				return qerr
			}
		}
	case *model.OrClause:
		for _, c := range n.Children {
			if qerr := e.validateTree(c, sc); qerr != nil {
				return qerr
			}
		}
	case *model.NotClause:
		return e.validateTree(n.Child, sc)
	}
	return nil
}
