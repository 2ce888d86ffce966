package operand

import (
	"strings"

	"github.com/groblegark/kjql/internal/model"
	"github.com/groblegark/kjql/internal/registry"
)

// resolveFunc expands a function operand into concrete values. Each
// function is only meaningful for certain field types; elsewhere it
// resolves to nothing and reports the standard not-found error.
func (r *Resolver) resolveFunc(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	fn := op.Func
	switch strings.ToLower(fn.Name) {
	case "currentuser":
		return r.fnCurrentUser(f, op)
	case "membersof":
		return r.fnMembersOf(f, op)
	case "releasedversions":
		return r.fnVersions(f, op, true)
	case "unreleasedversions":
		return r.fnVersions(f, op, false)
	case "now":
		return []model.Value{model.TimeValue(r.now)}, nil
	case "cascadeoption":
		return r.fnCascadeOption(f, op)
	}
	return nil, model.NewFunctionNotSupported(op.SourceText(), f.Name)
}

func isUserField(t model.FieldType) bool {
	switch t {
	case model.TypeUser, model.TypeCustomUser, model.TypeCustomMultiUser:
		return true
	}
	return false
}

func (r *Resolver) fnCurrentUser(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if !isUserField(f.Type) || r.user == "" {
		return nil, model.NewFunctionNotSupported(op.SourceText(), f.Name)
	}
	return []model.Value{model.StringValue(r.user)}, nil
}

func (r *Resolver) fnMembersOf(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if !isUserField(f.Type) || len(op.Func.Args) != 1 {
		return nil, model.NewFunctionNotSupported(op.SourceText(), f.Name)
	}
	group := op.Func.Args[0]
	if !r.snap.GroupExists(group) {
		return nil, model.NewGroupNotFound("'"+group+"'", f.Name)
	}
	members := r.snap.UsersInGroup(group)
	values := make([]model.Value, 0, len(members))
	for _, m := range members {
		values = append(values, model.StringValue(m))
	}
	return values, nil
}

func (r *Resolver) fnVersions(f *registry.Field, op model.Operand, released bool) ([]model.Value, *model.QueryError) {
	if f.Type != model.TypeVersion && f.Type != model.TypeCustomVersion {
		return nil, model.NewFunctionNotSupported(op.SourceText(), f.Name)
	}
	// Optional project arguments narrow the version set.
	var projects map[int64]bool
	if len(op.Func.Args) > 0 {
		projects = make(map[int64]bool)
		for _, arg := range op.Func.Args {
			p := r.snap.ProjectByName(arg)
			if p == nil {
				return nil, model.NewNameNotFound("'"+arg+"'", f.Name)
			}
			projects[p.ID] = true
		}
	}

	var values []model.Value
	for _, v := range r.snap.Catalog().Versions {
		if v.Archived || v.Released != released {
			continue
		}
		if projects != nil && !projects[v.ProjectID] {
			continue
		}
		values = append(values, model.IDValue(v.ID))
	}
	return values, nil
}

// fnCascadeOption matches a parent option and, with a second argument,
// a specific child option. The sentinel "none" child matches issues
// with the parent selected and no child.
func (r *Resolver) fnCascadeOption(f *registry.Field, op model.Operand) ([]model.Value, *model.QueryError) {
	if f.Type != model.TypeCustomCascading || len(op.Func.Args) == 0 || len(op.Func.Args) > 2 {
		return nil, model.NewFunctionNotSupported(op.SourceText(), f.Name)
	}
	parents := r.snap.OptionsByLabel(f.ID, op.Func.Args[0])
	if len(parents) == 0 {
		return nil, model.NewOptionNotFound("'"+op.Func.Args[0]+"'", f.Name)
	}

	var values []model.Value
	for _, parent := range parents {
		if len(op.Func.Args) == 1 {
			// Parent alone matches the parent and all of its children.
			values = append(values, model.IDValue(parent.ID))
			for _, o := range r.snap.OptionsForField(f.ID) {
				if o.ParentID == parent.ID {
					values = append(values, model.IDValue(o.ID))
				}
			}
			continue
		}
		child := op.Func.Args[1]
		if strings.EqualFold(child, "none") {
			values = append(values, model.IDValue(parent.ID))
			continue
		}
		found := false
		for _, o := range r.snap.OptionsForField(f.ID) {
			if o.ParentID == parent.ID && strings.EqualFold(o.Value, child) {
				values = append(values, model.IDValue(o.ID))
				found = true
			}
		}
		if !found {
			return nil, model.NewOptionNotFound("'"+child+"'", f.Name)
		}
	}
	return values, nil
}
