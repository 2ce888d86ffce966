package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/groblegark/kjql/internal/registry"
)

// LoadCatalog reads a search catalog from a TOML file. Unknown keys are
// rejected so a typoed section name fails loudly instead of silently
// dropping configuration.
func LoadCatalog(path string) (*registry.Catalog, error) {
	var cat registry.Catalog
	md, err := toml.DecodeFile(path, &cat)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("catalog %s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := validateCatalog(&cat); err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return &cat, nil
}

// ParseCatalog decodes a catalog from TOML text. Used by tests and by
// admin endpoints that accept inline catalogs.
func ParseCatalog(data string) (*registry.Catalog, error) {
	var cat registry.Catalog
	if _, err := toml.Decode(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := validateCatalog(&cat); err != nil {
		return nil, err
	}
	return &cat, nil
}

func validateCatalog(cat *registry.Catalog) error {
	projects := make(map[int64]bool, len(cat.Projects))
	for _, p := range cat.Projects {
		if p.ID == 0 || p.Key == "" {
			return fmt.Errorf("project %q: id and key are required", p.Name)
		}
		if projects[p.ID] {
			return fmt.Errorf("duplicate project id %d", p.ID)
		}
		projects[p.ID] = true
	}

	for _, v := range cat.Versions {
		if !projects[v.ProjectID] {
			return fmt.Errorf("version %q references unknown project %d", v.Name, v.ProjectID)
		}
	}
	for _, c := range cat.Components {
		if !projects[c.ProjectID] {
			return fmt.Errorf("component %q references unknown project %d", c.Name, c.ProjectID)
		}
	}

	fields := make(map[string]bool, len(cat.Fields))
	for _, f := range cat.Fields {
		if f.ID == "" || f.Name == "" {
			return fmt.Errorf("field %q: id and name are required", f.Name)
		}
		if !f.Type.IsValid() {
			return fmt.Errorf("field %s: unknown type %q", f.ID, f.Type)
		}
		if fields[f.ID] {
			return fmt.Errorf("duplicate field id %s", f.ID)
		}
		fields[f.ID] = true
	}
	for _, ctx := range cat.Contexts {
		if !fields[ctx.FieldID] {
			return fmt.Errorf("context %s references unknown field %s", ctx.ID, ctx.FieldID)
		}
		for _, pid := range ctx.ProjectIDs {
			if !projects[pid] {
				return fmt.Errorf("context %s references unknown project %d", ctx.ID, pid)
			}
		}
	}
	for _, o := range cat.Options {
		if !fields[o.FieldID] {
			return fmt.Errorf("option %q references unknown field %s", o.Value, o.FieldID)
		}
	}

	return nil
}
