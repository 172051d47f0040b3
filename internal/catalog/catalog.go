// File: internal/catalog/catalog.go

// Package catalog loads the role-permission catalog: the declarative mapping
// from role code to hierarchy rank, permission set, dashboard path, route
// patterns and menu fragment. The catalog is configuration data, loaded once
// at startup and read-only afterwards, so operators can add roles without a
// rebuild.
package catalog

import (
	"fmt"
	"math"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// UnknownRoleRank is the sentinel rank for roles absent from the catalog:
// the lowest possible privilege.
const UnknownRoleRank = math.MaxInt32

// RoleDefinition is the declarative record for one role.
type RoleDefinition struct {
	Code          string    `yaml:"code"`
	Rank          int       `yaml:"rank"`
	Permissions   []string  `yaml:"permissions"`
	DashboardPath string    `yaml:"dashboard_path"`
	Routes        []string  `yaml:"routes"`
	Menu          yaml.Node `yaml:"menu,omitempty"`
}

type catalogFile struct {
	DefaultRole string           `yaml:"default_role"`
	Roles       []RoleDefinition `yaml:"roles"`
}

// Catalog is the loaded, immutable role-permission catalog.
type Catalog struct {
	roles       map[string]RoleDefinition
	defaultRole string
}

// Load reads the catalog from a YAML file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse builds a catalog from raw YAML.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}
	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("catalog defines no roles")
	}

	roles := make(map[string]RoleDefinition, len(file.Roles))
	for _, def := range file.Roles {
		if def.Code == "" {
			return nil, fmt.Errorf("catalog contains a role without a code")
		}
		if _, dup := roles[def.Code]; dup {
			return nil, fmt.Errorf("catalog defines role %q twice", def.Code)
		}
		roles[def.Code] = def
	}

	defaultRole := file.DefaultRole
	if defaultRole == "" {
		// Fall back to the lowest-privilege role (highest rank).
		worst := math.MinInt32
		for code, def := range roles {
			if def.Rank > worst {
				worst = def.Rank
				defaultRole = code
			}
		}
	}
	if _, ok := roles[defaultRole]; !ok {
		return nil, fmt.Errorf("default role %q is not defined in the catalog", defaultRole)
	}

	return &Catalog{roles: roles, defaultRole: defaultRole}, nil
}

// Get returns the definition of a role code.
func (c *Catalog) Get(code string) (RoleDefinition, bool) {
	def, ok := c.roles[code]
	return def, ok
}

// Rank returns a role's hierarchy rank (lower is more privileged), or
// UnknownRoleRank for a role absent from the catalog.
func (c *Catalog) Rank(code string) int {
	if def, ok := c.roles[code]; ok {
		return def.Rank
	}
	return UnknownRoleRank
}

// DefaultRole returns the configured lowest-privilege default role code.
func (c *Catalog) DefaultRole() string {
	return c.defaultRole
}

// Codes returns all role codes, sorted.
func (c *Catalog) Codes() []string {
	codes := make([]string, 0, len(c.roles))
	for code := range c.roles {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}
