// File: internal/catalog/catalog_test.go
package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCatalog = `
default_role: PERSONAL_USER
roles:
  - code: ADMIN
    rank: 1
    permissions: [user.read, user.write, system.manage]
    dashboard_path: /admin/dashboard
    routes: ["/admin/*"]
  - code: PERSONAL_USER
    rank: 3
    permissions: [user.read]
    dashboard_path: /home
    routes: ["/account/*"]
`

func TestParse(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, "PERSONAL_USER", c.DefaultRole())
	assert.Equal(t, []string{"ADMIN", "PERSONAL_USER"}, c.Codes())

	admin, ok := c.Get("ADMIN")
	require.True(t, ok)
	assert.Equal(t, 1, admin.Rank)
	assert.Contains(t, admin.Permissions, "system.manage")
	assert.Equal(t, "/admin/dashboard", admin.DashboardPath)

	_, ok = c.Get("NO_SUCH_ROLE")
	assert.False(t, ok)
}

func TestParseDefaultRoleFallsBackToHighestRank(t *testing.T) {
	c, err := Parse([]byte(`
roles:
  - code: ADMIN
    rank: 1
  - code: GUEST
    rank: 9
`))
	require.NoError(t, err)
	assert.Equal(t, "GUEST", c.DefaultRole(), "without an explicit default the lowest-privilege role wins")
}

func TestParseRejectsBadCatalogs(t *testing.T) {
	cases := []struct {
		name string
		yaml string
	}{
		{"empty", ``},
		{"no roles", `default_role: ADMIN`},
		{"duplicate code", `
roles:
  - code: ADMIN
    rank: 1
  - code: ADMIN
    rank: 2
`},
		{"role without code", `
roles:
  - rank: 1
`},
		{"unknown default role", `
default_role: MISSING
roles:
  - code: ADMIN
    rank: 1
`},
		{"not yaml", `{{{`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			assert.Error(t, err)
		})
	}
}

func TestRank(t *testing.T) {
	c, err := Parse([]byte(sampleCatalog))
	require.NoError(t, err)

	assert.Equal(t, 1, c.Rank("ADMIN"))
	assert.Equal(t, 3, c.Rank("PERSONAL_USER"))
	assert.Equal(t, UnknownRoleRank, c.Rank("NO_SUCH_ROLE"))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleCatalog), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "PERSONAL_USER", c.DefaultRole())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
