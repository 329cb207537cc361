package nav

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntriesOrder(t *testing.T) {
	paths := make([]string, 0)
	for _, e := range Entries() {
		paths = append(paths, e.Path)
	}
	assert.Equal(t, []string{
		"/dashboard", "/code-scanner", "/containerizer", "/api-generator",
		"/migration-estimator", "/security-analyzer", "/reports",
	}, paths)
}

func TestEntriesIsCopy(t *testing.T) {
	list := Entries()
	list[0].Path = "/hacked"

	e, ok := Lookup(DashboardPath)
	require.True(t, ok)
	assert.Equal(t, DashboardPath, e.Path)
}

func TestEveryEntryResolvesAndIsSolelyActive(t *testing.T) {
	for _, e := range Entries() {
		t.Run(e.Label, func(t *testing.T) {
			r := Resolve(e.Path)
			require.Equal(t, RoutePage, r.Kind)
			assert.Equal(t, e.Path, r.Entry.Path)

			active := 0
			for _, it := range Items(e.Path) {
				if it.Active {
					active++
					assert.Equal(t, e.Path, it.Path)
				}
			}
			assert.Equal(t, 1, active, "exactly one entry should be active")
		})
	}
}

func TestRootRedirectsToDashboard(t *testing.T) {
	r := Resolve("/")
	assert.Equal(t, RouteRedirect, r.Kind)
	assert.Equal(t, DashboardPath, r.Location)
}

func TestUnknownPathsAreNotFound(t *testing.T) {
	for _, p := range []string{"", "/nope", "/dashboard/", "/Dashboard", "/code-scanner/extra", "/reports?x=1"} {
		assert.Equal(t, RouteNotFound, Resolve(p).Kind, "path %q", p)
	}
}

func TestItemsNoActiveForUnknown(t *testing.T) {
	for _, it := range Items("/missing") {
		assert.False(t, it.Active)
	}
}

func TestSidebarState(t *testing.T) {
	assert.True(t, ParseSidebarState("collapsed").Collapsed())
	assert.False(t, ParseSidebarState("expanded").Collapsed())
	assert.Equal(t, SidebarExpanded, ParseSidebarState("garbage"))
	assert.Equal(t, "not_found", RouteNotFound.String())
}
