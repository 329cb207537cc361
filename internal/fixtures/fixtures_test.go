package fixtures

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	assert.Len(t, c.Dashboard.Stats, 4)
	assert.Len(t, c.Dashboard.RecentProjects, 3)
	assert.Equal(t, 247, c.CodeScanner.Results.TotalFiles)
	assert.Len(t, c.Containerizer.Modules, 4)
	assert.Len(t, c.APIGenerator.Endpoints, 5)
	assert.Len(t, c.MigrationEstimator.Components, 4)
	assert.Len(t, c.SecurityAnalyzer.Vulnerabilities, 5)
	assert.Len(t, c.SecurityAnalyzer.Compliance, 5)
	assert.Len(t, c.Reports.RecentReports, 4)
	assert.Equal(t, "ai@intellibridge.com", c.User.Email)
	assert.Equal(t, 2024, c.SecurityAnalyzer.Overview.LastScan.Year())
}

func TestDefaultIsShared(t *testing.T) {
	a := MustDefault()
	b := MustDefault()
	assert.Same(t, a, b, "embedded catalog should be decoded once")
}

func TestSnippetsLoaded(t *testing.T) {
	c := MustDefault()

	for _, id := range []string{"dockerfile", "docker-compose", "rest-controller", "graphql-schema", "graphql-resolvers"} {
		s, ok := c.Snippet(id)
		require.True(t, ok, "snippet %s should exist", id)
		assert.NotEmpty(t, s.Content)
		assert.NotEmpty(t, s.Filename)
	}

	df, _ := c.Snippet("dockerfile")
	assert.Contains(t, df.Content, "FROM openjdk:11-jre-slim")

	_, ok := c.Snippet("missing")
	assert.False(t, ok)
}

func TestLookups(t *testing.T) {
	c := MustDefault()

	m, ok := c.Module("legacy-reports")
	require.True(t, ok)
	assert.Equal(t, "Requires Migration", m.Status)

	e, ok := c.Endpoint("DELETE /api/users/{id}")
	require.True(t, ok)
	assert.Equal(t, "Success", e.Response)

	_, ok = c.Endpoint("/api/users")
	assert.False(t, ok, "endpoint key includes the method")

	v, ok := c.Vulnerability("SEC-2024-002")
	require.True(t, ok)
	assert.Equal(t, "Fixed", v.Status)
}

func TestEffortSeries(t *testing.T) {
	series := MustDefault().MigrationEstimator.EffortSeries()
	require.Len(t, series, 4)
	assert.Equal(t, "Payment Processing", series[1].Name)
	assert.InDelta(t, 150.0, series[1].Cost, 0.001)
}

func TestLoadRejectsUnknownSnippetReference(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog.yaml": {Data: []byte("containerizer:\n  snippets: [nope]\n")},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown snippet reference "nope"`)
}

func TestLoadRejectsMissingSnippetFile(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog.yaml": {Data: []byte("snippets:\n  - {id: dockerfile, title: Dockerfile, filename: Dockerfile}\n")},
	}
	_, err := Load(fsys)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `snippet "dockerfile"`)
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	fsys := fstest.MapFS{
		"catalog.yaml": {Data: []byte("dashbord:\n  headline: typo\n")},
	}
	_, err := Load(fsys)
	assert.Error(t, err)
}
