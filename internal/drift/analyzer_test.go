package drift

import (
	"testing"
	"time"

	"release-tracker/internal/catalog"
	"release-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cells(t *testing.T, accounts, regions []string) []catalog.Cell {
	t.Helper()
	c, err := catalog.New([]string{"app"}, accounts, regions)
	require.NoError(t, err)
	return c.ExpectedCells("app")
}

func release(version, account, region string) models.Release {
	return models.Release{Name: "app", Version: version, Account: account, Region: region}
}

func TestAnalyze_ReportsMissingCells(t *testing.T) {
	expected := cells(t, []string{"staging", "prod"}, []string{"primary", "secondary"})
	records := []models.Release{
		release("1.0.0", "staging", "primary"),
		release("1.0.0", "staging", "secondary"),
		release("1.1.0", "prod", "primary"),
	}

	got := Analyze("X", records, expected)
	require.NotNil(t, got.Report)
	assert.Empty(t, got.Discarded)
	assert.Equal(t, "X", got.Report.Application)
	assert.Equal(t, "1.1.0", got.Report.Latest)
	assert.Equal(t, []MissingCell{
		{Cell: catalog.Cell{Account: "staging", Region: "primary"}, Current: "1.0.0"},
		{Cell: catalog.Cell{Account: "staging", Region: "secondary"}, Current: "1.0.0"},
		{Cell: catalog.Cell{Account: "prod", Region: "secondary"}, Current: NotDeployed},
	}, got.Report.Missing)
	assert.Equal(t, map[string]map[string]string{
		"staging": {"primary": "1.0.0", "secondary": "1.0.0"},
		"prod":    {"secondary": "none"},
	}, got.Report.Drift())
}

func TestAnalyze_NoRecords(t *testing.T) {
	got := Analyze("X", nil, cells(t, []string{"staging"}, []string{"primary"}))
	assert.Nil(t, got.Report)
}

func TestAnalyze_FullyCovered(t *testing.T) {
	expected := cells(t, []string{"staging", "prod"}, []string{"primary"})
	records := []models.Release{
		release("1.0.0", "staging", "primary"),
		release("2.0.0", "staging", "primary"),
		release("2.0.0", "prod", "primary"),
	}
	assert.Nil(t, Analyze("X", records, expected).Report)
}

func TestAnalyze_SingleCellCatalog(t *testing.T) {
	expected := cells(t, []string{"staging"}, []string{"primary"})
	got := Analyze("Y", []models.Release{release("2.0.0", "staging", "primary")}, expected)
	assert.Nil(t, got.Report)
}

func TestAnalyze_SemanticNotLexicalOrdering(t *testing.T) {
	expected := cells(t, []string{"staging", "prod"}, []string{"primary"})
	records := []models.Release{
		release("1.10.0", "staging", "primary"),
		release("1.9.0", "prod", "primary"),
	}
	got := Analyze("X", records, expected)
	require.NotNil(t, got.Report)
	assert.Equal(t, "1.10.0", got.Report.Latest)
	assert.Equal(t, map[string]map[string]string{"prod": {"primary": "1.9.0"}}, got.Report.Drift())
}

func TestAnalyze_PrereleaseIsOlderThanRelease(t *testing.T) {
	expected := cells(t, []string{"staging", "prod"}, []string{"primary"})
	records := []models.Release{
		release("3.0.0-rc.1", "staging", "primary"),
		release("3.0.0", "prod", "primary"),
	}
	got := Analyze("X", records, expected)
	require.NotNil(t, got.Report)
	assert.Equal(t, "3.0.0", got.Report.Latest)
	assert.Equal(t, "3.0.0-rc.1", got.Report.Missing[0].Current)
}

func TestAnalyze_DiscardsInvalidVersions(t *testing.T) {
	expected := cells(t, []string{"staging"}, []string{"primary", "secondary"})
	records := []models.Release{
		release("99", "staging", "primary"),
		release("1.0.0", "staging", "primary"),
		release("latest", "staging", "secondary"),
	}
	got := Analyze("X", records, expected)
	assert.Equal(t, []string{"99", "latest"}, got.Discarded)
	require.NotNil(t, got.Report)
	assert.Equal(t, "1.0.0", got.Report.Latest)
	assert.Equal(t, map[string]map[string]string{"staging": {"secondary": "none"}}, got.Report.Drift())
}

func TestAnalyze_OnlyInvalidVersions(t *testing.T) {
	expected := cells(t, []string{"staging"}, []string{"primary"})
	got := Analyze("X", []models.Release{release("bogus", "staging", "primary")}, expected)
	assert.Nil(t, got.Report)
	assert.Len(t, got.Discarded, 1)
}

func TestAnalyze_NewestRecordIsCurrent(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	expected := cells(t, []string{"staging", "prod"}, []string{"primary"})

	newer := release("1.0.0", "prod", "primary")
	newer.CreatedAt = base.Add(2 * time.Hour)
	older := release("0.9.0", "prod", "primary")
	older.CreatedAt = base.Add(time.Hour)
	latest := release("2.0.0", "staging", "primary")
	latest.CreatedAt = base

	got := Analyze("X", []models.Release{newer, older, latest}, expected)
	require.NotNil(t, got.Report)
	assert.Equal(t, "2.0.0", got.Report.Latest)
	assert.Equal(t, map[string]map[string]string{"prod": {"primary": "1.0.0"}}, got.Report.Drift())
}

func TestAnalyze_IgnoresCellsOutsideCatalog(t *testing.T) {
	expected := cells(t, []string{"staging"}, []string{"primary"})
	records := []models.Release{
		release("1.0.0", "staging", "primary"),
		release("5.0.0", "sandbox", "primary"),
	}
	got := Analyze("X", records, expected)
	require.NotNil(t, got.Report)
	assert.Equal(t, "5.0.0", got.Report.Latest)
	assert.Equal(t, map[string]map[string]string{"staging": {"primary": "1.0.0"}}, got.Report.Drift())
}

func TestAnalyze_EqualPrecedenceFirstSeenWins(t *testing.T) {
	expected := cells(t, []string{"staging", "prod"}, []string{"primary"})
	records := []models.Release{
		release("1.0.0+build.2", "staging", "primary"),
		release("1.0.0+build.1", "prod", "primary"),
	}
	got := Analyze("X", records, expected)
	require.NotNil(t, got.Report)
	assert.Equal(t, "1.0.0+build.2", got.Report.Latest)
	assert.Equal(t, map[string]map[string]string{"prod": {"primary": "1.0.0+build.1"}}, got.Report.Drift())
}

func TestAnalyze_DoesNotReorderInput(t *testing.T) {
	expected := cells(t, []string{"staging"}, []string{"primary"})
	a := release("1.0.0", "staging", "primary")
	a.CreatedAt = time.Unix(200, 0)
	b := release("0.1.0", "staging", "primary")
	b.CreatedAt = time.Unix(100, 0)
	records := []models.Release{a, b}

	Analyze("X", records, expected)
	assert.Equal(t, "1.0.0", records[0].Version)
}
