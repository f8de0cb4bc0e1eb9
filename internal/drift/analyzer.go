package drift

import (
	"sort"

	"release-tracker/internal/catalog"
	"release-tracker/internal/models"
	"release-tracker/internal/version"
)

// NotDeployed marks a cell that has never received any version.
const NotDeployed = "none"

// MissingCell is an expected cell that is not on the latest version.
type MissingCell struct {
	catalog.Cell
	Current string
}

// Report describes one application's drift.
type Report struct {
	Application string
	Latest      string
	Missing     []MissingCell
}

// Drift groups the missing cells as account -> region -> current version.
func (r Report) Drift() map[string]map[string]string {
	out := make(map[string]map[string]string)
	for _, m := range r.Missing {
		if out[m.Account] == nil {
			out[m.Account] = make(map[string]string)
		}
		out[m.Account][m.Region] = m.Current
	}
	return out
}

// Analysis is the result of analyzing one application. Report is nil when
// the application has no valid releases or every expected cell is on the
// latest version.
type Analysis struct {
	Report    *Report
	Discarded []string
}

// Analyze computes the latest version of an application and the expected
// cells that are missing it.
//
// Records are processed oldest first, so for a cell recorded more than once
// the newest record determines its current version. A cell counts as covered
// if any record ever placed the latest version there.
func Analyze(application string, records []models.Release, expected []catalog.Cell) Analysis {
	ordered := make([]models.Release, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	var (
		result      Analysis
		versionMap  = make(map[string]map[catalog.Cell]struct{})
		versions    []string
		environment = make(map[catalog.Cell]string)
	)
	for _, rec := range ordered {
		if !version.Valid(rec.Version) {
			result.Discarded = append(result.Discarded, rec.Version)
			continue
		}
		cell := catalog.Cell{Account: rec.Account, Region: rec.Region}
		cells, ok := versionMap[rec.Version]
		if !ok {
			cells = make(map[catalog.Cell]struct{})
			versionMap[rec.Version] = cells
			versions = append(versions, rec.Version)
		}
		cells[cell] = struct{}{}
		environment[cell] = rec.Version
	}

	latest, ok := version.SelectLatest(versions)
	if !ok {
		return result
	}

	onLatest := versionMap[latest]
	var missing []MissingCell
	for _, cell := range expected {
		if _, deployed := onLatest[cell]; deployed {
			continue
		}
		current, ok := environment[cell]
		if !ok {
			current = NotDeployed
		}
		missing = append(missing, MissingCell{Cell: cell, Current: current})
	}

	if len(missing) > 0 {
		result.Report = &Report{Application: application, Latest: latest, Missing: missing}
	}
	return result
}
