package models

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"release-tracker/internal/version"
)

const (
	maxFieldLength   = 255
	DefaultListLimit = 10
	MaxListLimit     = 100
)

// Release is one recorded deployment of an application version to an account and region.
type Release struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Version   string    `json:"version"`
	Account   string    `json:"account"`
	Region    string    `json:"region"`
	CreatedAt time.Time `json:"created_at"`
}

type CreateReleaseRequest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Account string `json:"account"`
	Region  string `json:"region"`
}

type CreateReleaseResponse struct {
	Message   string `json:"message"`
	ReleaseID int64  `json:"releaseId"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationError describes a malformed request.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Normalize trims whitespace from every field.
func (r *CreateReleaseRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Version = strings.TrimSpace(r.Version)
	r.Account = strings.TrimSpace(r.Account)
	r.Region = strings.TrimSpace(r.Region)
}

// Validate checks required fields and the version format. Call Normalize first.
func (r *CreateReleaseRequest) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"name", r.Name},
		{"version", r.Version},
		{"account", r.Account},
		{"region", r.Region},
	}
	for _, f := range fields {
		if f.value == "" {
			return &ValidationError{Field: f.name, Reason: "is required"}
		}
		if len(f.value) > maxFieldLength {
			return &ValidationError{Field: f.name, Reason: fmt.Sprintf("must be at most %d characters", maxFieldLength)}
		}
	}
	if !version.Valid(r.Version) {
		return &ValidationError{Field: "version", Reason: "must be a semantic version (MAJOR.MINOR.PATCH)"}
	}
	return nil
}

// ListReleasesQuery holds pagination for the release listing.
type ListReleasesQuery struct {
	Limit  int
	Offset int
}

// ParseListReleasesQuery reads limit and offset, applying defaults for empty values.
func ParseListReleasesQuery(limit, offset string) (ListReleasesQuery, error) {
	q := ListReleasesQuery{Limit: DefaultListLimit}

	if limit != "" {
		n, err := strconv.Atoi(limit)
		if err != nil || n < 1 || n > MaxListLimit {
			return q, &ValidationError{Field: "limit", Reason: fmt.Sprintf("must be an integer between 1 and %d", MaxListLimit)}
		}
		q.Limit = n
	}

	if offset != "" {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return q, &ValidationError{Field: "offset", Reason: "must be a non-negative integer"}
		}
		q.Offset = n
	}

	return q, nil
}
