package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"release-tracker/internal/database"
	"release-tracker/internal/drift"
	"release-tracker/internal/logger"
	"release-tracker/internal/models"

	"github.com/sirupsen/logrus"
)

// DriftDetector computes the current drift across the catalog.
type DriftDetector interface {
	Detect(ctx context.Context) (*drift.AggregateReport, error)
}

type Handler struct {
	repo     database.Repository
	detector DriftDetector
	logger   *logrus.Entry
}

func NewHandler(repo database.Repository, detector DriftDetector) *Handler {
	return &Handler{
		repo:     repo,
		detector: detector,
		logger:   logger.WithModule("handlers"),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *Handler) CreateRelease(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Normalize()
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.repo.InsertRelease(r.Context(), req)
	if err != nil {
		h.logger.WithError(err).WithField("name", req.Name).Error("Error inserting release")
		writeError(w, http.StatusInternalServerError, "Failed to create release.")
		return
	}

	h.logger.WithFields(logrus.Fields{
		"release_id": id,
		"name":       req.Name,
		"version":    req.Version,
		"account":    req.Account,
		"region":     req.Region,
	}).Info("Release created")

	writeJSON(w, http.StatusCreated, models.CreateReleaseResponse{
		Message:   "Release created successfully.",
		ReleaseID: id,
	})
}

func (h *Handler) ListReleases(w http.ResponseWriter, r *http.Request) {
	q, err := models.ParseListReleasesQuery(r.URL.Query().Get("limit"), r.URL.Query().Get("offset"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	releases, err := h.repo.ListReleases(r.Context(), q.Limit, q.Offset)
	if err != nil {
		h.logger.WithError(err).Error("Error fetching releases")
		writeError(w, http.StatusInternalServerError, "Failed to fetch releases.")
		return
	}

	writeJSON(w, http.StatusOK, releases)
}

// Drift answers with the drifting applications (200), an explicit no-drift
// signal (404), the applications that could not be evaluated (503), or the
// pending applications of an interrupted run (504).
func (h *Handler) Drift(w http.ResponseWriter, r *http.Request) {
	report, err := h.detector.Detect(r.Context())

	var timeoutErr *drift.AggregationTimeoutError
	switch {
	case errors.As(err, &timeoutErr):
		resp := newDriftResponse(timeoutErr.Partial)
		resp.Error = "Drift detection timed out"
		resp.Completed = timeoutErr.Completed
		resp.Pending = timeoutErr.Pending
		writeJSON(w, http.StatusGatewayTimeout, resp)
	case err != nil:
		h.logger.WithError(err).Error("Drift detection failed")
		writeError(w, http.StatusInternalServerError, "Failed to detect drift.")
	case report.HasDrift():
		writeJSON(w, http.StatusOK, newDriftResponse(report))
	case report.HasFailures():
		resp := newDriftResponse(report)
		resp.Error = "Drift could not be evaluated for every application"
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		writeError(w, http.StatusNotFound, "No drift detected")
	}
}

func newDriftResponse(report *drift.AggregateReport) models.DriftReportResponse {
	var resp models.DriftReportResponse
	if report == nil {
		return resp
	}
	for _, r := range report.Reports {
		resp.Reports = append(resp.Reports, models.ApplicationDrift{
			Application: r.Application,
			Latest:      r.Latest,
			Drift:       r.Drift(),
		})
	}
	for _, f := range report.Failures {
		resp.Failures = append(resp.Failures, models.ApplicationFailure{
			Application: f.Application,
			Error:       f.Err.Error(),
		})
	}
	return resp
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}
