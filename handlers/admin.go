// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/evote/catalog"
	"github.com/danielhkuo/evote/media"
	"github.com/danielhkuo/evote/middleware"
	"github.com/danielhkuo/evote/models"
	"github.com/danielhkuo/evote/voting"
)

// MaxPhotoBytes caps a candidate photo upload.
const MaxPhotoBytes = 8 << 20

// AdminHandler edits elections, positions, and candidates. Every route is
// behind RequireCapability(auth.IsAdminAndApproved).
type AdminHandler struct {
	catalog *catalog.Store
	media   *media.Store
	svc     *voting.Service
}

func NewAdminHandler(c *catalog.Store, m *media.Store, svc *voting.Service) *AdminHandler {
	return &AdminHandler{catalog: c, media: m, svc: svc}
}

// CreateElection handles POST /admin/elections
func (h *AdminHandler) CreateElection(w http.ResponseWriter, r *http.Request) {
	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	electionID, err := h.catalog.CreateElection(r.Context(), req)
	if err != nil {
		writeError(w, err, "Election")
		return
	}

	slog.Info("election created", "election_id", electionID)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: electionID})
}

// UpdateElection handles PUT /admin/elections/{id}
func (h *AdminHandler) UpdateElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	var req models.ElectionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.catalog.UpdateElection(r.Context(), electionID, req); err != nil {
		writeError(w, err, "Election")
		return
	}

	slog.Info("election updated", "election_id", electionID)
	w.WriteHeader(http.StatusNoContent)
}

// DeleteElection handles DELETE /admin/elections/{id}. Positions,
// candidates, and ballots go with it.
func (h *AdminHandler) DeleteElection(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	// Photos live outside the database; collect them before the cascade
	listing, err := h.catalog.ListCandidates(r.Context(), electionID)
	if err != nil {
		writeError(w, err, "Election")
		return
	}

	if err := h.catalog.DeleteElection(r.Context(), electionID); err != nil {
		writeError(w, err, "Election")
		return
	}

	for _, l := range listing {
		h.removePhoto(l.Candidate)
	}

	slog.Info("election deleted", "election_id", electionID)
	w.WriteHeader(http.StatusNoContent)
}

// CreatePosition handles POST /admin/elections/{id}/positions
func (h *AdminHandler) CreatePosition(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	var req models.PositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	positionID, err := h.catalog.CreatePosition(r.Context(), electionID, req.Title)
	if err != nil {
		writeError(w, err, "Election")
		return
	}

	slog.Info("position created", "election_id", electionID, "position_id", positionID)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: positionID})
}

// UpdatePosition handles PUT /admin/positions/{id}
func (h *AdminHandler) UpdatePosition(w http.ResponseWriter, r *http.Request) {
	var req models.PositionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.catalog.UpdatePosition(r.Context(), r.PathValue("id"), req.Title); err != nil {
		writeError(w, err, "Position")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeletePosition handles DELETE /admin/positions/{id}
func (h *AdminHandler) DeletePosition(w http.ResponseWriter, r *http.Request) {
	positionID := r.PathValue("id")

	position, err := h.catalog.GetPosition(r.Context(), positionID)
	if err != nil {
		writeError(w, err, "Position")
		return
	}
	ballot, err := h.catalog.Ballot(r.Context(), position.ElectionID)
	if err != nil {
		writeError(w, err, "Position")
		return
	}

	if err := h.catalog.DeletePosition(r.Context(), positionID); err != nil {
		writeError(w, err, "Position")
		return
	}

	for _, p := range ballot {
		if p.Position.ID != positionID {
			continue
		}
		for _, c := range p.Candidates {
			h.removePhoto(c)
		}
	}

	slog.Info("position deleted", "position_id", positionID)
	w.WriteHeader(http.StatusNoContent)
}

// CreateCandidate handles POST /admin/positions/{id}/candidates
func (h *AdminHandler) CreateCandidate(w http.ResponseWriter, r *http.Request) {
	positionID := r.PathValue("id")

	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	candidateID, err := h.catalog.CreateCandidate(r.Context(), positionID, req)
	if err != nil {
		writeError(w, err, "Position")
		return
	}

	slog.Info("candidate created", "position_id", positionID, "candidate_id", candidateID)
	middleware.JSONResponse(w, http.StatusCreated, models.CreatedResponse{ID: candidateID})
}

// UpdateCandidate handles PUT /admin/candidates/{id}
func (h *AdminHandler) UpdateCandidate(w http.ResponseWriter, r *http.Request) {
	var req models.CandidateRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if err := h.catalog.UpdateCandidate(r.Context(), r.PathValue("id"), req); err != nil {
		writeError(w, err, "Candidate")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DeleteCandidate handles DELETE /admin/candidates/{id}. Ballots already
// cast for the candidate stay in the table and only show up in the audit.
func (h *AdminHandler) DeleteCandidate(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")

	candidate, err := h.catalog.GetCandidate(r.Context(), candidateID)
	if err != nil {
		writeError(w, err, "Candidate")
		return
	}

	if err := h.catalog.DeleteCandidate(r.Context(), candidateID); err != nil {
		writeError(w, err, "Candidate")
		return
	}
	h.removePhoto(candidate)

	slog.Info("candidate deleted", "candidate_id", candidateID)
	w.WriteHeader(http.StatusNoContent)
}

// UploadPhoto handles POST /admin/candidates/{id}/photo as multipart form
// data with the image in the "photo" field.
func (h *AdminHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	candidateID := r.PathValue("id")

	if _, err := h.catalog.GetCandidate(r.Context(), candidateID); err != nil {
		writeError(w, err, "Candidate")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, MaxPhotoBytes)
	if err := r.ParseMultipartForm(MaxPhotoBytes); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid multipart form or photo too large")
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, _, err := r.FormFile("photo")
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "photo is required")
		return
	}
	defer file.Close()

	ref, err := h.media.SaveCandidatePhoto(candidateID, file)
	if err != nil {
		writeError(w, err, "Candidate")
		return
	}

	if err := h.catalog.SetCandidatePhoto(r.Context(), candidateID, ref); err != nil {
		writeError(w, err, "Candidate")
		return
	}

	slog.Info("candidate photo stored", "candidate_id", candidateID)
	middleware.JSONResponse(w, http.StatusOK, models.PhotoResponse{PhotoRef: ref})
}

// ListCandidates handles GET /admin/elections/{id}/candidates
func (h *AdminHandler) ListCandidates(w http.ResponseWriter, r *http.Request) {
	electionID := r.PathValue("id")

	if _, err := h.catalog.GetElection(r.Context(), electionID); err != nil {
		writeError(w, err, "Election")
		return
	}

	listing, err := h.catalog.ListCandidates(r.Context(), electionID)
	if err != nil {
		writeError(w, err, "Election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, listing)
}

// Audit handles GET /admin/elections/{id}/audit
func (h *AdminHandler) Audit(w http.ResponseWriter, r *http.Request) {
	audit, err := h.svc.Audit(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "Election")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, audit)
}

func (h *AdminHandler) removePhoto(c models.Candidate) {
	if c.PhotoRef == nil {
		return
	}
	if err := h.media.Remove(*c.PhotoRef); err != nil {
		slog.Warn("failed to remove candidate photo", "candidate_id", c.ID, "error", err)
	}
}
