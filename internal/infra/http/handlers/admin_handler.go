package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/horizonenergysouth/horizon-crm/internal/entity"
	"github.com/horizonenergysouth/horizon-crm/internal/infra/http/middleware"
	"github.com/horizonenergysouth/horizon-crm/internal/usecase"
)

// AdminHandler serves the triage dashboard: the derived lead list, stat
// cards, and every mutation the detail panel performs.
type AdminHandler struct {
	Repo     entity.LeadRepositoryInterface
	UpdateUC *usecase.UpdateLeadUseCase
}

func NewAdminHandler(repo entity.LeadRepositoryInterface, updateUC *usecase.UpdateLeadUseCase) *AdminHandler {
	return &AdminHandler{
		Repo:     repo,
		UpdateUC: updateUC,
	}
}

// HandleListLeads applies the dashboard's filter/search/sort selection to the
// current lead list. Defaults mirror the dashboard's initial view: all
// statuses, newest first.
func (h *AdminHandler) HandleListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Repo.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load leads")
		return
	}

	q := r.URL.Query()
	output := usecase.Triage(leads, usecase.TriageQuery{
		Status:    q.Get("status"),
		Search:    q.Get("q"),
		SortField: q.Get("sort"),
		Direction: usecase.SortDirection(q.Get("dir")),
	})

	writeJSON(w, http.StatusOK, output)
}

func (h *AdminHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Repo.FindAll(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load leads")
		return
	}
	writeJSON(w, http.StatusOK, usecase.Stats(leads))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

func (h *AdminHandler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req setStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if err := h.UpdateUC.SetStatus(r.Context(), leadID, entity.LeadStatus(req.Status)); err != nil {
		writeUpdateError(w, err)
		return
	}

	middleware.RecordStatusTransition(req.Status)
	w.WriteHeader(http.StatusNoContent)
}

type addTextRequest struct {
	Text string `json:"text"`
}

func (h *AdminHandler) HandleAddNote(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req addTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	note, err := h.UpdateUC.AddNote(r.Context(), leadID, req.Text)
	if err != nil {
		writeUpdateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, note)
}

func (h *AdminHandler) HandleDeleteNote(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")
	noteID := chi.URLParam(r, "noteId")

	if err := h.UpdateUC.DeleteNote(r.Context(), leadID, noteID); err != nil {
		writeUpdateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) HandleAddActionItem(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")

	var req addTextRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	item, err := h.UpdateUC.AddActionItem(r.Context(), leadID, req.Text)
	if err != nil {
		writeUpdateError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type toggleItemRequest struct {
	Completed bool `json:"completed"`
}

func (h *AdminHandler) HandleToggleActionItem(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")

	var req toggleItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if err := h.UpdateUC.SetActionItemCompleted(r.Context(), leadID, itemID, req.Completed); err != nil {
		writeUpdateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) HandleDeleteActionItem(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "id")
	itemID := chi.URLParam(r, "itemId")

	if err := h.UpdateUC.DeleteActionItem(r.Context(), leadID, itemID); err != nil {
		writeUpdateError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeUpdateError(w http.ResponseWriter, err error) {
	if de, ok := err.(*usecase.DomainError); ok {
		status := http.StatusBadRequest
		if de.Code == "LEAD_NOT_FOUND" {
			status = http.StatusNotFound
		}
		writeError(w, status, de.Code, de.Message)
		return
	}
	writeError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to update lead")
}
