package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/horizonenergysouth/horizon-crm/internal/infra/http/middleware"
	"github.com/horizonenergysouth/horizon-crm/internal/usecase"
)

// LeadHandler serves the public intake form: one creation endpoint shared by
// the single-page and stepped form variants, plus per-step validation so the
// stepped variant can gate forward navigation.
type LeadHandler struct {
	CreateUC *usecase.CreateLeadUseCase
}

func NewLeadHandler(uc *usecase.CreateLeadUseCase) *LeadHandler {
	return &LeadHandler{CreateUC: uc}
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateLeadInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	output, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		if de, ok := err.(*usecase.DomainError); ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{
				"error":  de.Code,
				"fields": de.Fields,
			})
			return
		}
		writeError(w, http.StatusInternalServerError, "SUBMISSION_FAILED",
			"Something went wrong submitting your information. Please try again or call us at "+usecase.FallbackPhone+".")
		return
	}

	middleware.RecordLeadCreated()
	writeJSON(w, http.StatusCreated, output)
}

type validateStepRequest struct {
	Step int                     `json:"step"`
	Lead usecase.CreateLeadInput `json:"lead"`
}

type validateStepResponse struct {
	Valid  bool                      `json:"valid"`
	Errors []usecase.ValidationError `json:"errors"`
}

func (h *LeadHandler) HandleValidateStep(w http.ResponseWriter, r *http.Request) {
	var req validateStepRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if req.Step < usecase.StepHomeInfo || req.Step > usecase.StepContactInfo {
		writeError(w, http.StatusBadRequest, "INVALID_STEP", "step must be between 1 and 3")
		return
	}

	errs := usecase.ValidateLeadStep(req.Lead, req.Step)
	if errs == nil {
		errs = []usecase.ValidationError{}
	}
	writeJSON(w, http.StatusOK, validateStepResponse{
		Valid:  len(errs) == 0,
		Errors: errs,
	})
}
