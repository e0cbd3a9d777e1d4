package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// StatusHandler serves the demo status page and the admin call listing.
// Pure reads, no pipeline logic.
type StatusHandler struct {
	LeadRepo entity.LeadRepositoryInterface
	CallRepo entity.CallRepositoryInterface
}

func NewStatusHandler(leadRepo entity.LeadRepositoryInterface, callRepo entity.CallRepositoryInterface) *StatusHandler {
	return &StatusHandler{
		LeadRepo: leadRepo,
		CallRepo: callRepo,
	}
}

type leadStatusResponse struct {
	Lead *entity.Lead       `json:"lead"`
	Call *entity.CallRecord `json:"call,omitempty"`
}

func (h *StatusHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadId")

	leads, err := h.LeadRepo.ReadAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read leads"})
		return
	}

	var lead *entity.Lead
	for i := range leads {
		if leads[i].LeadID == leadID {
			lead = &leads[i]
			break
		}
	}
	if lead == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "Lead not found"})
		return
	}

	response := leadStatusResponse{Lead: lead}

	if lead.CallID != "" {
		calls, err := h.CallRepo.ReadAll(r.Context())
		if err == nil {
			for i := range calls {
				if calls[i].CallID == lead.CallID {
					response.Call = &calls[i]
					break
				}
			}
		}
	}

	writeJSON(w, http.StatusOK, response)
}

func (h *StatusHandler) HandleListCalls(w http.ResponseWriter, r *http.Request) {
	// Records are stored newest first.
	calls, err := h.CallRepo.ReadAll(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to read calls"})
		return
	}
	writeJSON(w, http.StatusOK, calls)
}
