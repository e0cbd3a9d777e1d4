package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/leadcall-ai/leadcall-api/internal/infra/http/middleware"
	"github.com/leadcall-ai/leadcall-api/internal/usecase"
)

type WebhookHandler struct {
	ProcessCallback *usecase.ProcessCallbackUseCase
	Token           string // empty disables the check
}

func NewWebhookHandler(uc *usecase.ProcessCallbackUseCase, token string) *WebhookHandler {
	return &WebhookHandler{
		ProcessCallback: uc,
		Token:           token,
	}
}

func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if h.Token != "" {
		auth := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != h.Token {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Unauthorized"})
			return
		}
	}

	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Invalid JSON"})
		return
	}

	out, err := h.ProcessCallback.Execute(r.Context(), payload)
	if err != nil {
		// Store failure: let the provider redeliver, the merge is idempotent.
		code := "INTERNAL"
		if usecase.IsTechnicalError(err) {
			code = err.(*usecase.TechnicalError).Code
		}
		log.Printf("[webhook] processing failed for call %s (%s): %v", out.CallID, code, err)
		middleware.RecordCallback("end-of-call-report", "error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "processing failed", "code": code})
		return
	}

	switch {
	case !out.Processed:
		middleware.RecordCallback("other", "ignored")
	case out.Notified:
		middleware.RecordCallback("end-of-call-report", "notified")
		middleware.RecordNotification("sent")
	default:
		middleware.RecordCallback("end-of-call-report", "processed")
		middleware.RecordNotification("skipped")
	}

	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
