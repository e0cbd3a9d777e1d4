package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

func TestTriggerCallForwardsLead(t *testing.T) {
	var got TriggerPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	lead := &entity.Lead{
		LeadID:      "L1",
		Name:        "Aoife",
		Phone:       "+353871112222",
		Email:       "a@b.com",
		CompanyName: "Acme",
		Consent:     true,
	}

	err := c.TriggerCall(context.Background(), lead)

	assert.NoError(t, err)
	assert.Equal(t, "L1", got.LeadID)
	assert.Equal(t, "+353871112222", got.Phone)
	assert.Equal(t, "leadcall-ai-demo", got.Source)
}

func TestTriggerCallNonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow disabled", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)

	err := c.TriggerCall(context.Background(), &entity.Lead{LeadID: "L1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "workflow disabled")
}

func TestTriggerCallNotConfigured(t *testing.T) {
	c := NewClient("")

	err := c.TriggerCall(context.Background(), &entity.Lead{LeadID: "L1"})

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not configured")
}
