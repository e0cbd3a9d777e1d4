package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
	"github.com/leadcall-ai/leadcall-api/internal/usecase"
)

// MockCallTrigger
type MockCallTrigger struct {
	mock.Mock
}

func (m *MockCallTrigger) TriggerCall(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func doSubmit(h *DemoHandler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/demo/submit", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)
	return rec
}

// TestDemoSubmitSuccess - 201 with leadId and the confirmation message
func TestDemoSubmitSuccess(t *testing.T) {
	repo := &memLeadRepo{}
	trigger := new(MockCallTrigger)
	trigger.On("TriggerCall", mock.Anything, mock.Anything).Return(nil)

	h := NewDemoHandler(usecase.NewSubmitDemoUseCase(repo, trigger))

	rec := doSubmit(h, `{
		"name": "Aoife Byrne",
		"phone": "0871112222",
		"email": "aoife@acme.ie",
		"companyName": "Acme",
		"consent": true
	}`)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var out usecase.SubmitDemoOutput
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	assert.True(t, out.Success)
	assert.NotEmpty(t, out.LeadID)

	leads, _ := repo.ReadAll(context.Background())
	assert.Len(t, leads, 1)
	assert.Equal(t, "+353871112222", leads[0].Phone)
}

// TestDemoSubmitValidationFailure - 400 with per-field errors, no mutation
func TestDemoSubmitValidationFailure(t *testing.T) {
	repo := &memLeadRepo{}
	h := NewDemoHandler(usecase.NewSubmitDemoUseCase(repo, new(MockCallTrigger)))

	rec := doSubmit(h, `{"name": "A", "phone": "0871112222", "email": "aoife@acme.ie", "companyName": "Acme"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "name")

	leads, _ := repo.ReadAll(context.Background())
	assert.Empty(t, leads)
}

func TestDemoSubmitBadJSON(t *testing.T) {
	h := NewDemoHandler(usecase.NewSubmitDemoUseCase(&memLeadRepo{}, new(MockCallTrigger)))

	rec := doSubmit(h, `{oops`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
