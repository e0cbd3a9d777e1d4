package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// In-memory stores with the same serialized-update discipline as the real
// implementations.

type memLeadRepo struct {
	mu    sync.Mutex
	leads []entity.Lead
}

func (r *memLeadRepo) ReadAll(ctx context.Context) ([]entity.Lead, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.Lead{}, r.leads...), nil
}

func (r *memLeadRepo) WriteAll(ctx context.Context, leads []entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = leads
	return nil
}

func (r *memLeadRepo) Update(ctx context.Context, fn func([]entity.Lead) []entity.Lead) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.leads = fn(append([]entity.Lead{}, r.leads...))
	return nil
}

type memCallRepo struct {
	mu    sync.Mutex
	calls []entity.CallRecord
}

func (r *memCallRepo) ReadAll(ctx context.Context) ([]entity.CallRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entity.CallRecord{}, r.calls...), nil
}

func (r *memCallRepo) WriteAll(ctx context.Context, calls []entity.CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = calls
	return nil
}

func (r *memCallRepo) Update(ctx context.Context, fn func([]entity.CallRecord) []entity.CallRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = fn(append([]entity.CallRecord{}, r.calls...))
	return nil
}

// MockNotificationSink
type MockNotificationSink struct {
	mock.Mock
}

func (m *MockNotificationSink) Deliver(ctx context.Context, n Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func finalReportPayload(callID, phone, email string) map[string]any {
	call := map[string]any{"id": callID}
	if phone != "" {
		call["customer"] = map[string]any{"number": phone}
	}
	overrides := map[string]any{}
	if email != "" {
		overrides["metadata"] = map[string]any{"email": email}
	}
	if len(overrides) > 0 {
		call["assistantOverrides"] = overrides
	}
	return map[string]any{
		"message": map[string]any{
			"type": FinalReportType,
			"call": call,
			"analysis": map[string]any{
				"summary": "went well",
			},
		},
	}
}

// TestProcessCallbackMatchedLead - full pipeline: merge, lead flags,
// notification to the lead's email
func TestProcessCallbackMatchedLead(t *testing.T) {
	ctx := context.Background()
	leadRepo := &memLeadRepo{leads: []entity.Lead{
		{LeadID: "L1", Name: "Aoife", Phone: "0831234567", Email: "a@b.com"},
	}}
	callRepo := &memCallRepo{}
	sink := new(MockNotificationSink)
	sink.On("Deliver", mock.Anything, mock.MatchedBy(func(n Notification) bool {
		return n.Recipient == "a@b.com" && n.CallID == "call-1" && n.LeadID == "L1"
	})).Return(nil)

	uc := NewProcessCallbackUseCase(leadRepo, callRepo, sink)

	out, err := uc.Execute(ctx, finalReportPayload("call-1", "+353831234567", ""))

	assert.NoError(t, err)
	assert.True(t, out.Processed)
	assert.True(t, out.Notified)
	assert.Equal(t, "L1", out.LeadID)

	calls, _ := callRepo.ReadAll(ctx)
	assert.Len(t, calls, 1)
	assert.Equal(t, "L1", calls[0].LeadID)
	assert.Equal(t, "went well", calls[0].Summary)

	leads, _ := leadRepo.ReadAll(ctx)
	assert.True(t, leads[0].CallTriggered)
	assert.Equal(t, "call-1", leads[0].CallID)

	sink.AssertExpectations(t)
}

// TestProcessCallbackNonFinalType - acknowledged without store mutation or
// notification
func TestProcessCallbackNonFinalType(t *testing.T) {
	ctx := context.Background()
	leadRepo := &memLeadRepo{}
	callRepo := &memCallRepo{}
	sink := new(MockNotificationSink)

	uc := NewProcessCallbackUseCase(leadRepo, callRepo, sink)

	out, err := uc.Execute(ctx, map[string]any{
		"message": map[string]any{
			"type": "status-update",
			"call": map[string]any{"id": "call-2"},
		},
	})

	assert.NoError(t, err)
	assert.True(t, out.Received)
	assert.False(t, out.Processed)
	assert.Equal(t, "call-2", out.CallID)

	calls, _ := callRepo.ReadAll(ctx)
	assert.Empty(t, calls)
	sink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

// TestProcessCallbackIdempotent - identical redelivery leaves the call
// collection unchanged
func TestProcessCallbackIdempotent(t *testing.T) {
	ctx := context.Background()
	leadRepo := &memLeadRepo{}
	callRepo := &memCallRepo{}
	sink := new(MockNotificationSink)
	sink.On("Deliver", mock.Anything, mock.Anything).Return(nil)

	uc := NewProcessCallbackUseCase(leadRepo, callRepo, sink)

	payload := finalReportPayload("call-3", "+353871112222", "x@y.ie")

	_, err := uc.Execute(ctx, payload)
	assert.NoError(t, err)
	first, _ := callRepo.ReadAll(ctx)

	_, err = uc.Execute(ctx, payload)
	assert.NoError(t, err)
	second, _ := callRepo.ReadAll(ctx)

	assert.Equal(t, first, second)
	assert.Len(t, second, 1)
}

// TestProcessCallbackPartialMerge - two callbacks for the same callId
// converge to the field-wise union
func TestProcessCallbackPartialMerge(t *testing.T) {
	ctx := context.Background()
	leadRepo := &memLeadRepo{}
	callRepo := &memCallRepo{}
	sink := new(MockNotificationSink)
	sink.On("Deliver", mock.Anything, mock.Anything).Return(nil)

	uc := NewProcessCallbackUseCase(leadRepo, callRepo, sink)

	first := map[string]any{
		"message": map[string]any{
			"type":     FinalReportType,
			"call":     map[string]any{"id": "call-4"},
			"analysis": map[string]any{"summary": "first pass summary"},
		},
	}
	second := map[string]any{
		"message": map[string]any{
			"type": FinalReportType,
			"call": map[string]any{"id": "call-4", "endedReason": "voicemail"},
			"artifact": map[string]any{
				"transcript": "AI: Hello",
			},
		},
	}

	_, err := uc.Execute(ctx, first)
	assert.NoError(t, err)
	_, err = uc.Execute(ctx, second)
	assert.NoError(t, err)

	calls, _ := callRepo.ReadAll(ctx)
	assert.Len(t, calls, 1)
	assert.Equal(t, "first pass summary", calls[0].Summary, "first-callback field preserved")
	assert.Equal(t, "voicemail", calls[0].EndedReason)
	assert.Equal(t, "AI: Hello", calls[0].Transcript)
}

// TestProcessCallbackSinkFailureSwallowed - the merge is durable, delivery
// failure never bubbles up to the provider
func TestProcessCallbackSinkFailureSwallowed(t *testing.T) {
	ctx := context.Background()
	leadRepo := &memLeadRepo{}
	callRepo := &memCallRepo{}
	sink := new(MockNotificationSink)
	sink.On("Deliver", mock.Anything, mock.Anything).Return(errors.New("smtp down"))

	uc := NewProcessCallbackUseCase(leadRepo, callRepo, sink)

	out, err := uc.Execute(ctx, finalReportPayload("call-5", "", "someone@b.com"))

	assert.NoError(t, err)
	assert.True(t, out.Processed)
	assert.False(t, out.Notified)

	calls, _ := callRepo.ReadAll(ctx)
	assert.Len(t, calls, 1, "record persisted despite sink failure")
}

// TestProcessCallbackNoRecipient - notify skipped, record still merged
func TestProcessCallbackNoRecipient(t *testing.T) {
	ctx := context.Background()
	leadRepo := &memLeadRepo{}
	callRepo := &memCallRepo{}
	sink := new(MockNotificationSink)

	uc := NewProcessCallbackUseCase(leadRepo, callRepo, sink)

	out, err := uc.Execute(ctx, finalReportPayload("call-6", "+353861112222", ""))

	assert.NoError(t, err)
	assert.True(t, out.Processed)
	assert.False(t, out.Notified)

	calls, _ := callRepo.ReadAll(ctx)
	assert.Len(t, calls, 1)
	sink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

// TestProcessCallbackUnmatchedSynthetic - no stored lead, record still
// constructed from the callback's own identity trail
func TestProcessCallbackUnmatchedSynthetic(t *testing.T) {
	ctx := context.Background()
	leadRepo := &memLeadRepo{leads: []entity.Lead{
		{LeadID: "L1", Phone: "0831234567", Email: "a@b.com"},
	}}
	callRepo := &memCallRepo{}
	sink := new(MockNotificationSink)
	sink.On("Deliver", mock.Anything, mock.MatchedBy(func(n Notification) bool {
		return n.Recipient == "stranger@x.com"
	})).Return(nil)

	uc := NewProcessCallbackUseCase(leadRepo, callRepo, sink)

	out, err := uc.Execute(ctx, finalReportPayload("call-7", "+15550001111", "stranger@x.com"))

	assert.NoError(t, err)
	assert.True(t, out.Notified)

	// No stored lead was touched
	leads, _ := leadRepo.ReadAll(ctx)
	assert.False(t, leads[0].CallTriggered)
	assert.Empty(t, leads[0].CallID)

	calls, _ := callRepo.ReadAll(ctx)
	assert.Equal(t, "stranger@x.com", calls[0].Email)
	assert.Empty(t, calls[0].LeadID)
}
