package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// MockCallTrigger
type MockCallTrigger struct {
	mock.Mock
}

func (m *MockCallTrigger) TriggerCall(ctx context.Context, lead *entity.Lead) error {
	args := m.Called(ctx, lead)
	return args.Error(0)
}

func validInput() SubmitDemoInput {
	return SubmitDemoInput{
		Name:        "Aoife Byrne",
		Phone:       "0871112222",
		Email:       "Aoife@Acme.ie",
		CompanyName: "Acme Bakery",
		Consent:     true,
	}
}

// TestSubmitDemoSuccess - lead stored canonical, relay accepted, flag flipped
func TestSubmitDemoSuccess(t *testing.T) {
	ctx := context.Background()
	repo := &memLeadRepo{}
	trigger := new(MockCallTrigger)
	trigger.On("TriggerCall", mock.Anything, mock.MatchedBy(func(l *entity.Lead) bool {
		return l.Phone == "+353871112222" && l.Email == "aoife@acme.ie"
	})).Return(nil)

	uc := NewSubmitDemoUseCase(repo, trigger)

	out, validationErrs, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.Empty(t, validationErrs)
	assert.True(t, out.Success)
	assert.True(t, out.CallTriggered)
	assert.NotEmpty(t, out.LeadID)

	leads, _ := repo.ReadAll(ctx)
	assert.Len(t, leads, 1)
	assert.Equal(t, "+353871112222", leads[0].Phone, "phone stored canonical")
	assert.Equal(t, "aoife@acme.ie", leads[0].Email, "email stored lower-cased")
	assert.True(t, leads[0].CallTriggered)
	trigger.AssertExpectations(t)
}

// TestSubmitDemoShortNameRejected - 1-character name rejected before any
// store mutation
func TestSubmitDemoShortNameRejected(t *testing.T) {
	ctx := context.Background()
	repo := &memLeadRepo{}
	trigger := new(MockCallTrigger)

	uc := NewSubmitDemoUseCase(repo, trigger)

	input := validInput()
	input.Name = "A"

	out, validationErrs, err := uc.Execute(ctx, input)

	assert.NoError(t, err)
	assert.False(t, out.Success)
	assert.NotEmpty(t, validationErrs)
	assert.Equal(t, "name", validationErrs[0].Field)

	leads, _ := repo.ReadAll(ctx)
	assert.Empty(t, leads, "no store mutation on validation failure")
	trigger.AssertNotCalled(t, "TriggerCall", mock.Anything, mock.Anything)
}

func TestSubmitDemoInvalidFieldsRejected(t *testing.T) {
	cases := []struct {
		name  string
		mut   func(*SubmitDemoInput)
		field string
	}{
		{"missing phone", func(i *SubmitDemoInput) { i.Phone = "" }, "phone"},
		{"short phone", func(i *SubmitDemoInput) { i.Phone = "12345" }, "phone"},
		{"bad email", func(i *SubmitDemoInput) { i.Email = "not-an-email" }, "email"},
		{"missing company", func(i *SubmitDemoInput) { i.CompanyName = " " }, "companyName"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &memLeadRepo{}
			uc := NewSubmitDemoUseCase(repo, new(MockCallTrigger))

			input := validInput()
			tc.mut(&input)

			_, validationErrs, err := uc.Execute(context.Background(), input)

			assert.NoError(t, err)
			assert.NotEmpty(t, validationErrs)
			assert.Equal(t, tc.field, validationErrs[0].Field)

			leads, _ := repo.ReadAll(context.Background())
			assert.Empty(t, leads)
		})
	}
}

// TestSubmitDemoRelayFailure - lead kept, callTriggered stays false, user
// gets the retry message
func TestSubmitDemoRelayFailure(t *testing.T) {
	ctx := context.Background()
	repo := &memLeadRepo{}
	trigger := new(MockCallTrigger)
	trigger.On("TriggerCall", mock.Anything, mock.Anything).Return(errors.New("relay returned 502"))

	uc := NewSubmitDemoUseCase(repo, trigger)

	out, validationErrs, err := uc.Execute(ctx, validInput())

	assert.NoError(t, err)
	assert.Empty(t, validationErrs)
	assert.False(t, out.Success)
	assert.False(t, out.CallTriggered)
	assert.Contains(t, out.RelayError, "502")
	assert.Contains(t, out.Message, "could not place the call")

	leads, _ := repo.ReadAll(ctx)
	assert.Len(t, leads, 1, "lead kept even when the relay rejects")
	assert.False(t, leads[0].CallTriggered)
}
