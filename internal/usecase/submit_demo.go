package usecase

import (
	"context"
	"fmt"
	"log"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// SubmitDemoUseCase captures a lead from the demo form, stores it with a
// canonical phone and lower-cased email, and asks the call relay to place
// the outbound demo call.
type SubmitDemoUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	Trigger  CallTrigger
}

func NewSubmitDemoUseCase(leadRepo entity.LeadRepositoryInterface, trigger CallTrigger) *SubmitDemoUseCase {
	return &SubmitDemoUseCase{
		LeadRepo: leadRepo,
		Trigger:  trigger,
	}
}

func (uc *SubmitDemoUseCase) Execute(ctx context.Context, input SubmitDemoInput) (SubmitDemoOutput, []ValidationError, error) {
	// Validation runs before any store mutation.
	if errs := ValidateSubmitDemoInput(input); len(errs) > 0 {
		return SubmitDemoOutput{}, errs, nil
	}

	lead, err := entity.NewLead(input.Name, input.Phone, input.Email, input.CompanyName, input.Consent)
	if err != nil {
		return SubmitDemoOutput{}, []ValidationError{{Field: "lead", Message: err.Error()}}, nil
	}

	err = uc.LeadRepo.Update(ctx, func(leads []entity.Lead) []entity.Lead {
		return append([]entity.Lead{*lead}, leads...)
	})
	if err != nil {
		return SubmitDemoOutput{}, nil, &TechnicalError{Code: "LEAD_STORE_WRITE", Message: fmt.Sprintf("storing lead: %v", err)}
	}

	out := SubmitDemoOutput{LeadID: lead.LeadID}

	// Call orchestration lives in the relay only; this app never dials the
	// voice provider directly.
	if err := uc.Trigger.TriggerCall(ctx, lead); err != nil {
		log.Printf("[intake] relay rejected lead %s: %v", lead.LeadID, err)
		out.RelayError = err.Error()
		out.Message = "We received your request but could not place the call automatically. " +
			"Please confirm phone format includes country code (e.g. +353...) and try again."
		return out, nil, nil
	}

	uc.markTriggered(ctx, lead.LeadID)

	out.Success = true
	out.CallTriggered = true
	out.Message = "Demo request received. Our AI will call you within 60 seconds."
	return out, nil, nil
}

func (uc *SubmitDemoUseCase) markTriggered(ctx context.Context, leadID string) {
	err := uc.LeadRepo.Update(ctx, func(leads []entity.Lead) []entity.Lead {
		for i := range leads {
			if leads[i].LeadID == leadID {
				leads[i].CallTriggered = true
				break
			}
		}
		return leads
	})
	if err != nil {
		log.Printf("[intake] could not flag lead %s as triggered: %v", leadID, err)
	}
}
