package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

const deliveryTimeout = 10 * time.Second

// ProcessCallbackUseCase runs the callback pipeline: extract → match →
// merge → render → deliver. One-shot per callback; redelivery by the
// provider is the retry mechanism, made safe by the idempotent merge.
type ProcessCallbackUseCase struct {
	LeadRepo entity.LeadRepositoryInterface
	CallRepo entity.CallRepositoryInterface
	Sink     NotificationSink
}

func NewProcessCallbackUseCase(
	leadRepo entity.LeadRepositoryInterface,
	callRepo entity.CallRepositoryInterface,
	sink NotificationSink,
) *ProcessCallbackUseCase {
	return &ProcessCallbackUseCase{
		LeadRepo: leadRepo,
		CallRepo: callRepo,
		Sink:     sink,
	}
}

func (uc *ProcessCallbackUseCase) Execute(ctx context.Context, payload map[string]any) (ProcessCallbackOutput, error) {
	facts := ExtractCallbackFacts(payload)

	out := ProcessCallbackOutput{CallID: facts.CallID, Received: true}

	// Only the final report carries the analysis; everything else is a
	// progress ping we acknowledge and drop.
	if facts.MessageType != FinalReportType {
		return out, nil
	}
	out.Processed = true

	leads, err := uc.LeadRepo.ReadAll(ctx)
	if err != nil {
		return out, &TechnicalError{Code: "LEAD_STORE_READ", Message: fmt.Sprintf("reading leads: %v", err)}
	}

	lead, matched := MatchLead(leads, facts)
	if !matched {
		lead = SyntheticLead(facts)
	}
	out.LeadID = lead.LeadID

	record, err := uc.mergeRecord(ctx, facts, lead, matched)
	if err != nil {
		return out, &TechnicalError{Code: "CALL_STORE_WRITE", Message: fmt.Sprintf("merging call record: %v", err)}
	}

	if matched {
		uc.markLeadCalled(ctx, lead.LeadID, facts.CallID)
	}

	notification := RenderNotification(record, lead)
	if notification.Recipient == "" {
		log.Printf("[callback] no recipient for call %s, notification skipped", facts.CallID)
		return out, nil
	}

	// The merge is already durable; a sink failure is logged and swallowed,
	// never surfaced to the provider.
	deliverCtx, cancel := context.WithTimeout(ctx, deliveryTimeout)
	defer cancel()
	if err := uc.Sink.Deliver(deliverCtx, notification); err != nil {
		log.Printf("[callback] delivery failed for call %s: %v", facts.CallID, err)
		return out, nil
	}
	out.Notified = true

	return out, nil
}

// mergeRecord upserts the call record keyed by callId. Incoming non-empty
// fields overwrite, stored fields survive where the incoming callback left
// them absent, so partial callbacks converge to the most complete state.
func (uc *ProcessCallbackUseCase) mergeRecord(ctx context.Context, facts CallbackFacts, lead *entity.Lead, matched bool) (*entity.CallRecord, error) {
	incoming := entity.CallRecord{
		CallID:         facts.CallID,
		Status:         facts.MessageType,
		EndedReason:    facts.EndedReason,
		Duration:       facts.Duration,
		Summary:        facts.Summary(),
		Transcript:     facts.ArtifactTranscript,
		StructuredData: facts.StructuredData,
		Email:          facts.Email,
		CustomerName:   facts.CustomerName,
		CompanyName:    facts.CompanyName,
		Phone:          facts.Phone,
	}
	if matched {
		incoming.LeadID = lead.LeadID
	} else {
		incoming.LeadID = facts.LeadID
	}

	var merged entity.CallRecord
	err := uc.CallRepo.Update(ctx, func(calls []entity.CallRecord) []entity.CallRecord {
		for i := range calls {
			if calls[i].CallID == facts.CallID {
				calls[i].Merge(incoming)
				merged = calls[i]
				return calls
			}
		}
		incoming.Timestamp = time.Now().UTC().Format(time.RFC3339)
		merged = incoming
		// Newest record first, same ordering the status page expects.
		return append([]entity.CallRecord{incoming}, calls...)
	})
	if err != nil {
		return nil, err
	}
	return &merged, nil
}

// markLeadCalled flips callTriggered and attaches the call id on the matched
// lead. Tolerant of the lead having vanished between match and update.
func (uc *ProcessCallbackUseCase) markLeadCalled(ctx context.Context, leadID, callID string) {
	err := uc.LeadRepo.Update(ctx, func(leads []entity.Lead) []entity.Lead {
		for i := range leads {
			if leads[i].LeadID == leadID {
				leads[i].CallTriggered = true
				leads[i].CallID = callID
				break
			}
		}
		return leads
	})
	if err != nil {
		log.Printf("[callback] could not update lead %s: %v", leadID, err)
	}
}
