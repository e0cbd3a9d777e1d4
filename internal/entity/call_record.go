package entity

import "context"

// Entidade: CallRecord — durable outcome of one call, keyed by the external
// call id assigned by the voice provider. Repeated callbacks for the same
// call merge into this record instead of duplicating it.
type CallRecord struct {
	CallID         string         `json:"callId"`
	LeadID         string         `json:"leadId,omitempty"`
	Timestamp      string         `json:"timestamp"` // processing time, not call time
	Status         string         `json:"status"`
	EndedReason    string         `json:"endedReason,omitempty"`
	Duration       float64        `json:"duration,omitempty"`
	Summary        string         `json:"summary,omitempty"`
	Transcript     string         `json:"transcript,omitempty"`
	StructuredData map[string]any `json:"structuredData,omitempty"`

	// Identity trail captured at call-setup time, independent of the lead
	// store. Lets the record stand alone when no lead can be matched.
	Email        string `json:"email,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
	CompanyName  string `json:"companyName,omitempty"`
	Phone        string `json:"phone,omitempty"`
}

// Merge applies incoming onto c: every non-empty incoming field overwrites,
// absent fields keep their stored value. Timestamp is set on first insert
// and kept on merge, so redelivery of an identical callback is a no-op.
func (c *CallRecord) Merge(incoming CallRecord) {
	if incoming.LeadID != "" {
		c.LeadID = incoming.LeadID
	}
	if incoming.Status != "" {
		c.Status = incoming.Status
	}
	if incoming.EndedReason != "" {
		c.EndedReason = incoming.EndedReason
	}
	if incoming.Duration != 0 {
		c.Duration = incoming.Duration
	}
	if incoming.Summary != "" {
		c.Summary = incoming.Summary
	}
	if incoming.Transcript != "" {
		c.Transcript = incoming.Transcript
	}
	if len(incoming.StructuredData) > 0 {
		c.StructuredData = incoming.StructuredData
	}
	if incoming.Email != "" {
		c.Email = incoming.Email
	}
	if incoming.CustomerName != "" {
		c.CustomerName = incoming.CustomerName
	}
	if incoming.CompanyName != "" {
		c.CompanyName = incoming.CompanyName
	}
	if incoming.Phone != "" {
		c.Phone = incoming.Phone
	}
}

// CallRepositoryInterface mirrors the lead store contract: whole-collection
// reads and writes, with Update serialized by the implementation.
type CallRepositoryInterface interface {
	ReadAll(ctx context.Context) ([]CallRecord, error)
	WriteAll(ctx context.Context, calls []CallRecord) error
	Update(ctx context.Context, fn func(calls []CallRecord) []CallRecord) error
}
