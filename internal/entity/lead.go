package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	// IMPORTANTE: do not import usecase or infra here!
)

// Entidade: Lead — one demo request captured from the landing form.
type Lead struct {
	LeadID        string `json:"leadId"`
	Timestamp     string `json:"timestamp"`
	Name          string `json:"name"`
	Phone         string `json:"phone"` // canonical E.164 form
	Email         string `json:"email"` // always lower-cased
	CompanyName   string `json:"companyName"`
	Consent       bool   `json:"consent"`
	CallTriggered bool   `json:"callTriggered"`
	CallID        string `json:"callId,omitempty"`
}

// Factory
func NewLead(name, phone, email, companyName string, consent bool) (*Lead, error) {
	lead := &Lead{
		LeadID:      uuid.New().String(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
		Name:        strings.TrimSpace(name),
		Phone:       NormalizePhone(phone),
		Email:       strings.ToLower(strings.TrimSpace(email)),
		CompanyName: strings.TrimSpace(companyName),
		Consent:     consent,
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Phone == "" {
		return errors.New("phone is required")
	}
	if l.Email == "" {
		return errors.New("email is required")
	}
	return nil
}

// LeadRepositoryInterface is the whole-collection contract of the lead store.
// There is no partial-update primitive: merge logic runs in-process, and the
// implementation must serialize Update so concurrent read-modify-write
// sequences cannot lose writes.
type LeadRepositoryInterface interface {
	ReadAll(ctx context.Context) ([]Lead, error)
	WriteAll(ctx context.Context, leads []Lead) error
	Update(ctx context.Context, fn func(leads []Lead) []Lead) error
}
