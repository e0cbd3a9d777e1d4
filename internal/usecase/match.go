package usecase

import (
	"strings"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// MatchLead resolves the originating lead for a callback. Strict precedence,
// first hit wins, no scoring:
//
//  1. exact leadId
//  2. canonicalized phone digits — the provider dialed that exact number,
//     so it outranks email
//  3. case-insensitive email
//
// Not found is a valid terminal outcome, not an error: the caller falls back
// to a synthetic lead assembled from the callback's own identity trail.
func MatchLead(leads []entity.Lead, facts CallbackFacts) (*entity.Lead, bool) {
	if facts.LeadID != "" {
		for i := range leads {
			if leads[i].LeadID == facts.LeadID {
				return &leads[i], true
			}
		}
	}

	if facts.Phone != "" {
		for i := range leads {
			if entity.SamePhone(leads[i].Phone, facts.Phone) {
				return &leads[i], true
			}
		}
	}

	if facts.Email != "" {
		for i := range leads {
			if strings.EqualFold(leads[i].Email, facts.Email) {
				return &leads[i], true
			}
		}
	}

	return nil, false
}

// SyntheticLead builds a stand-in from callback-supplied fields alone, used
// when no stored lead matches. It never enters the lead store.
func SyntheticLead(facts CallbackFacts) *entity.Lead {
	return &entity.Lead{
		LeadID:      facts.LeadID,
		Name:        facts.CustomerName,
		Phone:       entity.NormalizePhone(facts.Phone),
		Email:       strings.ToLower(strings.TrimSpace(facts.Email)),
		CompanyName: facts.CompanyName,
	}
}
