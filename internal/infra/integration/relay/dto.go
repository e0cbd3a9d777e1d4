package relay

// TriggerPayload is what the automation relay expects for one captured lead.
type TriggerPayload struct {
	LeadID      string `json:"leadId"`
	Timestamp   string `json:"timestamp"`
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Consent     bool   `json:"consent"`
	Source      string `json:"source"`
}
