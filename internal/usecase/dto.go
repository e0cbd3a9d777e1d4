package usecase

type SubmitDemoInput struct {
	Name        string `json:"name"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	CompanyName string `json:"companyName"`
	Consent     bool   `json:"consent"`
}

type SubmitDemoOutput struct {
	Success       bool   `json:"success"`
	LeadID        string `json:"leadId"`
	Message       string `json:"message"`
	CallTriggered bool   `json:"callTriggered"`
	RelayError    string `json:"relayError,omitempty"`
}

// CallbackFacts is the flat view the extractor produces from a raw callback.
// Every field is independently optional in the source; the zero value means
// the path was absent. Extraction never fails.
type CallbackFacts struct {
	CallID      string
	MessageType string
	EndedReason string
	Duration    float64

	// Identity trail from assistantOverrides variableValues/metadata and
	// the dialed customer number.
	LeadID       string
	Email        string
	CustomerName string
	CompanyName  string
	Phone        string

	AnalysisSummary    string
	ArtifactSummary    string
	ArtifactTranscript string
	StructuredData     map[string]any
}

// Summary resolves the analysis-vs-artifact precedence: the analysis value
// wins when present, else the artifact value, else empty.
func (f CallbackFacts) Summary() string {
	if f.AnalysisSummary != "" {
		return f.AnalysisSummary
	}
	return f.ArtifactSummary
}

type ProcessCallbackOutput struct {
	CallID    string `json:"callId"`
	Received  bool   `json:"received"`
	Processed bool   `json:"processed"`
	LeadID    string `json:"leadId,omitempty"`
	Notified  bool   `json:"notified"`
}
