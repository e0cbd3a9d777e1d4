package usecase

import "strings"

// FinalReportType is the only callback kind that triggers full processing.
// Everything else is acknowledged and dropped.
const FinalReportType = "end-of-call-report"

// ExtractCallbackFacts pulls the fixed fact set out of an arbitrarily nested,
// partially populated provider callback. The payload may nest everything
// under "message" or sit at the top level; every path defaults to absent
// rather than faulting.
func ExtractCallbackFacts(payload map[string]any) CallbackFacts {
	message := dig(payload, "message")
	if message == nil {
		message = payload
	}

	call := dig(message, "call")
	vars := dig(call, "assistantOverrides", "variableValues")
	meta := dig(call, "assistantOverrides", "metadata")
	analysis := dig(message, "analysis")
	artifact := dig(message, "artifact")

	facts := CallbackFacts{
		CallID:      firstString(str(call, "id"), str(payload, "callId")),
		MessageType: firstString(str(message, "type"), str(payload, "status")),
		EndedReason: str(call, "endedReason"),
		Duration:    num(call, "duration"),

		LeadID:       firstString(str(vars, "leadId"), str(meta, "leadId")),
		Email:        firstString(str(vars, "email"), str(meta, "email")),
		CustomerName: firstString(str(vars, "name"), str(meta, "customerName")),
		CompanyName:  firstString(str(vars, "companyName"), str(meta, "companyName")),
		Phone:        firstString(str(vars, "phone"), str(meta, "phone"), str(dig(call, "customer"), "number")),

		AnalysisSummary:    str(analysis, "summary"),
		ArtifactSummary:    str(artifact, "summary"),
		ArtifactTranscript: str(artifact, "transcript"),
	}

	// Analysis-provided structured data wins over the artifact copy.
	if sd := dig(analysis, "structuredData"); len(sd) > 0 {
		facts.StructuredData = sd
	} else if sd := dig(artifact, "structuredData"); len(sd) > 0 {
		facts.StructuredData = sd
	}

	if facts.CallID == "" {
		facts.CallID = "unknown"
	}

	return facts
}

// dig walks nested maps, returning nil as soon as a step is missing or not
// an object.
func dig(m map[string]any, path ...string) map[string]any {
	current := m
	for _, key := range path {
		if current == nil {
			return nil
		}
		next, ok := current[key].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}

func num(m map[string]any, key string) float64 {
	if m == nil {
		return 0
	}
	// JSON numbers decode as float64
	f, _ := m[key].(float64)
	return f
}

func firstString(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
