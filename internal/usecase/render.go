package usecase

import (
	"fmt"
	"html"
	"sort"
	"strconv"
	"strings"

	"github.com/leadcall-ai/leadcall-api/internal/entity"
)

// transcriptLineCap bounds how much of the transcript makes it into the
// rendered message.
const transcriptLineCap = 50

// Sentinel phrases the voice AI emits for facts it could not establish.
// All of them collapse to N/A and their rows are dropped from the message.
var notApplicablePhrases = map[string]bool{
	"":              true,
	"n/a":           true,
	"null":          true,
	"not mentioned": true,
	"not provided":  true,
	"not discussed": true,
}

type DetailRow struct {
	Label string
	Value string
}

type TranscriptTurn struct {
	Speaker string // empty for continuation lines
	Text    string
}

// RenderNotification builds the call-summary message for a merged record and
// its (possibly synthetic) lead. Form-captured lead fields are authoritative;
// AI-extracted structured data fills in the rest.
func RenderNotification(record *entity.CallRecord, lead *entity.Lead) Notification {
	company := firstString(lead.CompanyName, record.CompanyName)
	name := firstString(lead.Name, record.CustomerName)

	subject := "Your LeadCall AI demo call summary"
	if company != "" {
		subject = fmt.Sprintf("%s — %s", subject, company)
	}

	rows := DetailRows(record, lead)
	turns := TranscriptTurns(record.Transcript)
	summary := record.Summary
	if summary == "" {
		summary = "No summary available."
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<p>Hi %s,</p>", html.EscapeString(firstString(name, "there"))))
	b.WriteString("<p>Here is your call summary:</p>")
	b.WriteString(fmt.Sprintf("<blockquote>%s</blockquote>", html.EscapeString(summary)))

	if len(rows) > 0 {
		b.WriteString("<table>")
		for _, row := range rows {
			b.WriteString(fmt.Sprintf(
				"<tr><td><strong>%s</strong></td><td>%s</td></tr>",
				html.EscapeString(row.Label), html.EscapeString(row.Value),
			))
		}
		b.WriteString("</table>")
	}

	if len(turns) > 0 {
		b.WriteString("<p><strong>Transcript</strong></p><div>")
		for _, turn := range turns {
			if turn.Speaker != "" {
				b.WriteString(fmt.Sprintf("<p><strong>%s:</strong> %s</p>",
					html.EscapeString(turn.Speaker), html.EscapeString(turn.Text)))
			} else {
				b.WriteString(fmt.Sprintf("<p>%s</p>", html.EscapeString(turn.Text)))
			}
		}
		b.WriteString("</div>")
	}

	b.WriteString("<p>Thank you for trying LeadCall AI.</p>")

	return Notification{
		Recipient: firstString(lead.Email, record.Email),
		Subject:   subject,
		HTMLBody:  b.String(),
		CallID:    record.CallID,
		LeadID:    lead.LeadID,
	}
}

// DetailRows assembles the detail table: lead form fields first, then every
// structured-data fact whose value survives N/A normalization. Rows that
// normalize to N/A are omitted entirely, not rendered empty.
func DetailRows(record *entity.CallRecord, lead *entity.Lead) []DetailRow {
	var rows []DetailRow

	appendRow := func(label, value string) {
		if v := normalizeValue(value); v != "N/A" {
			rows = append(rows, DetailRow{Label: label, Value: v})
		}
	}

	appendRow("Name", firstString(lead.Name, record.CustomerName))
	appendRow("Company", firstString(lead.CompanyName, record.CompanyName))
	appendRow("Phone", firstString(lead.Phone, record.Phone))
	appendRow("Email", firstString(lead.Email, record.Email))

	keys := make([]string, 0, len(record.StructuredData))
	for k := range record.StructuredData {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		appendRow(labelForKey(k), renderValue(record.StructuredData[k]))
	}

	return rows
}

// TranscriptTurns splits the first transcriptLineCap lines into speaker
// turns. Lines prefixed "AI:" attribute to the agent, "User:" to the
// customer; anything else renders as unattributed continuation text.
func TranscriptTurns(transcript string) []TranscriptTurn {
	if strings.TrimSpace(transcript) == "" {
		return nil
	}

	lines := strings.Split(transcript, "\n")
	if len(lines) > transcriptLineCap {
		lines = lines[:transcriptLineCap]
	}

	var turns []TranscriptTurn
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "AI:"):
			turns = append(turns, TranscriptTurn{Speaker: "Agent", Text: strings.TrimSpace(line[3:])})
		case strings.HasPrefix(line, "User:"):
			turns = append(turns, TranscriptTurn{Speaker: "Customer", Text: strings.TrimSpace(line[5:])})
		default:
			turns = append(turns, TranscriptTurn{Text: line})
		}
	}
	return turns
}

// normalizeValue collapses null/empty/sentinel values to the single N/A
// marker.
func normalizeValue(v string) string {
	if notApplicablePhrases[strings.ToLower(strings.TrimSpace(v))] {
		return "N/A"
	}
	return strings.TrimSpace(v)
}

func renderValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case bool:
		if val {
			return "Yes"
		}
		return "No"
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// labelForKey turns a snake_case structured-data key into a display label.
func labelForKey(key string) string {
	known := map[string]string{
		"business_type":       "Business Type",
		"qualification_score": "Qualification Score",
		"wants_follow_up":     "Wants Follow-up",
		"pain_points":         "Pain Points",
		"budget":              "Budget",
		"timeline":            "Timeline",
	}
	if label, ok := known[key]; ok {
		return label
	}

	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
