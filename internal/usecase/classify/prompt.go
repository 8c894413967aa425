package classify

import (
	"strings"

	"github.com/kailas-cloud/docintel/internal/domain/doctype"
	"github.com/kailas-cloud/docintel/internal/domain/lifedomain"
)

// MaxPromptTextRunes caps the recognized text sent to the model.
const MaxPromptTextRunes = 6000

// responseSchema describes the JSON object the model must return.
// Only "type" is required; everything else is coerced leniently.
func responseSchema() map[string]any {
	return map[string]any{
		"type":     "object",
		"required": []any{"type"},
		"properties": map[string]any{
			"type":            map[string]any{"type": "string"},
			"confidence":      map[string]any{"type": []any{"number", "string", "null"}},
			"domain":          map[string]any{"type": []any{"string", "null"}},
			"suggestedDomain": map[string]any{"type": []any{"string", "null"}},
			"extractedData": map[string]any{
				"type": []any{"object", "null"},
			},
		},
	}
}

func buildSystemPrompt() string {
	var b strings.Builder
	b.WriteString("You classify documents for a personal records organizer.\n")
	b.WriteString("Given OCR text, reply with ONE JSON object and nothing else:\n")
	b.WriteString(`{"type": string, "confidence": number 0-1, "domain": string|null, "extractedData": {...}}`)
	b.WriteString("\n\ntype must be one of: ")
	b.WriteString(strings.Join(doctype.Strings(), ", "))
	b.WriteString("\ndomain must be one of: ")
	domains := make([]string, 0, len(lifedomain.All()))
	for _, d := range lifedomain.All() {
		domains = append(domains, d.String())
	}
	b.WriteString(strings.Join(domains, ", "))
	b.WriteString(", or null when unsure.\n")
	b.WriteString("extractedData keys (omit unknown ones): title, date (YYYY-MM-DD), amount (number), ")
	b.WriteString("vendor, description, phone, email, referenceNumber, policyNumber, vin, doctorName, ")
	b.WriteString("category, subtype.\n")
	b.WriteString("Never invent values that are not present in the text.")
	return b.String()
}

func buildUserPrompt(text string) string {
	return "Document text:\n" + truncateRunes(text, MaxPromptTextRunes)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
