package ingest

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// canonicalFields are the field names the entity builders read.
var canonicalFields = []string{
	"id", "siteId", "siteName", "turbineId", "turbineName", "turbineMake",
	"componentId", "componentName", "failureModeId", "failureModeName", "severity",
	"createdAt", "inspectedAt", "confirmedAt", "closedAt", "updatedAt",
	"actionId", "caseId", "deadline", "priority", "priorityChanged", "status",
	"activity", "details", "latitude", "longitude",
}

// headerSynonyms maps a trimmed, lower-cased header to its canonical field.
var headerSynonyms = map[string]string{
	// cases
	"site id":           "siteId",
	"site_id":           "siteId",
	"site name":         "siteName",
	"site_name":         "siteName",
	"turbine id":        "turbineId",
	"turbine_id":        "turbineId",
	"turbine name":      "turbineName",
	"turbine_name":      "turbineName",
	"turbine make":      "turbineMake",
	"turbine_make":      "turbineMake",
	"component id":      "componentId",
	"component_id":      "componentId",
	"component name":    "componentName",
	"component_name":    "componentName",
	"failure mode id":   "failureModeId",
	"failure_mode_id":   "failureModeId",
	"failure mode name": "failureModeName",
	"failure_mode_name": "failureModeName",
	"failure mode":      "failureModeName",
	"failuremode":       "failureModeName",
	"created at":        "createdAt",
	"created_at":        "createdAt",
	"inspected at":      "inspectedAt",
	"inspected_at":      "inspectedAt",
	"confirmed at":      "confirmedAt",
	"confirmed_at":      "confirmedAt",
	"closed at":         "closedAt",
	"closed_at":         "closedAt",
	"updated at":        "updatedAt",
	"updated_at":        "updatedAt",

	// actions
	"action id":        "actionId",
	"action_id":        "actionId",
	"case id":          "caseId",
	"case_id":          "caseId",
	"priority changed": "priorityChanged",
	"priority_changed": "priorityChanged",

	// sites
	"lat":  "latitude",
	"lng":  "longitude",
	"lon":  "longitude",
	"long": "longitude",
}

func init() {
	for _, f := range canonicalFields {
		headerSynonyms[strings.ToLower(f)] = f
	}
}

// NormalizeHeader maps a raw header onto its canonical field. Unknown headers are kept under
// a camel-cased form of their words.
func NormalizeHeader(raw string) string {
	trimmed := strings.TrimSpace(raw)
	key := strings.Join(strings.Fields(strings.ToLower(trimmed)), " ")
	if f, ok := headerSynonyms[key]; ok {
		return f
	}
	return camelize(trimmed)
}

// NormalizeHeaders maps every header of a file.
func NormalizeHeaders(headers []string) []string {
	res := make([]string, len(headers))
	for i, h := range headers {
		res[i] = NormalizeHeader(h)
	}
	return res
}

func camelize(s string) string {
	words := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '_' || r == '-'
	})

	var sb strings.Builder
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		if i == 0 {
			sb.WriteRune(unicode.ToLower(r))
		} else {
			sb.WriteRune(unicode.ToUpper(r))
		}
		sb.WriteString(w[size:])
	}
	return sb.String()
}
