package ingestion

import (
	"fmt"
	"strings"
)

// genericSections are section titles that add no meaning to a search text.
var genericSections = map[string]struct{}{
	"general":   {},
	"default":   {},
	"undefined": {},
}

// BuildSearchText composes the text that gets embedded for a line item.
// The sender and section give the raw description enough context to match
// queries like "Dell warranty" that no single field contains.
func BuildSearchText(senderName, section, description, itemCode string) string {
	var parts []string
	if senderName != "" {
		parts = append(parts, "Context: "+senderName)
	}

	if section != "" {
		if _, generic := genericSections[strings.ToLower(section)]; !generic {
			parts = append(parts, "("+section+")")
		}
	}

	text := fmt.Sprintf("%s | Item: %s", strings.Join(parts, " "), description)
	if itemCode != "" {
		text += " (" + itemCode + ")"
	}
	return text
}
