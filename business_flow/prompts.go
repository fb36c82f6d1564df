package businessflow

import (
	"fmt"
	"strings"

	"github.com/amirphl/AdaptMuse/models"
	"github.com/goccy/go-json"
)

func entityNames(entities []models.Entity) string {
	names := make([]string, 0, len(entities))
	for _, e := range entities {
		if name := strings.TrimSpace(e.Name); name != "" {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func inlineJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// buildContentPrompt composes the marketing-copy prompt for one audience
func buildContentPrompt(audience *models.Audience, contentType, userContext string, existing *string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "You are an expert marketing copywriter. Write %s for the audience persona %q.\n\n", contentType, audience.Name)
	b.WriteString("Audience profile:\n")
	fmt.Fprintf(&b, "- Interests: %s\n", entityNames(audience.Entities))
	fmt.Fprintf(&b, "- Related tastes: %s\n", entityNames(audience.RecommendedEntities))
	if len(audience.Demographics) > 0 {
		fmt.Fprintf(&b, "- Segments: %s\n", strings.Join(audience.Demographics, ", "))
	}
	fmt.Fprintf(&b, "- Age affinity (positive means above-average interest): %s\n", inlineJSON(audience.AgeTotals.Data()))
	fmt.Fprintf(&b, "- Gender affinity: %s\n\n", inlineJSON(audience.GenderTotals.Data()))

	fmt.Fprintf(&b, "Context from the marketer:\n%s\n\n", userContext)

	if existing != nil && strings.TrimSpace(*existing) != "" {
		fmt.Fprintf(&b, "Refine the following existing content for this audience, keeping what works:\n%s\n\n", *existing)
		b.WriteString("Respond with the refined content only, with no preamble, explanation or surrounding quotes.")
	} else {
		b.WriteString("Respond with the content only, with no preamble, explanation or surrounding quotes.")
	}

	return b.String()
}

// buildIconPrompt asks for exactly one icon name from the fixed set
func buildIconPrompt(contentType, title string) string {
	return fmt.Sprintf(
		"Pick the single icon that best represents a piece of %q content titled %q.\n"+
			"Choose exactly one name from this list: %s.\n"+
			"Respond with the icon name only.",
		contentType, title, strings.Join(models.JobIcons, ", "),
	)
}

// normalizeIcon maps a model answer onto the fixed icon set, falling back to the default
func normalizeIcon(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = strings.Trim(s, "\"'`.,;:!?()[]{}* \n\t")
	if models.IsJobIcon(s) {
		return s
	}
	return models.DefaultJobIcon
}
