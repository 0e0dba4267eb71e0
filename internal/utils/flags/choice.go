package flags

import (
	"fmt"
	"strings"
)

const (
	choiceListOpeningConstant      = "<"
	choiceListClosingConstant      = ">"
	choiceListSeparatorConstant    = "|"
	choiceUsageWithoutTextTemplate = "`%s%s%s`"
	choiceUsageWithTextTemplate    = "`%s%s%s` %s"
	unsupportedChoiceErrorTemplate = "unsupported value %q; expected one of %s"
	unsupportedChoiceListSeparator = ", "
)

// FormatChoiceUsage renders "`<a|B|c>` description" with the default option upper-cased.
func FormatChoiceUsage(defaultChoice string, choices []string, description string) string {
	renderedChoices := strings.Join(distinctChoices(choices, defaultChoice), choiceListSeparatorConstant)
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsageWithoutTextTemplate, choiceListOpeningConstant, renderedChoices, choiceListClosingConstant)
	}
	return fmt.Sprintf(choiceUsageWithTextTemplate, choiceListOpeningConstant, renderedChoices, choiceListClosingConstant, trimmedDescription)
}

// MatchChoice returns the canonical spelling of candidate among choices, compared case-insensitively.
func MatchChoice(candidate string, choices []string) (string, error) {
	normalizedCandidate := strings.TrimSpace(candidate)
	for _, choice := range choices {
		if strings.EqualFold(strings.TrimSpace(choice), normalizedCandidate) {
			return strings.TrimSpace(choice), nil
		}
	}
	return "", fmt.Errorf(unsupportedChoiceErrorTemplate, candidate, strings.Join(distinctChoices(choices, ""), unsupportedChoiceListSeparator))
}

// distinctChoices trims, de-duplicates case-insensitively and upper-cases the default.
func distinctChoices(choices []string, defaultChoice string) []string {
	defaultKey := strings.ToLower(strings.TrimSpace(defaultChoice))
	rendered := make([]string, 0, len(choices))
	recorded := make(map[string]bool, len(choices))

	for _, choice := range choices {
		trimmedChoice := strings.TrimSpace(choice)
		choiceKey := strings.ToLower(trimmedChoice)
		if len(choiceKey) == 0 || recorded[choiceKey] {
			continue
		}
		recorded[choiceKey] = true

		if len(defaultKey) > 0 && choiceKey == defaultKey {
			trimmedChoice = strings.ToUpper(trimmedChoice)
		}
		rendered = append(rendered, trimmedChoice)
	}

	return rendered
}
