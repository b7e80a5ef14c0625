// Package prompt builds the natural-language instructions sent to the
// generation API. Builders are pure: the same inputs always produce the same
// prompt, and caller text is interpolated as-is.
package prompt

import (
	"fmt"

	"plannerd/internal/rules"
)

// Defaults used when a rules document omits a key.
const (
	DefaultRFCTemplate = "## Summary\n## Goals\n## Approach"
	DefaultCodeStyle   = "Default"
	DefaultTaskRules   = "Standard rules apply."
)

const rfcTemplate = `You are a senior software architect.
Based on our team rules (style: %s),
please generate an RFC document for the feature: '%s'.
Use this Markdown template:
%s

Ensure you include sections for Summary, Goals, Technical Approach, and Risks.
Output only the RFC document content.
`

const tasksTemplate = `You are an expert project manager.
Given the following RFC:
%s

And our task rules: %s

Generate a list of tasks as a valid JSON array.
Each task object in the array must have these keys: 'name' (string),
'description' (string), and 'priority' (string: 'High', 'Medium', or 'Low').
Output *only* the JSON array and nothing else.
`

// BuildRFCPrompt returns the instruction for drafting an RFC for feature.
func BuildRFCPrompt(feature string, doc rules.Document) string {
	template := doc.String(rules.KeyRFCTemplate, DefaultRFCTemplate)
	style := doc.String(rules.KeyCodeStyle, DefaultCodeStyle)
	return fmt.Sprintf(rfcTemplate, style, feature, template)
}

// BuildTasksPrompt returns the instruction for breaking rfc into tasks.
func BuildTasksPrompt(rfc string, doc rules.Document) string {
	taskRules := doc.String(rules.KeyTaskRules, DefaultTaskRules)
	return fmt.Sprintf(tasksTemplate, rfc, taskRules)
}
