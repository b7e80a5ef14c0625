package planner

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Priority is a task's urgency as requested in the prompt.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
	PriorityLow    Priority = "Low"
)

// Task is one entry of the task list the model is asked to produce.
type Task struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
}

const (
	jsonFenceOpen = "```json"
	fenceClose    = "```"
)

// CleanJSONResponse strips surrounding whitespace and a ```json ... ``` fence.
func CleanJSONResponse(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, jsonFenceOpen)
	cleaned = strings.TrimSuffix(cleaned, fenceClose)
	return strings.TrimSpace(cleaned)
}

// IsValidJSON reports whether text is syntactically valid JSON.
func IsValidJSON(text string) bool {
	return json.Valid([]byte(text))
}

// DecodeTasks parses a task array, tolerating a code fence around it.
// Element shape is not enforced beyond what json.Unmarshal requires.
func DecodeTasks(text string) ([]Task, error) {
	var tasks []Task
	if err := json.Unmarshal([]byte(CleanJSONResponse(text)), &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}
