// Package planner implements the two planning operations: drafting an RFC for
// a feature and breaking an RFC into a task list. Each request loads its rules
// document fresh, builds a prompt and makes exactly one generation call.
package planner

import (
	"context"
	"fmt"
	"time"

	"plannerd/internal/llm"
	"plannerd/internal/logging"
	"plannerd/internal/prompt"
	"plannerd/internal/rules"
)

// DefaultRulesID is the rules document callers use when none is named.
const DefaultRulesID = "default"

// slowCallThreshold is the generation latency above which a warning is logged.
const slowCallThreshold = 30 * time.Second

// RulesSource resolves rules documents by id.
type RulesSource interface {
	Load(id string) (rules.Result, error)
}

// TasksResult is the outcome of GenerateTasks. ValidJSON is false when the
// model ignored the JSON contract and Text holds its raw response.
type TasksResult struct {
	Text      string
	ValidJSON bool
}

// Service is safe for concurrent use; it holds no mutable state.
type Service struct {
	rules RulesSource
	gen   llm.Generator
}

// NewService wires a rules source and a generator.
func NewService(src RulesSource, gen llm.Generator) *Service {
	return &Service{rules: src, gen: gen}
}

// CreateRFC drafts an RFC for feature using the rules document rulesID.
// The id is looked up as given; an empty id names no document. The generated
// text is returned unmodified.
func (s *Service) CreateRFC(ctx context.Context, feature, rulesID string) (string, error) {
	doc, err := s.loadRules(rulesID)
	if err != nil {
		return "", err
	}

	timer := logging.StartTimer(logging.CategoryAPI, "create_rfc")
	text, err := s.gen.Generate(ctx, prompt.BuildRFCPrompt(feature, doc))
	timer.StopWithThreshold(slowCallThreshold)
	if err != nil {
		return "", &UnavailableError{Op: "RFC", Err: err}
	}
	return text, nil
}

// GenerateTasks asks for a JSON task list derived from rfc. A response that
// is not valid JSON is still a success: the raw text comes back with
// ValidJSON unset.
func (s *Service) GenerateTasks(ctx context.Context, rfc, rulesID string) (TasksResult, error) {
	doc, err := s.loadRules(rulesID)
	if err != nil {
		return TasksResult{}, err
	}

	timer := logging.StartTimer(logging.CategoryAPI, "generate_tasks")
	text, err := s.gen.Generate(ctx, prompt.BuildTasksPrompt(rfc, doc))
	timer.StopWithThreshold(slowCallThreshold)
	if err != nil {
		return TasksResult{}, &UnavailableError{Op: "tasks", Err: err}
	}

	cleaned := CleanJSONResponse(text)
	if !IsValidJSON(cleaned) {
		logging.Get(logging.CategoryAPI).Warn("Gemini did not return valid JSON, returning raw text (len=%d)", len(text))
		return TasksResult{Text: text}, nil
	}
	return TasksResult{Text: cleaned, ValidJSON: true}, nil
}

func (s *Service) loadRules(id string) (rules.Document, error) {
	res, err := s.rules.Load(id)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	if !res.IsFound() {
		logging.RulesWarn("rules %q not found", id)
		return nil, &NotFoundError{RulesID: id}
	}
	return res.Document(), nil
}
