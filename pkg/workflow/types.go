// Package workflow coordinates the user-initiated operations: the
// two-phase extract-solve pipeline, debugging, chat and the teleprompter.
// Each workflow owns a single-flight slot; a second start while one is
// running is rejected, never queued.
package workflow

import (
	"context"

	"github.com/promptdeck/promptdeck/pkg/aiprovider"
	"github.com/promptdeck/promptdeck/pkg/dispatch"
	"github.com/promptdeck/promptdeck/pkg/sources"
)

// Generator is the dispatcher surface the coordinators depend on.
type Generator interface {
	Generate(ctx context.Context, req dispatch.Request) (*aiprovider.CallResult, error)
}

// RunConfig is the ambient request configuration, threaded explicitly
// through every start call instead of read from shared globals.
type RunConfig struct {
	ExtractionModel   string `json:"extraction_model" yaml:"extraction_model"`
	SolutionModel     string `json:"solution_model" yaml:"solution_model"`
	DebugModel        string `json:"debug_model" yaml:"debug_model"`
	ChatModel         string `json:"chat_model" yaml:"chat_model"`
	TeleprompterModel string `json:"teleprompter_model" yaml:"teleprompter_model"`
	// Language is the programming language solutions are written in.
	Language string `json:"language" yaml:"language"`
}

// Example is one sample input/output pair of a coding problem.
type Example struct {
	Input       string `json:"input"`
	Output      string `json:"output"`
	Explanation string `json:"explanation,omitempty"`
}

// ProblemInfo is the structured record extracted from screenshots. It is
// written by the processing workflow and read by its solve phase and the
// debug workflow.
type ProblemInfo struct {
	Title            string    `json:"title"`
	ProblemStatement string    `json:"problem_statement"`
	InputFormat      string    `json:"input_format,omitempty"`
	OutputFormat     string    `json:"output_format,omitempty"`
	Constraints      []string  `json:"constraints,omitempty"`
	Examples         []Example `json:"examples,omitempty"`
	Difficulty       string    `json:"difficulty,omitempty"`
}

// SolutionResult is the structured output of the solve phase.
type SolutionResult struct {
	Code            string   `json:"code"`
	Thoughts        []string `json:"thoughts"`
	TimeComplexity  string   `json:"time_complexity"`
	SpaceComplexity string   `json:"space_complexity"`
}

// DebugResult is the structured output of the debug workflow.
type DebugResult struct {
	NewCode         string   `json:"new_code"`
	Thoughts        []string `json:"thoughts"`
	TimeComplexity  string   `json:"time_complexity"`
	SpaceComplexity string   `json:"space_complexity"`
}

// ChatMessage is one prior turn of a chat conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatReply is the chat workflow result with any citations split out of
// the display content.
type ChatReply struct {
	Content string           `json:"content"`
	Sources []sources.Source `json:"sources,omitempty"`
}
