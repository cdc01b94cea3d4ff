// Package schemas maps task kinds to their structured-output schemas, in
// both the generic JSON-Schema dialect and the Gemini-native variant.
package schemas

import (
	"strings"
)

// TaskKind identifies which workflow a completion request belongs to.
type TaskKind string

const (
	// TaskUnspecified makes the dispatcher fall back to signature
	// sniffing on the last message.
	TaskUnspecified  TaskKind = ""
	TaskExtract      TaskKind = "extract"
	TaskSolve        TaskKind = "solve"
	TaskDebug        TaskKind = "debug"
	TaskChat         TaskKind = "chat"
	TaskTeleprompter TaskKind = "teleprompter"
	TaskFreeform     TaskKind = "freeform"
)

// Task-signature phrases embedded by the prompt builders. InferTask keys
// off these when no explicit task accompanies a request.
const (
	SignatureExtract = "Extract the coding problem"
	SignatureSolve   = "Generate a solution"
	SignatureDebug   = "Debug this code"
)

// InferTask sniffs the text of the last message for a task signature.
// Requests matching none of the signatures are treated as freeform.
//
// Explicitly tagged requests should bypass this entirely; the sniffer only
// exists for callers that cannot thread a task through.
func InferTask(lastMessageText string) TaskKind {
	switch {
	case strings.Contains(lastMessageText, SignatureExtract):
		return TaskExtract
	case strings.Contains(lastMessageText, SignatureSolve):
		return TaskSolve
	case strings.Contains(lastMessageText, SignatureDebug):
		return TaskDebug
	}
	return TaskFreeform
}

// ForTask returns the generic JSON-Schema for a task, or nil when the task
// is freeform text (chat, teleprompter, unspecified).
func ForTask(task TaskKind) map[string]any {
	switch task {
	case TaskExtract:
		return extractSchema()
	case TaskSolve:
		return solveSchema()
	case TaskDebug:
		return debugSchema()
	}
	return nil
}

func extractSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Short title of the coding problem",
			},
			"problem_statement": map[string]any{
				"type":        "string",
				"description": "Full statement of the problem",
			},
			"input_format": map[string]any{
				"type":        "string",
				"description": "Description of the expected input",
			},
			"output_format": map[string]any{
				"type":        "string",
				"description": "Description of the expected output",
			},
			"constraints": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"examples": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"input":       map[string]any{"type": "string"},
						"output":      map[string]any{"type": "string"},
						"explanation": map[string]any{"type": "string"},
					},
					"required": []any{"input", "output"},
				},
			},
			"difficulty": map[string]any{
				"type": "string",
				"enum": []any{"easy", "medium", "hard"},
			},
		},
		"required": []any{"title", "problem_statement"},
	}
}

func solveSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"code": map[string]any{
				"type":        "string",
				"description": "Complete solution source code",
			},
			"thoughts": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "Step-by-step reasoning behind the approach",
			},
			"time_complexity": map[string]any{"type": "string"},
			"space_complexity": map[string]any{
				"type": "string",
			},
		},
		"required": []any{"code", "thoughts", "time_complexity", "space_complexity"},
	}
}

func debugSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"new_code": map[string]any{
				"type":        "string",
				"description": "Corrected source code",
			},
			"thoughts": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "What was wrong and how it was fixed",
			},
			"time_complexity": map[string]any{"type": "string"},
			"space_complexity": map[string]any{
				"type": "string",
			},
		},
		"required": []any{"new_code", "thoughts", "time_complexity", "space_complexity"},
	}
}
