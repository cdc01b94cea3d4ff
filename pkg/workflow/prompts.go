package workflow

import (
	"fmt"
	"strings"

	"github.com/promptdeck/promptdeck/pkg/aiprovider"
	"github.com/promptdeck/promptdeck/pkg/schemas"
)

// Prompt builders are pure functions from task input to a message list.
// Each structured task embeds its signature phrase so providers without
// an explicit task channel still shape the request correctly.

func extractMessages(images []string, language string) []aiprovider.Message {
	instruction := fmt.Sprintf(
		"%s from these screenshots. Report the title, full problem statement, "+
			"input and output format, constraints, worked examples and difficulty. "+
			"The solution will be written in %s.",
		schemas.SignatureExtract, language)
	return []aiprovider.Message{
		aiprovider.NewTextMessage(aiprovider.RoleDeveloper,
			"You turn screenshots of coding problems into a faithful structured description. "+
				"Transcribe exactly what is shown; do not invent constraints."),
		aiprovider.NewMixedMessage(aiprovider.RoleUser, instruction, images...),
	}
}

func solveMessages(problem *ProblemInfo, language string) []aiprovider.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s in %s for the following problem.\n\n", schemas.SignatureSolve, language)
	writeProblem(&b, problem)
	b.WriteString("\nExplain your approach step by step, then give the complete code " +
		"and its time and space complexity.")
	return []aiprovider.Message{
		aiprovider.NewTextMessage(aiprovider.RoleDeveloper,
			"You write clear, correct, idiomatic solutions to coding problems."),
		aiprovider.NewTextMessage(aiprovider.RoleUser, b.String()),
	}
}

func debugMessages(problem *ProblemInfo, images []string, language string) []aiprovider.Message {
	var b strings.Builder
	fmt.Fprintf(&b, "%s shown in the screenshots. It is an attempt at the following problem, written in %s.\n\n",
		schemas.SignatureDebug, language)
	writeProblem(&b, problem)
	b.WriteString("\nIdentify what is wrong, then give the corrected code with its " +
		"time and space complexity.")
	return []aiprovider.Message{
		aiprovider.NewTextMessage(aiprovider.RoleDeveloper,
			"You find and fix bugs in code against a known problem statement."),
		aiprovider.NewMixedMessage(aiprovider.RoleUser, b.String(), images...),
	}
}

func chatMessages(history []ChatMessage, text string) []aiprovider.Message {
	out := []aiprovider.Message{
		aiprovider.NewTextMessage(aiprovider.RoleDeveloper,
			"You are a helpful assistant. Answer concisely."),
	}
	for _, turn := range history {
		role := aiprovider.RoleUser
		if turn.Role == string(aiprovider.RoleAssistant) {
			role = aiprovider.RoleAssistant
		}
		out = append(out, aiprovider.NewTextMessage(role, turn.Content))
	}
	return append(out, aiprovider.NewTextMessage(aiprovider.RoleUser, text))
}

func teleprompterMessages(transcript string) []aiprovider.Message {
	return []aiprovider.Message{
		aiprovider.NewTextMessage(aiprovider.RoleDeveloper,
			"You are an interview teleprompter. Given the live transcript of an "+
				"interviewer's question, suggest a short, natural first-person answer "+
				"the candidate can read aloud. No preamble."),
		aiprovider.NewTextMessage(aiprovider.RoleUser, transcript),
	}
}

func writeProblem(b *strings.Builder, problem *ProblemInfo) {
	fmt.Fprintf(b, "Title: %s\n\n%s\n", problem.Title, problem.ProblemStatement)
	if problem.InputFormat != "" {
		fmt.Fprintf(b, "\nInput: %s\n", problem.InputFormat)
	}
	if problem.OutputFormat != "" {
		fmt.Fprintf(b, "Output: %s\n", problem.OutputFormat)
	}
	if len(problem.Constraints) > 0 {
		b.WriteString("\nConstraints:\n")
		for _, c := range problem.Constraints {
			fmt.Fprintf(b, "- %s\n", c)
		}
	}
	for i, example := range problem.Examples {
		fmt.Fprintf(b, "\nExample %d:\nInput: %s\nOutput: %s\n", i+1, example.Input, example.Output)
		if example.Explanation != "" {
			fmt.Fprintf(b, "Explanation: %s\n", example.Explanation)
		}
	}
}
