package server

import "strings"

const (
	outputSchema = "Return ONLY JSON with the following structure: {\n" +
		"  \"files\": [ { \"path\": string, \"content\": string } ],\n" +
		"  \"meta\": object\n" +
		"}. No prose, no markdown. Ensure valid JSON."

	stackGuidance = "You generate a minimal full-stack prototype using React + Vite + TypeScript " +
		"for frontend and FastAPI for backend. Prefer small, working examples. " +
		"Keep paths POSIX (use forward slashes)."
)

// BuildInstructions wraps a user prompt with the output contract the
// response parser relies on. Extra context is appended when non-empty.
func BuildInstructions(prompt, context string) string {
	var b strings.Builder
	b.WriteString(outputSchema)
	b.WriteString("\n")
	b.WriteString(stackGuidance)
	b.WriteString("\nUser Prompt:\n")
	b.WriteString(prompt)
	if context != "" {
		b.WriteString("\nContext:\n")
		b.WriteString(context)
	}
	return b.String()
}
