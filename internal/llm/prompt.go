package llm

import "fmt"

const systemInstructionTemplate = `
You are a Senior Full-Stack Engineer and AI Specialist.
Objective: Provide an instant, actionable code review for the student's submitted code.
Language: %s

Return a structured JSON response EXACTLY matching this schema (do not include markdown block wrapping):
{
  "syntax_errors": ["list", "of", "strings"],
  "logic_flaws": ["list", "of", "strings"],
  "optimization_tips": ["list", "of", "strings"],
  "score": 85
}
score must be an integer between 0 and 100 based on readability and best practices.
Give concise, meaningful feedback.
`

const userPromptTemplate = "Please review this %s code:\n\n%s"

// BuildSystemInstruction returns the fixed reviewer instruction for language.
func BuildSystemInstruction(language string) string {
	return fmt.Sprintf(systemInstructionTemplate, language)
}

// BuildUserPrompt wraps the submitted code in the user turn.
func BuildUserPrompt(language, code string) string {
	return fmt.Sprintf(userPromptTemplate, language, code)
}
