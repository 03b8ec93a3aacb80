package llm

import (
	"fmt"
	"strings"
)

// SystemInstruction frames every generation request. The variety list keeps
// the model from producing page after page of plain lookup questions.
const SystemInstruction = `# Your task:
You are an AI tasked with producing high-quality, diverse question-answer pairs.
Given a passage of text, generate the kinds of questions people would actually ask about it, with thorough answers.

# Instructions:
Create high-quality question-answer pairs for the given text.

## Ensure the following:
### Language consistency: questions and answers must be in the same language as the given text.
For example, if the text is Turkish, the questions and answers must be Turkish too.

### Question variety: include different question types, such as:
- Factual: direct questions asking for specific information (e.g. "What does X mean?")
- Conceptual: questions probing the ideas behind the content (e.g. "Why is X important?")
- Contextual: questions about the broader context or background (e.g. "In what context is X mentioned?")
- Causal: questions asking for reasons or causes (e.g. "What causes X?")
- Procedural: questions focused on processes or steps (e.g. "How is X achieved?")
- Analytical: questions that compare, contrast or evaluate (e.g. "How does X compare to Y?")
- Hypothetical: questions based on imagined scenarios (e.g. "What would happen if X?")
- Reflective: questions about consequences or effects (e.g. "What effects does X have?")
- Speculative: opinion-based or exploratory questions where appropriate (e.g. "Why might someone disagree with X?")
- Enumerative: questions asking for a list of items, steps or elements (e.g. "What are the key elements of X?")
- Summarizing: questions asking for a brief summary or the main points (e.g. "What is the main takeaway from X?")

### Difficulty balance: include simple, moderate and complex questions.

### Answer precision: give concise, accurate answers grounded in the provided content.
Answers must not be too short; they should give enough context to explain the answer clearly while staying concise.
Avoid extremely short answers such as "Yes" or "No".
An answer should supply the context needed to understand the reasoning behind the information.

### Context awareness: make sure every question is deeply rooted in the given text and reflects the purpose and nuances of the material.

### No repetition: make sure all questions are distinct.`

// Prompts embed the page text directly; anything past this cap adds cost
// without fitting in the output token budget anyway.
const maxPageTextChars = 20000

// BuildPrompt assembles the per-page generation request for the desired
// number of pairs.
func BuildPrompt(pageText string, pairCount int) string {
	if len(pageText) > maxPageTextChars {
		pageText = pageText[:maxPageTextChars]
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Create %d high-quality question-answer pairs for the text below.\n", pairCount)
	sb.WriteString("Each pair must contain the fields question, answer and question_type.\n")
	sb.WriteString("Generate a variety of question types.\n")
	sb.WriteString("First identify the language of the text, then write the pairs in that same language.\n")
	sb.WriteString("--------------------------------\n")
	fmt.Fprintf(&sb, "Text: %s\n", pageText)
	fmt.Fprintf(&sb, "Number of question-answer pairs: %d\n", pairCount)
	sb.WriteString("--------------------------------\n")
	sb.WriteString("Respond with plain JSON only. Do not use markdown markers (like ```json). Add no commentary, just the JSON.\n")
	sb.WriteString("It must have this shape:\n")
	sb.WriteString("[\n")
	sb.WriteString("  {\"question\": \"...\", \"answer\": \"...\", \"question_type\": \"...\"},\n")
	sb.WriteString("  {\"question\": \"...\", \"answer\": \"...\", \"question_type\": \"...\"}\n")
	sb.WriteString("]\n")
	return sb.String()
}
