package ai

import "fmt"

// TranslatePrompt returns a prompt that translates note text into the
// target language.
func TranslatePrompt(text, targetLanguage string) string {
	return fmt.Sprintf("translate to %s without any comment this text: %s", targetLanguage, text)
}

// SummarizePrompt returns a prompt that summarizes note text.
func SummarizePrompt(text string) string {
	return fmt.Sprintf("summarize this text concisely without any comment: %s", text)
}

// SuggestTagsPrompt returns a prompt that extracts a few comma-separated
// tags from note text.
func SuggestTagsPrompt(text string) string {
	return "Identify the core actions or most critical topics in the following text. " +
		"Represent these as a few concise, comma-separated tags. " +
		"Output ONLY the tags (e.g., task-delegation, market-research, urgent-deadline), " +
		"without any other text, comments, or explanations. " +
		"Aim for the smallest number of tags that accurately capture the essence. Text:\n\n" + text
}
