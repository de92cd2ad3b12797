// Package ai is the narrow interface to the text-generation collaborator:
// a prompt goes in, generated text or an error comes out. The application
// talks to a local Ollama server by default, with Gemini as a hosted
// alternative.
package ai

import "context"

// Generator defines the interface for text generation
type Generator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}
