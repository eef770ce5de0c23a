// Package generation defines the port for short reminder inspirations
// produced by a language model (Gemini), together with the built-in prompts
// used when no model is configured or the model fails.
package generation
