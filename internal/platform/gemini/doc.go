// Package gemini implements generation.Generator with Google's Gemini API.
//
// The generator renders a short Hebrew prompt from the user's reminder topics,
// asks the model for a single inspiring line, and retries transient failures
// with exponential backoff and jitter. Callers wrap it with
// generation.WithFallback so a failing model never blocks a reminder.
package gemini
