package generation

import "errors"

// Error definitions for the generation package.
var (
	// ErrGenerationFailed is returned when an inspiration could not be produced.
	ErrGenerationFailed = errors.New("failed to generate inspiration")

	// ErrInvalidResponse is returned when the model's answer is empty or malformed.
	ErrInvalidResponse = errors.New("invalid response from language model")

	// ErrContentBlocked is returned when safety filters blocked the answer.
	ErrContentBlocked = errors.New("content blocked by language model safety filters")

	// ErrTransientFailure is returned after retries of a transient error ran out.
	ErrTransientFailure = errors.New("transient error during inspiration generation")

	// ErrInvalidConfig is returned when the generator is misconfigured.
	ErrInvalidConfig = errors.New("invalid generator configuration")
)
