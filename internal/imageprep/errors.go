package imageprep

import "fmt"

// Validation error codes.
const (
	ErrCodeImageTooLarge = "ImageTooLarge"
	ErrCodeMissingImage  = "MissingImage"
	ErrCodeInvalidImage  = "InvalidImage"
)

// ValidationError reports structurally invalid caller input. It is never
// retried; the request is rejected immediately.
type ValidationError struct {
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
