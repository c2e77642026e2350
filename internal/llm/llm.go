package llm

import (
	"context"
	"encoding/json"
	"fmt"
)

// Input is the structured payload for one inference call. ImageBase64 and
// ImageMimeType are empty for text-only (reasoning) calls.
type Input struct {
	Prompt        string
	ImageBase64   string
	ImageMimeType string
}

// Output is what a model invocation produced: plain text, a structured value,
// or neither. Backends fill exactly one field; callers normalize with AsText
// and treat the result as untrusted.
type Output struct {
	Text       string
	Structured any
}

func TextOutput(s string) Output {
	return Output{Text: s}
}

func StructuredOutput(v any) Output {
	return Output{Structured: v}
}

// AsText coerces the output to its best-effort string representation. A
// structured value is re-marshalled to JSON text; an empty output becomes "".
// A degraded description is preferable to aborting the pipeline, so this
// never fails.
func (o Output) AsText() string {
	if o.Text != "" {
		return o.Text
	}
	if o.Structured != nil {
		if b, err := json.Marshal(o.Structured); err == nil {
			return string(b)
		}
	}
	return ""
}

// InvocationError reports that the underlying model call rejected or the
// transport failed. Invocations are never retried; this propagates to the
// request boundary as a server error.
type InvocationError struct {
	Model string
	Err   error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("model %q invocation failed: %v", e.Model, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// Invoker performs exactly one inference call against a named model.
type Invoker interface {
	Invoke(ctx context.Context, model string, in Input) (Output, error)
}
