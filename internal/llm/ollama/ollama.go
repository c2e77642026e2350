package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/musicjoeyoung/MealSnap/internal/llm"
)

// Invoker calls a local Ollama server's /api/generate endpoint. Vision models
// take the image as a base64 payload alongside the prompt; text models get
// the prompt alone.
type Invoker struct {
	host   string
	client *http.Client
}

func New(host string) *Invoker {
	return &Invoker{
		host:   host,
		client: &http.Client{},
	}
}

func (o *Invoker) Invoke(ctx context.Context, model string, in llm.Input) (llm.Output, error) {
	reqBody := map[string]interface{}{
		"model":  model,
		"prompt": in.Prompt,
		"stream": false,
	}
	if in.ImageBase64 != "" {
		reqBody["images"] = []string{in.ImageBase64}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return llm.Output{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.host+"/api/generate", bytes.NewReader(payload))
	if err != nil {
		return llm.Output{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return llm.Output{}, &llm.InvocationError{Model: model, Err: err}
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			slog.Error("failed to close ollama response body", "error", err)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return llm.Output{}, &llm.InvocationError{Model: model, Err: fmt.Errorf("ollama returned status %d", resp.StatusCode)}
	}

	var respBody struct {
		Response string `json:"response"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&respBody); err != nil {
		return llm.Output{}, &llm.InvocationError{Model: model, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	return llm.TextOutput(respBody.Response), nil
}
