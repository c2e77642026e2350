package anthropic

import (
	"context"

	anthropicsdk "github.com/liushuangls/go-anthropic/v2"

	"github.com/musicjoeyoung/MealSnap/internal/llm"
)

// 1024 tokens comfortably covers the structured nutrition JSON for a multi-item
// meal; the vision description is far shorter.
const maxTokens = 1024

// Invoker calls the Anthropic Messages API. Image inputs go as base64 content
// blocks; text-only inputs as a plain user message.
type Invoker struct {
	client *anthropicsdk.Client
}

func New(apiKey string, opts ...anthropicsdk.ClientOption) *Invoker {
	return &Invoker{client: anthropicsdk.NewClient(apiKey, opts...)}
}

func (a *Invoker) Invoke(ctx context.Context, model string, in llm.Input) (llm.Output, error) {
	var msg anthropicsdk.Message
	if in.ImageBase64 != "" {
		msg = anthropicsdk.Message{
			Role: anthropicsdk.RoleUser,
			Content: []anthropicsdk.MessageContent{
				anthropicsdk.NewImageMessageContent(anthropicsdk.NewMessageContentSource(
					anthropicsdk.MessagesContentSourceTypeBase64,
					normaliseMIME(in.ImageMimeType),
					in.ImageBase64,
				)),
				anthropicsdk.NewTextMessageContent(in.Prompt),
			},
		}
	} else {
		msg = anthropicsdk.NewUserTextMessage(in.Prompt)
	}

	resp, err := a.client.CreateMessages(ctx, anthropicsdk.MessagesRequest{
		Model:     anthropicsdk.Model(model),
		MaxTokens: maxTokens,
		Messages:  []anthropicsdk.Message{msg},
	})
	if err != nil {
		return llm.Output{}, &llm.InvocationError{Model: model, Err: err}
	}

	return llm.TextOutput(resp.GetFirstContentText()), nil
}

// normaliseMIME maps caller MIME types to the values the Anthropic API
// accepts (jpeg, png, gif, webp). Unknown or empty types are coerced to jpeg
// as the most universally supported lossy fallback.
func normaliseMIME(mimeType string) string {
	switch mimeType {
	case "image/png", "image/gif", "image/webp":
		return mimeType
	default:
		return "image/jpeg"
	}
}
