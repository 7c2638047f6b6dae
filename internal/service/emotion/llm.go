package emotion

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
)

// LLMClassifier asks the chat model to label the utterance with the same
// vocabulary the HuggingFace emotion model uses.
type LLMClassifier struct {
	chain compose.Runnable[map[string]any, *schema.Message]
}

// NewLLMClassifier compiles the classification chain on top of chatModel.
func NewLLMClassifier(ctx context.Context, chatModel model.ChatModel) (*LLMClassifier, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(classifierSystemPrompt),
		schema.UserMessage(classifierUserPrompt),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile emotion classifier chain: %w", err)
	}
	return &LLMClassifier{chain: runnable}, nil
}

// Classify implements Classifier.
func (c *LLMClassifier) Classify(ctx context.Context, text string) (string, error) {
	msg, err := c.chain.Invoke(ctx, map[string]any{
		"labels": strings.Join(mood.ExternalLabels(), ", "),
		"text":   strings.TrimSpace(text),
	})
	if err != nil {
		return "", fmt.Errorf("classifier invoke failed: %w", err)
	}
	if msg == nil || strings.TrimSpace(msg.Content) == "" {
		return "", fmt.Errorf("classifier returned empty output")
	}

	payload, err := parseClassifierOutput(msg.Content)
	if err != nil {
		return "", fmt.Errorf("classifier output parse failed: %w", err)
	}
	return strings.ToLower(strings.TrimSpace(payload.Label)), nil
}

type classifierPayload struct {
	Label      string  `json:"label"`
	Confidence float32 `json:"confidence"`
}

// parseClassifierOutput extracts the first JSON object of the model output.
func parseClassifierOutput(content string) (*classifierPayload, error) {
	trimmed := strings.TrimSpace(content)
	start := strings.Index(trimmed, "{")
	end := strings.LastIndex(trimmed, "}")
	if start == -1 || end == -1 || end <= start {
		return nil, fmt.Errorf("missing json object")
	}

	payload := &classifierPayload{}
	if err := json.Unmarshal([]byte(trimmed[start:end+1]), payload); err != nil {
		return nil, err
	}
	return payload, nil
}

const classifierSystemPrompt = "You label the emotion of a single chat message. " +
	"Pick exactly one label from: {labels}. " +
	"Reply with a JSON object only, with a string field named label and an optional number field named confidence between 0 and 1. No other text."

const classifierUserPrompt = "Message:\n{text}"
