package ai

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/zhouzirui/rantme/backend/internal/config"
	"github.com/zhouzirui/rantme/backend/internal/logger"
	"github.com/zhouzirui/rantme/backend/internal/model/chat"
	"github.com/zhouzirui/rantme/backend/internal/model/tone"
)

// EmptyReply is returned when the model produces no text.
const EmptyReply = "Sorry, I didn’t quite catch that."

// historyLimit caps the turns sent to the model.
const historyLimit = 40

// Service encapsulates AI-powered chat functionality
type Service struct {
	chatModel model.ChatModel
	prompts   *PromptBuilder
	cfg       config.AIConfig
	chain     compose.Runnable[map[string]any, *schema.Message]
	log       *log.Logger
}

// NewService creates a new AI service instance
func NewService(ctx context.Context, chatModel model.ChatModel, tones tone.Store, cfg config.AIConfig) (*Service, error) {
	if chatModel == nil {
		return nil, errors.New("chat model is required")
	}

	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.MessagesPlaceholder("system", false),
		schema.MessagesPlaceholder("history", true),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{
		chatModel: chatModel,
		prompts:   NewPromptBuilder(tones, historyLimit),
		cfg:       cfg,
		chain:     runnable,
		log:       logger.For("ai"),
	}, nil
}

// StreamingEnabled 指示是否开启流式输出。
func (s *Service) StreamingEnabled() bool {
	return s.cfg.StreamResponse
}

// GetChatModel 返回底层的聊天模型
func (s *Service) GetChatModel() model.ChatModel {
	return s.chatModel
}

// Reply produces the assistant's answer to history in the given tone. When
// streaming is enabled and onDelta is set, chunks are forwarded as they arrive.
func (s *Service) Reply(ctx context.Context, history []chat.HistoryItem, t tone.Tone, onDelta func(string)) (string, error) {
	input := s.prompts.Input(history, t)

	var (
		content string
		err     error
	)
	if s.StreamingEnabled() && onDelta != nil {
		content, err = s.stream(ctx, input, onDelta)
	} else {
		content, err = s.invoke(ctx, input)
	}
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(content) == "" {
		content = EmptyReply
	}
	s.log.Debug("generated reply", "tone", t, "turns", len(history), "length", len(content))
	return content, nil
}

func (s *Service) invoke(ctx context.Context, input map[string]any) (string, error) {
	response, err := s.chain.Invoke(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}
	if response == nil {
		return "", nil
	}
	return response.Content, nil
}

func (s *Service) stream(ctx context.Context, input map[string]any, onDelta func(string)) (string, error) {
	reader, err := s.chain.Stream(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to stream AI chain output: %w", err)
	}
	defer reader.Close()

	var chunks []*schema.Message
	for {
		chunk, recvErr := reader.Recv()
		if errors.Is(recvErr, io.EOF) {
			break
		}
		if recvErr != nil {
			return "", fmt.Errorf("stream receive failed: %w", recvErr)
		}
		if chunk == nil {
			continue
		}
		chunks = append(chunks, chunk)
		if chunk.Content != "" {
			onDelta(chunk.Content)
		}
	}

	if len(chunks) == 0 {
		return "", nil
	}
	merged, err := schema.ConcatMessages(chunks)
	if err != nil {
		return "", fmt.Errorf("failed to merge stream chunks: %w", err)
	}
	return merged.Content, nil
}
