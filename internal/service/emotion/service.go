package emotion

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	"github.com/zhouzirui/rantme/backend/internal/config"
	"github.com/zhouzirui/rantme/backend/internal/logger"
)

// ErrEmptyText is returned for blank input.
var ErrEmptyText = errors.New("text is required")

// Classifier returns a raw emotion label for text. Labels use the vocabulary
// understood by mood.Normalize.
type Classifier interface {
	Classify(ctx context.Context, text string) (string, error)
}

// Sources of a detection.
const (
	SourceHuggingFace = config.ProviderHuggingFace
	SourceLLM         = config.ProviderLLM
	SourceLexicon     = config.ProviderLexicon
)

// Detection is the resolved mood of one utterance.
type Detection struct {
	Label    string   `json:"label"`
	Mood     mood.Tag `json:"mood"`
	Source   string   `json:"source"`
	Degraded bool     `json:"degraded,omitempty"`
}

// Options tune the service.
type Options struct {
	// FallbackToLexicon runs the local lexicon when the remote classifier fails
	// instead of settling on neutral.
	FallbackToLexicon bool
	Timeout           time.Duration
}

// Service resolves moods through a remote classifier and never fails: any
// collaborator error degrades to neutral or to the local lexicon.
type Service struct {
	classifier Classifier
	source     string
	lexicon    *mood.Lexicon
	opts       Options
	log        *log.Logger
}

// NewService wires a classifier. A nil classifier means lexicon only.
func NewService(classifier Classifier, source string, lexicon *mood.Lexicon, opts Options) *Service {
	if lexicon == nil {
		lexicon = mood.BasicLexicon()
	}
	if classifier == nil {
		source = SourceLexicon
	}
	return &Service{
		classifier: classifier,
		source:     source,
		lexicon:    lexicon,
		opts:       opts,
		log:        logger.For("emotion"),
	}
}

// New builds the service selected by cfg. chatModel is only needed for the llm provider.
func New(ctx context.Context, cfg config.EmotionConfig, chatModel model.ChatModel, lexicon *mood.Lexicon) (*Service, error) {
	opts := Options{
		FallbackToLexicon: cfg.Fallback == config.FallbackLexicon,
		Timeout:           cfg.Timeout,
	}

	switch cfg.Provider {
	case config.ProviderHuggingFace:
		client, err := NewHuggingFaceClassifier(cfg.HuggingFaceURL, cfg.HuggingFaceAPIKey, nil)
		if err != nil {
			return nil, err
		}
		return NewService(client, SourceHuggingFace, lexicon, opts), nil
	case config.ProviderLLM:
		if chatModel == nil {
			return nil, errors.New("llm emotion provider requires a chat model")
		}
		classifier, err := NewLLMClassifier(ctx, chatModel)
		if err != nil {
			return nil, err
		}
		return NewService(classifier, SourceLLM, lexicon, opts), nil
	case config.ProviderLexicon, "":
		return NewService(nil, SourceLexicon, lexicon, opts), nil
	default:
		return nil, fmt.Errorf("unknown emotion provider %q", cfg.Provider)
	}
}

// Source names the active classifier.
func (s *Service) Source() string {
	return s.source
}

// Detect resolves the mood of text.
func (s *Service) Detect(ctx context.Context, text string) Detection {
	d, err := s.Classify(ctx, text)
	if err != nil {
		s.log.Warn("classifier failed, using fallback", "source", s.source, "err", err)
		return s.fallback(text)
	}
	return d
}

// Classify is Detect without the fallback: classifier failures are returned.
func (s *Service) Classify(ctx context.Context, text string) (Detection, error) {
	if strings.TrimSpace(text) == "" {
		return Detection{}, ErrEmptyText
	}
	if s.classifier == nil {
		tag := s.lexicon.Classify(text)
		return Detection{Label: string(tag), Mood: tag, Source: SourceLexicon}, nil
	}

	label, err := s.label(ctx, text)
	if err != nil {
		return Detection{}, err
	}
	return Detection{Label: label, Mood: mood.Normalize(label), Source: s.source}, nil
}

// label returns the lower-cased label of the remote classifier.
func (s *Service) label(ctx context.Context, text string) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}

	label, err := s.classifier.Classify(ctx, text)
	if err != nil {
		return "", err
	}

	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		label = "neutral"
	}
	s.log.Debug("detected emotion", "source", s.source, "label", label)
	return label, nil
}

func (s *Service) fallback(text string) Detection {
	if s.opts.FallbackToLexicon {
		tag := s.lexicon.Classify(text)
		return Detection{Label: string(tag), Mood: tag, Source: SourceLexicon, Degraded: true}
	}
	return Detection{Label: string(mood.Neutral), Mood: mood.Neutral, Source: s.source, Degraded: true}
}
