package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"

	"github.com/zhouzirui/rantme/backend/internal/analysis/mood"
	"github.com/zhouzirui/rantme/backend/internal/config"
	"github.com/zhouzirui/rantme/backend/internal/service/emotion"
)

// ClassifyCmd runs the lexicon classifier.
type ClassifyCmd struct {
	Extended bool     `help:"Use the extended lexicon (tired, lonely, relieved, depressed)."`
	Text     []string `arg:"" help:"Text to classify."`
}

func (c *ClassifyCmd) Run(app *appContext) error {
	lexicon := mood.BasicLexicon()
	if c.Extended {
		lexicon = mood.ExtendedLexicon()
	}
	tag := lexicon.Classify(strings.Join(c.Text, " "))
	_, err := fmt.Fprintf(app.Out, "%s %s\n", tag, tag.Emoji())
	return err
}

// NormalizeCmd maps external labels.
type NormalizeCmd struct {
	Labels []string `arg:"" help:"Labels such as joy, anger or fear."`
}

func (c *NormalizeCmd) Run(app *appContext) error {
	for _, label := range c.Labels {
		if _, err := fmt.Fprintf(app.Out, "%s -> %s\n", label, mood.Normalize(label)); err != nil {
			return err
		}
	}
	return nil
}

// ThemeCmd prints a theme as JSON.
type ThemeCmd struct {
	Mood string `arg:"" help:"Mood tag."`
}

func (c *ThemeCmd) Run(app *appContext) error {
	tag, ok := mood.ParseTag(c.Mood)
	if !ok {
		return fmt.Errorf("unknown mood %q, expected one of %v", c.Mood, mood.AllTags())
	}
	return writeJSON(app.Out, mood.ResolveTheme(tag))
}

// DetectCmd runs the emotion provider selected by the environment.
type DetectCmd struct {
	Strict  bool          `help:"Fail instead of falling back when the provider errors."`
	Timeout time.Duration `help:"Overall timeout." default:"15s"`
	Text    []string      `arg:"" help:"Text to analyze."`
}

func (c *DetectCmd) Run(app *appContext) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.Timeout)
	defer cancel()

	var chatModel model.ChatModel
	if cfg.Emotion.Provider == config.ProviderLLM && cfg.AI.Enabled() {
		if chatModel, err = cfg.AI.NewChatModel(ctx); err != nil {
			return err
		}
	}

	svc, err := emotion.New(ctx, cfg.Emotion, chatModel, cfg.Mood.Lexicon())
	if err != nil {
		return err
	}

	text := strings.Join(c.Text, " ")
	if c.Strict {
		d, err := svc.Classify(ctx, text)
		if err != nil {
			return err
		}
		return writeJSON(app.Out, d)
	}
	return writeJSON(app.Out, svc.Detect(ctx, text))
}

// StatsCmd aggregates a mood log file.
type StatsCmd struct {
	File    string `arg:"" optional:"" help:"JSON-lines file of {date, mood, session} entries; stdin when omitted." type:"existingfile"`
	Scoring string `help:"Session score: average or sum." enum:"average,sum" default:"average"`
}

func (c *StatsCmd) Run(app *appContext) error {
	in := app.In
	if c.File != "" {
		f, err := os.Open(c.File)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	log, refs, err := readLog(in)
	if err != nil {
		return err
	}

	scoring, err := mood.ParseScoring(c.Scoring)
	if err != nil {
		return err
	}

	stats := mood.Aggregate(log, refs, scoring)
	for _, s := range stats.Sessions {
		if _, err := fmt.Fprintf(app.Out, "%-12s %6.2f  %s %s (%d)\n", s.Session, s.Score, s.Emoji, s.DominantMood, s.Entries); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintf(app.Out, "Weekly: %s (%d)\n", stats.Weekly.Display(), stats.Weekly.Score)
	return err
}

// readLog parses entries and lists sessions in order of first appearance.
func readLog(r io.Reader) (mood.Log, []mood.SessionRef, error) {
	var (
		log  mood.Log
		refs []mood.SessionRef
		seen = map[string]bool{}
	)

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var e mood.Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return mood.Log{}, nil, fmt.Errorf("line %d: %w", line, err)
		}
		if tag, ok := mood.ParseTag(string(e.Mood)); ok {
			e.Mood = tag
		} else {
			e.Mood = mood.Neutral
		}
		log.Append(e)
		if !seen[e.Session] {
			seen[e.Session] = true
			refs = append(refs, mood.SessionRef{ID: e.Session, Name: e.Session})
		}
	}
	if err := scanner.Err(); err != nil {
		return mood.Log{}, nil, err
	}
	return log, refs, nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
