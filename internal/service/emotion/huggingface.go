package emotion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
)

// HuggingFaceClassifier calls a text-classification model on the HuggingFace
// inference API.
type HuggingFaceClassifier struct {
	url        string
	apiKey     string
	httpClient *http.Client
}

// NewHuggingFaceClassifier creates a classifier. httpClient may be nil.
func NewHuggingFaceClassifier(url, apiKey string, httpClient *http.Client) (*HuggingFaceClassifier, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("huggingface inference url is required")
	}
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HuggingFaceClassifier{url: url, apiKey: apiKey, httpClient: httpClient}, nil
}

type hfLabel struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Classify returns the highest scoring label, lower-cased. A well-formed but
// unexpected payload yields "neutral".
func (c *HuggingFaceClassifier) Classify(ctx context.Context, text string) (string, error) {
	body, err := json.Marshal(map[string]string{"inputs": text})
	if err != nil {
		return "", fmt.Errorf("encode inference request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("inference request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read inference response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("inference error: status %d: %s", resp.StatusCode, truncate(string(payload), 200))
	}

	candidates, err := parseInference(payload)
	if err != nil {
		return "", err
	}
	return topLabel(candidates), nil
}

// parseInference accepts [[{label, score}]] and the flat [{label, score}] form.
func parseInference(payload []byte) ([]hfLabel, error) {
	var raw any
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("decode inference response: %w", err)
	}

	outer, ok := raw.([]any)
	if !ok || len(outer) == 0 {
		return nil, nil
	}

	var nested []json.RawMessage
	if _, isList := outer[0].([]any); isList {
		var batches [][]json.RawMessage
		if err := json.Unmarshal(payload, &batches); err != nil {
			return nil, nil
		}
		nested = batches[0]
	} else {
		if err := json.Unmarshal(payload, &nested); err != nil {
			return nil, nil
		}
	}

	labels := make([]hfLabel, 0, len(nested))
	for _, item := range nested {
		var l hfLabel
		if err := json.Unmarshal(item, &l); err != nil {
			continue
		}
		labels = append(labels, l)
	}
	return labels, nil
}

func topLabel(candidates []hfLabel) string {
	filtered := candidates[:0:0]
	for _, c := range candidates {
		if strings.TrimSpace(c.Label) != "" {
			filtered = append(filtered, c)
		}
	}
	if len(filtered) == 0 {
		return "neutral"
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].Score > filtered[j].Score
	})
	return strings.ToLower(strings.TrimSpace(filtered[0].Label))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
