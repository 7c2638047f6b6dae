package emotion

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newHFServer(t *testing.T, status int, body string) (*httptest.Server, *map[string]string) {
	t.Helper()
	seen := map[string]string{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen["auth"] = r.Header.Get("Authorization")
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		seen["inputs"] = payload["inputs"]
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestHuggingFacePicksTopScore(t *testing.T) {
	srv, seen := newHFServer(t, http.StatusOK, `[[{"label":"joy","score":0.1},{"label":"Anger","score":0.8},{"label":"","score":0.95}]]`)
	client, err := NewHuggingFaceClassifier(srv.URL, "hf_key", srv.Client())
	require.NoError(t, err)

	label, err := client.Classify(context.Background(), "I am furious")
	require.NoError(t, err)
	assert.Equal(t, "anger", label)
	assert.Equal(t, "Bearer hf_key", (*seen)["auth"])
	assert.Equal(t, "I am furious", (*seen)["inputs"])
}

func TestHuggingFaceFlatPayload(t *testing.T) {
	srv, _ := newHFServer(t, http.StatusOK, `[{"label":"sadness","score":0.9},{"label":"joy","score":0.05}]`)
	client, err := NewHuggingFaceClassifier(srv.URL, "", srv.Client())
	require.NoError(t, err)

	label, err := client.Classify(context.Background(), "sigh")
	require.NoError(t, err)
	assert.Equal(t, "sadness", label)
}

func TestHuggingFaceUnexpectedShapeIsNeutral(t *testing.T) {
	for _, body := range []string{`[]`, `{"error":"loading"}`, `[[]]`, `[[{"label":"","score":1}]]`} {
		srv, _ := newHFServer(t, http.StatusOK, body)
		client, err := NewHuggingFaceClassifier(srv.URL, "", srv.Client())
		require.NoError(t, err)

		label, err := client.Classify(context.Background(), "x")
		require.NoError(t, err, body)
		assert.Equal(t, "neutral", label, body)
	}
}

func TestHuggingFaceErrors(t *testing.T) {
	srv, _ := newHFServer(t, http.StatusServiceUnavailable, `model loading`)
	client, err := NewHuggingFaceClassifier(srv.URL, "", srv.Client())
	require.NoError(t, err)
	_, err = client.Classify(context.Background(), "x")
	assert.ErrorContains(t, err, "status 503")

	srv, _ = newHFServer(t, http.StatusOK, `not json`)
	client, err = NewHuggingFaceClassifier(srv.URL, "", srv.Client())
	require.NoError(t, err)
	_, err = client.Classify(context.Background(), "x")
	assert.Error(t, err)

	_, err = NewHuggingFaceClassifier(" ", "", nil)
	assert.Error(t, err)
}

func TestParseClassifierOutput(t *testing.T) {
	p, err := parseClassifierOutput("Sure! {\"label\": \"fear\", \"confidence\": 0.7} done")
	require.NoError(t, err)
	assert.Equal(t, "fear", p.Label)

	_, err = parseClassifierOutput("no json here")
	assert.Error(t, err)
}
