package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/openai/openai-go/option"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserPrompt(t *testing.T) {
	assert.Equal(t, "", userPrompt([]string{" ", ""}))
	assert.Equal(t, "Dashboard facts:\n- Records in view: 3\n- Total PnL: $250\n",
		userPrompt([]string{"Records in view: 3", "", "Total PnL: $250 "}))
}

func TestExplain(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4",
			"choices":[{"index":0,"finish_reason":"stop","message":{"role":"assistant","content":"  Greed days win more.  "}}]}`))
	}))
	defer srv.Close()

	a := NewAnalyst("test-key", option.WithBaseURL(srv.URL+"/"), option.WithMaxRetries(0))
	text, err := a.Explain(context.Background(), []string{"Greed win rate: median 55.0%"})
	require.NoError(t, err)
	assert.Equal(t, "Greed days win more.", text)

	assert.Equal(t, "gpt-4", got.Model)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Contains(t, got.Messages[1].Content, "Greed win rate")
}

func TestExplain_NoFacts(t *testing.T) {
	_, err := NewAnalyst("k").Explain(context.Background(), nil)
	assert.Error(t, err)
}
