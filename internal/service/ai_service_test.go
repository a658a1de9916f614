package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aiServiceFor(server *httptest.Server) *AIService {
	return &AIService{
		BaseURL: server.URL,
		APIKey:  "test-key",
		Model:   "test-model",
		Client:  &http.Client{Timeout: 5 * time.Second},
	}
}

func completionResponse(content string) string {
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"content": content}},
		},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestParseResumeDecodesStructuredOutput(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.Equal(t, "/chat/completions", r.URL.Path)

		content := `{"fullName":"Ada Lovelace","email":"ada@example.com","phone":"","summary":"Engineer","skills":["Python","SQL"],"education":[],"experience":[]}`
		w.Write([]byte(completionResponse(content)))
	}))
	defer server.Close()

	parsed, err := aiServiceFor(server).ParseResume(context.Background(), "resume text")
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "Ada Lovelace", parsed.FullName)
	assert.Equal(t, []string{"Python", "SQL"}, parsed.Skills)
}

func TestParseResumeStripsCodeFence(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		content := "```json\n{\"fullName\":\"Ada\",\"skills\":[]}\n```"
		w.Write([]byte(completionResponse(content)))
	}))
	defer server.Close()

	parsed, err := aiServiceFor(server).ParseResume(context.Background(), "resume text")
	require.NoError(t, err)
	assert.Equal(t, "Ada", parsed.FullName)
}

func TestParseResumeSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	_, err := aiServiceFor(server).ParseResume(context.Background(), "resume text")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limited")
}

func TestParseResumeRejectsGarbageOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(completionResponse("I am sorry, I cannot do that.")))
	}))
	defer server.Close()

	_, err := aiServiceFor(server).ParseResume(context.Background(), "resume text")
	assert.Error(t, err)
}
