package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"technicia_backend/internal/config"
)

// AIService talks to an OpenAI-compatible chat-completions endpoint. Only
// non-streaming calls are used; resume parsing is a single request/response.
type AIService struct {
	BaseURL string
	APIKey  string
	Model   string
	Client  *http.Client
}

func NewAIService(cfg *config.Config) *AIService {
	return &AIService{
		BaseURL: strings.TrimRight(cfg.AI.BaseURL, "/"),
		APIKey:  cfg.AI.APIKey,
		Model:   cfg.AI.Model,
		Client:  &http.Client{Timeout: 60 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// ParsedResume is the structured extraction handed back to the resume
// pipeline.
type ParsedResume struct {
	FullName  string   `json:"fullName"`
	Email     string   `json:"email"`
	Phone     string   `json:"phone"`
	Summary   string   `json:"summary"`
	Skills    []string `json:"skills"`
	Education []struct {
		Institution string `json:"institution"`
		Degree      string `json:"degree"`
		Year        string `json:"year"`
	} `json:"education"`
	Experience []struct {
		Company  string `json:"company"`
		Title    string `json:"title"`
		Duration string `json:"duration"`
	} `json:"experience"`
}

const resumePrompt = `Extract structured data from the resume text below.
Respond with a single JSON object and nothing else, using exactly these keys:
fullName, email, phone, summary, skills (array of strings),
education (array of {institution, degree, year}),
experience (array of {company, title, duration}).
Use empty strings or empty arrays for anything not present.

Resume text:
`

// ParseResume sends the extracted resume text to the model and decodes the
// structured JSON it returns.
func (s *AIService) ParseResume(ctx context.Context, resumeText string) (*ParsedResume, error) {
	content, err := s.complete(ctx, resumePrompt+resumeText)
	if err != nil {
		return nil, err
	}

	var parsed ParsedResume
	if err := json.Unmarshal([]byte(stripCodeFence(content)), &parsed); err != nil {
		return nil, fmt.Errorf("model returned unparseable JSON: %w", err)
	}
	return &parsed, nil
}

func (s *AIService) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: s.Model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.APIKey)

	resp, err := s.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode AI response: %w", err)
	}
	if parsed.Error != nil {
		return "", fmt.Errorf("AI error: %s", parsed.Error.Message)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI endpoint returned status %d", resp.StatusCode)
	}
	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("AI response has no choices")
	}
	return parsed.Choices[0].Message.Content, nil
}

// stripCodeFence removes a surrounding markdown code fence if the model added
// one despite the prompt.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
