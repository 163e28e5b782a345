package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/bryanwahyu/resume-analyzer/internal/domain/ai"
	"github.com/bryanwahyu/resume-analyzer/internal/infra/ai/prompt"
	"github.com/bryanwahyu/resume-analyzer/internal/logger"
)

const maxTokens = 1024

// SourceOpenAI marks reviews produced by the OpenAI API.
const SourceOpenAI = "openai"

type chatAPI interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

type Client struct {
	api   chatAPI
	Model string
}

func NewClient(apiKey, model string) *Client {
	return &Client{api: openai.NewClient(apiKey), Model: model}
}

func (c *Client) Review(ctx context.Context, in ai.ReviewInput) (ai.Review, error) {
	model := c.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	req := openai.ChatCompletionRequest{
		Model: model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.GetSystemPrompt()},
			{Role: openai.ChatMessageRoleUser, Content: prompt.GetUserPrompt(in.Text, in.Score, in.Improvements)},
		},
	}
	// For reasoning models (o1/o3/o4/gpt-5*) use MaxCompletionTokens instead of MaxTokens
	if strings.HasPrefix(model, "o1") || strings.HasPrefix(model, "o3") || strings.HasPrefix(model, "o4") || strings.HasPrefix(model, "gpt-5") {
		req.MaxCompletionTokens = maxTokens
	} else {
		req.MaxTokens = maxTokens
	}

	resp, err := c.api.CreateChatCompletion(ctx, req)
	if err != nil {
		if isQuota(err) {
			return ai.Review{}, fmt.Errorf("%w: %v", ai.ErrQuotaExceeded, err)
		}
		return ai.Review{}, fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return ai.Review{}, ai.ErrEmptyResponse
	}

	content := resp.Choices[0].Message.Content
	var out ai.Review
	if err := json.Unmarshal([]byte(content), &out); err != nil {
		return ai.Review{}, fmt.Errorf("decode review %q: %w", logger.TruncateForLog(content, 200), err)
	}
	if out.Strengths == nil {
		out.Strengths = []string{}
	}
	if out.Suggestions == nil {
		out.Suggestions = []string{}
	}
	out.Source = SourceOpenAI
	return out, nil
}

func isQuota(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode == http.StatusTooManyRequests || apiErr.Type == "insufficient_quota"
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode == http.StatusTooManyRequests
	}
	return false
}
