package advice

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sashabaranov/go-openai"

	apperrors "algotrader/internal/errors"
	"algotrader/internal/models"
)

// completer abstracts the chat completion call for testing.
type completer interface {
	CompleteWithSystem(ctx context.Context, system, prompt string) (string, error)
}

// OpenAIAdvisor implements Advisor using the OpenAI chat completion API.
type OpenAIAdvisor struct {
	completer completer
}

// openAICompleter wraps the OpenAI client behind the completer interface.
type openAICompleter struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

func (c *openAICompleter) CompleteWithSystem(ctx context.Context, system, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.model,
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from openai")
	}
	return resp.Choices[0].Message.Content, nil
}

// NewOpenAIAdvisor creates an Advisor backed by the OpenAI API.
func NewOpenAIAdvisor(apiKey, model string, temperature float64, maxTokens int) *OpenAIAdvisor {
	return &OpenAIAdvisor{
		completer: &openAICompleter{
			client:      openai.NewClient(apiKey),
			model:       model,
			temperature: float32(temperature),
			maxTokens:   maxTokens,
		},
	}
}

var _ Advisor = (*OpenAIAdvisor)(nil)

// Advise sends one completion per request and decodes the JSON payload.
// Provider failures are returned as-is inside an AdviceError; there is no
// retry, caching, or internal timeout.
func (a *OpenAIAdvisor) Advise(ctx context.Context, req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidRequest, err.Error())
	}

	var prompt string
	switch req.Kind {
	case KindSuggestion:
		prompt = suggestionPrompt(req)
	case KindPicks:
		prompt = picksPrompt(req)
	case KindFinder:
		prompt = finderPrompt(req)
	case KindBacktest:
		prompt = backtestPrompt(req)
	}

	raw, err := a.completer.CompleteWithSystem(ctx, systemPrompt, prompt)
	if err != nil {
		return nil, apperrors.NewAdviceError(string(req.Kind), req.Instrument, err)
	}

	payload := stripJSONFences(raw)
	result := &Result{Kind: req.Kind}

	switch req.Kind {
	case KindSuggestion:
		var s models.StrategySuggestion
		if err := json.Unmarshal([]byte(payload), &s); err != nil {
			return nil, apperrors.NewAdviceError(string(req.Kind), req.Instrument, fmt.Errorf("decoding response: %w", err))
		}
		result.Suggestion = &s
	case KindPicks:
		var picks []models.OptionPick
		if err := json.Unmarshal([]byte(payload), &picks); err != nil {
			return nil, apperrors.NewAdviceError(string(req.Kind), req.Instrument, fmt.Errorf("decoding response: %w", err))
		}
		result.Picks = picks
	case KindFinder:
		var found []models.FoundStrategy
		if err := json.Unmarshal([]byte(payload), &found); err != nil {
			return nil, apperrors.NewAdviceError(string(req.Kind), req.Instrument, fmt.Errorf("decoding response: %w", err))
		}
		result.Strategies = found
	case KindBacktest:
		var bt models.BacktestResult
		if err := json.Unmarshal([]byte(payload), &bt); err != nil {
			return nil, apperrors.NewAdviceError(string(req.Kind), req.Instrument, fmt.Errorf("decoding response: %w", err))
		}
		result.Backtest = &bt
	}

	return result, nil
}
