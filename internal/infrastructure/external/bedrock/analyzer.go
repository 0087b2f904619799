package bedrock

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const anthropicVersion = "bedrock-2023-05-31"

// API is the subset of the Bedrock runtime client used by Analyzer
type API interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Options are the generation parameters sent with every prompt
type Options struct {
	ModelID     string
	MaxTokens   int
	Temperature float64
}

// Analyzer sends prompts to an Anthropic model hosted on Amazon Bedrock
type Analyzer struct {
	client API
	opts   Options
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type invokeRequest struct {
	AnthropicVersion string    `json:"anthropic_version"`
	MaxTokens        int       `json:"max_tokens"`
	Temperature      float64   `json:"temperature"`
	Messages         []message `json:"messages"`
}

type invokeResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
}

// NewAnalyzer builds an analyzer from an AWS config
func NewAnalyzer(awsCfg aws.Config, opts Options) *Analyzer {
	return NewAnalyzerWithClient(bedrockruntime.NewFromConfig(awsCfg), opts)
}

// NewAnalyzerWithClient wraps an existing client
func NewAnalyzerWithClient(client API, opts Options) *Analyzer {
	return &Analyzer{client: client, opts: opts}
}

// Generate implements repositories.GenerativeAnalyzer
func (a *Analyzer) Generate(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(invokeRequest{
		AnthropicVersion: anthropicVersion,
		MaxTokens:        a.opts.MaxTokens,
		Temperature:      a.opts.Temperature,
		Messages:         []message{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("encode bedrock request: %w", err)
	}

	out, err := a.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(a.opts.ModelID),
		Body:        body,
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("invoke model %s: %w", a.opts.ModelID, err)
	}

	var resp invokeResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("decode bedrock response: %w", err)
	}
	if len(resp.Content) == 0 {
		return "", fmt.Errorf("empty response from bedrock")
	}
	return resp.Content[0].Text, nil
}
