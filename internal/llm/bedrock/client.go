package bedrock

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/smithy-go"
	smithyhttp "github.com/aws/smithy-go/transport/http"

	"archreview-backend/internal/llm"
)

const (
	defaultModelID = "amazon.nova-lite-v1:0"
	schemaVersion  = "messages-v1"

	// invokeTimeout bounds the whole model call.
	invokeTimeout = 300 * time.Second

	// Fixed inference parameters; output-shape stability depends on them.
	maxTokens   = 2048
	temperature = 0.7
	topP        = 0.8
)

// invokeAPI is the slice of the Bedrock Runtime surface the client uses, so
// tests can stub the transport.
type invokeAPI interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// Client implements llm.Client against Amazon Bedrock Runtime.
type Client struct {
	api     invokeAPI
	modelID string
}

// NewClient constructs a Bedrock-backed client using the default AWS
// credential chain.
func NewClient(ctx context.Context, region, modelID string) (*Client, error) {
	if strings.TrimSpace(modelID) == "" {
		modelID = defaultModelID
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &Client{
		api:     bedrockruntime.NewFromConfig(cfg),
		modelID: modelID,
	}, nil
}

// Wire types for the messages-v1 invocation schema.
type modelRequest struct {
	SchemaVersion   string          `json:"schemaVersion"`
	Messages        []message       `json:"messages"`
	System          []textBlock     `json:"system"`
	InferenceConfig inferenceConfig `json:"inferenceConfig"`
}

type message struct {
	Role    string         `json:"role"`
	Content []contentBlock `json:"content"`
}

type contentBlock struct {
	Image *imageBlock `json:"image,omitempty"`
	Text  string      `json:"text,omitempty"`
}

type imageBlock struct {
	Format string      `json:"format"`
	Source imageSource `json:"source"`
}

type imageSource struct {
	Bytes string `json:"bytes"`
}

type textBlock struct {
	Text string `json:"text"`
}

type inferenceConfig struct {
	MaxTokens     int      `json:"maxTokens"`
	Temperature   float64  `json:"temperature"`
	TopP          float64  `json:"topP"`
	StopSequences []string `json:"stopSequences"`
}

type modelResponse struct {
	Output *struct {
		Message *struct {
			Content []struct {
				Text string `json:"text"`
			} `json:"content"`
		} `json:"message"`
	} `json:"output"`
}

// AnalyzeDiagram performs one InvokeModel call under the fixed timeout and
// returns the first text content block of the reply. The outbound call is
// abandoned promptly when the caller cancels ctx.
func (c *Client) AnalyzeDiagram(ctx context.Context, input llm.AnalyzeInput) (string, error) {
	body, err := json.Marshal(buildRequest(input))
	if err != nil {
		return "", fmt.Errorf("marshal model request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, invokeTimeout)
	defer cancel()

	out, err := c.api.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", classifyInvokeError(err)
	}
	return extractText(out.Body)
}

func buildRequest(input llm.AnalyzeInput) modelRequest {
	return modelRequest{
		SchemaVersion: schemaVersion,
		Messages: []message{{
			Role: "user",
			Content: []contentBlock{
				{Image: &imageBlock{
					Format: input.ImageFormat,
					Source: imageSource{Bytes: input.ImageBase64},
				}},
				{Text: analysisPrompt},
			},
		}},
		System: []textBlock{{Text: systemPrompt}},
		InferenceConfig: inferenceConfig{
			MaxTokens:     maxTokens,
			Temperature:   temperature,
			TopP:          topP,
			StopSequences: []string{},
		},
	}
}

func classifyInvokeError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &llm.UpstreamError{
			Code:    llm.ErrCodeTimeout,
			Details: fmt.Sprintf("model invocation exceeded %s", invokeTimeout),
			Err:     err,
		}
	}
	var respErr *smithyhttp.ResponseError
	if errors.As(err, &respErr) {
		return &llm.UpstreamError{
			Code:       llm.ErrCodeServiceError,
			StatusCode: respErr.HTTPStatusCode(),
			Details:    err.Error(),
			Err:        err,
		}
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return &llm.UpstreamError{
			Code:    llm.ErrCodeServiceError,
			Details: fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage()),
			Err:     err,
		}
	}
	return &llm.UpstreamError{
		Code:    llm.ErrCodeServiceError,
		Details: err.Error(),
		Err:     err,
	}
}

// extractText pulls the first text content block out of the reply body. Any
// other shape is rejected here; the parser never sees an unvalidated reply.
func extractText(body []byte) (string, error) {
	var parsed modelResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &llm.UpstreamError{
			Code:    llm.ErrCodeMalformedModelResponse,
			Details: fmt.Sprintf("decode model response: %v", err),
			Err:     err,
		}
	}
	if parsed.Output == nil || parsed.Output.Message == nil || len(parsed.Output.Message.Content) == 0 {
		return "", &llm.UpstreamError{
			Code:    llm.ErrCodeMalformedModelResponse,
			Details: "response has no output message content",
		}
	}
	text := parsed.Output.Message.Content[0].Text
	if strings.TrimSpace(text) == "" {
		return "", &llm.UpstreamError{
			Code:    llm.ErrCodeMalformedModelResponse,
			Details: "first content block is empty",
		}
	}
	return text, nil
}

var _ llm.Client = (*Client)(nil)
