package gemini

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// GenerationError means the remote model call failed or returned no image
// payload. It is always propagated; the caller never substitutes a default
// image.
type GenerationError struct {
	Reason string
	Err    error
}

func (e *GenerationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("generation failed: %s: %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("generation failed: %s", e.Reason)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// Client calls Gemini to edit images. The remote model is a black box:
// single request, single response, no streaming.
type Client struct {
	apiKey string
	model  string
}

// NewClient returns a transformation client for the given image-capable
// model. A missing API key fails at call time, not here.
func NewClient(apiKey, model string) *Client {
	return &Client{apiKey: apiKey, model: model}
}

// Transform sends the base image plus a natural-language instruction and
// returns the edited image as a PNG data URI.
func (c *Client) Transform(ctx context.Context, baseImage, instruction, category string) (string, error) {
	if c.apiKey == "" {
		return "", &GenerationError{Reason: "GEMINI_API_KEY is not set"}
	}

	subtype, imgData, err := ParseDataURI(baseImage)
	if err != nil {
		return "", &GenerationError{Reason: "invalid base image", Err: err}
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return "", &GenerationError{Reason: "failed to create client", Err: err}
	}
	defer client.Close()

	prompt := fmt.Sprintf(
		"Apply this %s change to the person in the image: %s. Maintain the person's facial features and identity exactly, only changing the %s. Return the edited image.",
		category, instruction, strings.ToLower(category))

	model := client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx,
		genai.ImageData(subtype, imgData),
		genai.Text(prompt),
	)
	if err != nil {
		return "", &GenerationError{Reason: "remote call failed", Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", &GenerationError{Reason: "empty response"}
	}

	// First inline image wins; text parts are commentary we don't need.
	for _, part := range resp.Candidates[0].Content.Parts {
		if blob, ok := part.(genai.Blob); ok {
			return PNGDataURI(blob.Data), nil
		}
	}
	return "", &GenerationError{Reason: "no image data returned"}
}

// FallbackThumbnailURL is served whenever a live thumbnail lookup fails or
// is unavailable.
const FallbackThumbnailURL = "https://images.unsplash.com/photo-1515886657613-9f3515b0c78f?q=80&w=400"

var urlPattern = regexp.MustCompile(`https?://[^\s"'<>)]+`)

// FetchStyleThumbnail asks the model for a representative stock-photo URL
// for a style name. Best effort only: any failure falls back to a static
// image so the catalog always renders.
func (c *Client) FetchStyleThumbnail(ctx context.Context, itemName string) string {
	client, err := genai.NewClient(ctx, option.WithAPIKey(c.apiKey))
	if err != nil {
		return FallbackThumbnailURL
	}
	defer client.Close()

	prompt := fmt.Sprintf(
		"Reply with one direct, publicly accessible image URL representing the fashion style %q. Prefer studio photography with a clean background. Reply with the URL only.",
		itemName)

	model := client.GenerativeModel(c.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return FallbackThumbnailURL
	}

	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			if url := urlPattern.FindString(string(txt)); url != "" {
				return url
			}
		}
	}
	return FallbackThumbnailURL
}
