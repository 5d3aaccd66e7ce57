// Package genai calls the generative image API that produces the studio
// product photos. It implements studio.Generator over the generateContent
// REST endpoint.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prodshot/prodshot/internal/client/studio"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// Generation failure modes callers may want to tell apart from plain
// transport errors.
var (
	ErrNoCandidates = errors.New("model returned no candidates")
	ErrNoImageParts = errors.New("model response contains no image data")
)

// Client calls the generateContent endpoint for one configured model.
type Client struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(apiKey, model string) *Client {
	return &Client{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}
}

// NewClientWithBaseURL overrides the API host, used in tests.
func NewClientWithBaseURL(apiKey, model, baseURL string) *Client {
	c := NewClient(apiKey, model)
	c.baseURL = baseURL
	return c
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generationConfig struct {
	ResponseModalities []string `json:"responseModalities"`
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type candidate struct {
	Content content `json:"content"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

// BuildPrompt renders the generation instructions for the given model
// configuration: four studio photos of a model of the requested gender and
// age using the product, with strict product fidelity.
func BuildPrompt(cfg studio.ModelConfig) string {
	var subject string
	switch cfg.Gender {
	case studio.GenderMasculine:
		subject = "a masculine model"
	case studio.GenderNeutral:
		subject = "a gender-neutral model"
	default:
		subject = "a feminine model"
	}

	return fmt.Sprintf(`Generate 4 professional, high-quality photos. Each photo must show %s, approximately %d years old, using the provided product.

The photos must have different, dynamic angles and poses, on a neutral, minimalist studio background. The lighting must be professional and appealing.

The main goal is to create purchase desire, highlighting the product elegantly.

IMPORTANT: Recreate the product with absolute fidelity to the details of the original image. Completely ignore the background and any other objects in the original photo, focusing exclusively on the product.`, subject, cfg.Age)
}

// Generate sends the product image plus the rendered prompt and returns
// the base64 payloads of every image part in the first candidate, in
// response order.
func (c *Client) Generate(ctx context.Context, image studio.UploadedImage, cfg studio.ModelConfig) ([]string, error) {
	reqBody := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{MimeType: image.MimeType, Data: image.Base64}},
				{Text: BuildPrompt(cfg)},
			},
		}},
		GenerationConfig: generationConfig{ResponseModalities: []string{"IMAGE", "TEXT"}},
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("generation request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("generation request: status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return nil, fmt.Errorf("decode generation response: %w", err)
	}

	if len(genResp.Candidates) == 0 {
		return nil, ErrNoCandidates
	}

	var payloads []string
	for _, p := range genResp.Candidates[0].Content.Parts {
		if p.InlineData != nil && p.InlineData.Data != "" {
			payloads = append(payloads, p.InlineData.Data)
		}
	}
	if len(payloads) == 0 {
		return nil, ErrNoImageParts
	}

	return payloads, nil
}
