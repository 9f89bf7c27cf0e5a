// Package ollama is the recognition client for a locally hosted OCR model
// served by an Ollama daemon. The daemon API is treated as an opaque
// contract: send image plus instruction, receive text or a structured
// error. One request per run, no retries.
package ollama

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

const defaultTimeout = 180 * time.Second

type Config struct {
	Host    string // e.g. http://127.0.0.1:11434
	Model   string
	Timeout time.Duration
}

type Client struct {
	host   string
	model  string
	client *http.Client
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		host:   strings.TrimRight(cfg.Host, "/"),
		model:  cfg.Model,
		client: &http.Client{Timeout: timeout},
	}
}

// Ollama API structures
type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Images  []string       `json:"images"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type showRequest struct {
	Model string `json:"model"`
}

type apiError struct {
	Error string `json:"error"`
}

// Preflight fails fast before the long recognition call: first that the
// daemon answers at all, then that the model is loaded. The two failure
// kinds map to different user remediation and are never conflated.
func (c *Client) Preflight(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.host+"/api/version", nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	resp.Body.Close()

	body, err := json.Marshal(showRequest{Model: c.model})
	if err != nil {
		return err
	}
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/show", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err = c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		json.NewDecoder(resp.Body).Decode(&apiErr)
		if strings.Contains(apiErr.Error, "not found") {
			return fmt.Errorf("%w: %s: %s", ErrModelMissing, c.model, apiErr.Error)
		}
		if apiErr.Error != "" {
			return fmt.Errorf("daemon error: %s", apiErr.Error)
		}
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}
	return nil
}

// Recognize submits the image and the mode's instruction to the daemon and
// returns the extracted text. A single attempt; transient failures surface
// to the caller.
func (c *Client) Recognize(ctx context.Context, imagePath string, mode Mode) (string, error) {
	imageData, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", imagePath, err)
	}

	request := generateRequest{
		Model:  c.model,
		Prompt: mode.Instruction(),
		Images: []string{base64.StdEncoding.EncodeToString(imageData)},
		Stream: false,
		Options: map[string]any{
			"temperature": 0.0,
		},
	}

	jsonData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %v", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+"/api/generate", bytes.NewReader(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrDaemonUnreachable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		json.NewDecoder(resp.Body).Decode(&apiErr)
		if strings.Contains(apiErr.Error, "not found") {
			return "", fmt.Errorf("%w: %s: %s", ErrModelMissing, c.model, apiErr.Error)
		}
		if apiErr.Error != "" {
			return "", fmt.Errorf("daemon error: %s", apiErr.Error)
		}
		return "", fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}

	var response generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response: %v", err)
	}

	text := cleanExtractedText(response.Response)
	if text == "" {
		return "", ErrNoText
	}
	return text, nil
}

var addedImageRe = regexp.MustCompile(`Added image '.*?'`)

// cleanExtractedText strips the "Added image '...'" echo some model
// wrappers prepend, then trims surrounding whitespace.
func cleanExtractedText(text string) string {
	return strings.TrimSpace(addedImageRe.ReplaceAllString(text, ""))
}
