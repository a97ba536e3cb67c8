package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// systemPrompt frames the assistant for Islamic Q&A. The generation itself
// is entirely upstream; this client only forwards.
const systemPrompt = "You are a knowledgeable and respectful assistant answering questions " +
	"about Islam. Base answers on the Qur'an and authentic hadith, say clearly " +
	"when a question requires a qualified scholar, and keep answers concise."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages []chatMessage `json:"messages"`
	Model    string        `json:"model"`
}

// ChatClient forwards a user message to the text-generation endpoint and
// returns the plain-text reply. No cache, no retries; one bounded attempt.
type ChatClient struct {
	base    string
	http    Doer
	timeout time.Duration
}

func NewChatClient(base string, client Doer, timeout time.Duration) *ChatClient {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ChatClient{base: base, http: client, timeout: timeout}
}

// Generate sends the user's message and returns the generated reply.
func (c *ChatClient) Generate(ctx context.Context, message string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	payload, err := json.Marshal(chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: message},
		},
		Model: "openai",
	})
	if err != nil {
		return "", errors.Wrap(err, "encode chat request")
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.base, bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "fetch chat reply")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "read body")
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &StatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return strings.TrimSpace(string(body)), nil
}
