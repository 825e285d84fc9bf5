package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// AzureProvider talks to an Azure OpenAI chat-completions deployment.
type AzureProvider struct {
	Endpoint   string // resource endpoint, e.g. https://myres.openai.azure.com/
	APIKey     string
	Deployment string
	APIVersion string
	Client     *http.Client
}

type azureMsg struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type azureChatReq struct {
	Messages []azureMsg `json:"messages"`
}

type azureChatResp struct {
	Choices []struct {
		Message azureMsg `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

func NewAzureProvider(endpoint, apiKey, deployment, apiVersion string) *AzureProvider {
	if apiVersion == "" {
		apiVersion = "2024-02-15-preview"
	}
	return &AzureProvider{
		Endpoint:   endpoint,
		APIKey:     apiKey,
		Deployment: deployment,
		APIVersion: apiVersion,
		Client:     &http.Client{Timeout: 90 * time.Second},
	}
}

func (p *AzureProvider) Chat(ctx context.Context, messages []Message) (string, error) {
	if p.Client == nil {
		return "", errors.New("azure: http client is nil")
	}
	if strings.TrimSpace(p.APIKey) == "" {
		return "", errors.New("azure: api key is required")
	}
	if strings.TrimSpace(p.Endpoint) == "" || strings.TrimSpace(p.Deployment) == "" {
		return "", errors.New("azure: endpoint and deployment are required")
	}

	reqBody := azureChatReq{
		Messages: func() []azureMsg {
			out := make([]azureMsg, 0, len(messages))
			for _, m := range messages {
				out = append(out, azureMsg{Role: m.Role, Content: m.Content})
			}
			return out
		}(),
	}

	b, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	u := fmt.Sprintf("%s/openai/deployments/%s/chat/completions?api-version=%s",
		strings.TrimRight(p.Endpoint, "/"), p.Deployment, url.QueryEscape(p.APIVersion))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", p.APIKey)

	resp, err := p.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4*1024))
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = fmt.Sprintf("status %d", resp.StatusCode)
		}
		return "", fmt.Errorf("azure: %s", msg)
	}

	var decoded azureChatResp
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return "", err
	}
	if decoded.Error != nil && decoded.Error.Message != "" {
		return "", errors.New(decoded.Error.Message)
	}
	if len(decoded.Choices) == 0 {
		return "", errors.New("azure: empty response")
	}
	return decoded.Choices[0].Message.Content, nil
}
