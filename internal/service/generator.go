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

	"english_hub/internal/config"
	"english_hub/internal/middleware"
	"english_hub/internal/model"
)

// Generator は英会話練習用のテキスト生成バックエンドを抽象化します
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// --- LogGenerator ---

// LogGenerator は外部APIを呼ばず固定文を返します。ローカル開発用。
type LogGenerator struct{}

func (g *LogGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	middleware.GetLogger(ctx).Info("--- Generating text (LogGenerator) ---", "prompt", prompt)
	return "This is a placeholder response. Configure the Ollama generator to get real feedback.", nil
}

// --- OllamaGenerator ---

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// OllamaGenerator は Ollama の /api/generate を呼び出す実装です
type OllamaGenerator struct {
	cfg    *config.OllamaConfig
	client *http.Client
}

func NewOllamaGenerator(cfg *config.OllamaConfig) *OllamaGenerator {
	return &OllamaGenerator{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

func (g *OllamaGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	logger := middleware.GetLogger(ctx)

	reqBody := ollamaGenerateRequest{
		Model:  g.cfg.Model,
		Prompt: prompt,
		Stream: false,
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("OllamaGenerator.Generate: marshal request: %w", err)
	}

	url := strings.TrimRight(g.cfg.URL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("OllamaGenerator.Generate: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		logger.Error("Failed to call Ollama API", "error", err, "url", url)
		return "", model.NewAppError("AI_UNAVAILABLE", "AIサービスに接続できませんでした。", "", model.ErrInternalServer)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		logger.Error("Ollama API returned non-OK status",
			"status", resp.StatusCode,
			"body", string(body),
		)
		return "", model.NewAppError("AI_UNAVAILABLE", "AIサービスがエラーを返しました。", "", model.ErrInternalServer)
	}

	var genResp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		logger.Error("Failed to decode Ollama API response", "error", err)
		return "", model.NewAppError("AI_UNAVAILABLE", "AIサービスの応答を解釈できませんでした。", "", model.ErrInternalServer)
	}

	return genResp.Response, nil
}

// NewGenerator は設定に応じて生成バックエンドを選択します
func NewGenerator(cfg *config.Config) Generator {
	if cfg.Ollama.URL == "" {
		return &LogGenerator{}
	}
	return NewOllamaGenerator(&cfg.Ollama)
}
