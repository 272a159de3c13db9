package translate

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultGoogleEndpointURL = "https://translate.googleapis.com/translate_a/single"

// Engine は1つのテキストを翻訳するエンジン。
type Engine interface {
	Translate(ctx context.Context, text, source, target string) (string, error)
}

// GoogleEngineConfig はGoogle翻訳エンジンの設定。
type GoogleEngineConfig struct {
	// テスト用にオーバーライド可能なURL
	EndpointURL string
	Timeout     time.Duration
}

// GoogleEngine はGoogle翻訳のWebエンドポイントを使用するエンジン。
// APIキー不要のgtxクライアントを使用する。
type GoogleEngine struct {
	endpointURL string
	client      *http.Client
}

// NewGoogleEngine はGoogleEngineを生成する。
func NewGoogleEngine(config GoogleEngineConfig) *GoogleEngine {
	if config.EndpointURL == "" {
		config.EndpointURL = defaultGoogleEndpointURL
	}
	if config.Timeout == 0 {
		config.Timeout = 15 * time.Second
	}
	return &GoogleEngine{
		endpointURL: config.EndpointURL,
		client:      &http.Client{Timeout: config.Timeout},
	}
}

// Translate はテキストを翻訳する。sourceには"auto"も指定できる。
func (e *GoogleEngine) Translate(ctx context.Context, text, source, target string) (string, error) {
	params := url.Values{
		"client": {"gtx"},
		"sl":     {source},
		"tl":     {target},
		"dt":     {"t"},
		"q":      {text},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpointURL+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to create translate request: %w", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read translate response: %w", err)
	}

	return parseGoogleResponse(body)
}

// parseGoogleResponse はgtxエンドポイントのネストした配列形式を解析する。
// 先頭要素がセグメント配列で、各セグメントの[0]が翻訳済みテキスト。
func parseGoogleResponse(body []byte) (string, error) {
	var payload []any
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("failed to parse translate response: %w", err)
	}
	if len(payload) == 0 {
		return "", fmt.Errorf("empty translate response")
	}

	segments, ok := payload[0].([]any)
	if !ok {
		return "", fmt.Errorf("unexpected translate response shape")
	}

	var sb strings.Builder
	for _, seg := range segments {
		parts, ok := seg.([]any)
		if !ok || len(parts) == 0 {
			continue
		}
		if translated, ok := parts[0].(string); ok {
			sb.WriteString(translated)
		}
	}

	result := sb.String()
	if strings.TrimSpace(result) == "" {
		return "", fmt.Errorf("translate response contained no text")
	}
	return result, nil
}

// compile-time interface check
var _ Engine = (*GoogleEngine)(nil)
