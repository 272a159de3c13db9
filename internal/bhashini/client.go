// Package bhashini はBhashini（ULCAパイプライン）の音声認識・音声合成クライアント。
package bhashini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIURL = "https://dhruva-api.bhashini.gov.in/services/inference/pipeline"

// Config はBhashiniクライアントの設定。
type Config struct {
	// テスト用にオーバーライド可能なURL
	APIURL  string
	APIKey  string
	UserID  string
	Timeout time.Duration
}

// Client はULCA推論パイプラインのHTTPクライアント。
type Client struct {
	apiURL string
	apiKey string
	userID string
	client *http.Client
}

// NewClient はClientを生成する。
func NewClient(config Config) *Client {
	if config.APIURL == "" {
		config.APIURL = defaultAPIURL
	}
	if config.Timeout == 0 {
		config.Timeout = 60 * time.Second
	}
	return &Client{
		apiURL: config.APIURL,
		apiKey: config.APIKey,
		userID: config.UserID,
		client: &http.Client{Timeout: config.Timeout},
	}
}

// pipelineRequest はULCA推論パイプラインのリクエスト。
type pipelineRequest struct {
	PipelineTasks []pipelineTask `json:"pipelineTasks"`
	InputData     inputData      `json:"inputData"`
}

type pipelineTask struct {
	TaskType string     `json:"taskType"`
	Config   taskConfig `json:"config"`
}

type taskConfig struct {
	Language languageConfig `json:"language"`
	Gender   string         `json:"gender,omitempty"`
}

type languageConfig struct {
	SourceLanguage string `json:"sourceLanguage"`
}

type inputData struct {
	Input []textInput  `json:"input,omitempty"`
	Audio []audioInput `json:"audio,omitempty"`
}

type textInput struct {
	Source string `json:"source"`
}

type audioInput struct {
	AudioContent string `json:"audioContent"`
}

// pipelineResponse はULCA推論パイプラインのレスポンス。
type pipelineResponse struct {
	PipelineResponse []struct {
		TaskType string `json:"taskType"`
		Output   []struct {
			Source string `json:"source"`
		} `json:"output"`
		Audio []struct {
			AudioContent string `json:"audioContent"`
		} `json:"audio"`
	} `json:"pipelineResponse"`
}

// Transcribe は音声を指定言語のテキストへ変換する。
func (c *Client) Transcribe(ctx context.Context, audio []byte, lang string) (string, error) {
	reqBody := pipelineRequest{
		PipelineTasks: []pipelineTask{
			{
				TaskType: "asr",
				Config:   taskConfig{Language: languageConfig{SourceLanguage: lang}},
			},
		},
		InputData: inputData{
			Audio: []audioInput{{AudioContent: base64.StdEncoding.EncodeToString(audio)}},
		},
	}

	resp, err := c.call(ctx, reqBody)
	if err != nil {
		return "", err
	}

	for _, task := range resp.PipelineResponse {
		if task.TaskType == "asr" && len(task.Output) > 0 {
			return task.Output[0].Source, nil
		}
	}
	return "", fmt.Errorf("no transcription in pipeline response")
}

// Synthesize はテキストを指定言語・話者性別の音声へ変換する。
func (c *Client) Synthesize(ctx context.Context, text, lang, gender string) ([]byte, error) {
	reqBody := pipelineRequest{
		PipelineTasks: []pipelineTask{
			{
				TaskType: "tts",
				Config: taskConfig{
					Language: languageConfig{SourceLanguage: lang},
					Gender:   gender,
				},
			},
		},
		InputData: inputData{
			Input: []textInput{{Source: text}},
		},
	}

	resp, err := c.call(ctx, reqBody)
	if err != nil {
		return nil, err
	}

	for _, task := range resp.PipelineResponse {
		if task.TaskType == "tts" && len(task.Audio) > 0 {
			audio, err := base64.StdEncoding.DecodeString(task.Audio[0].AudioContent)
			if err != nil {
				return nil, fmt.Errorf("failed to decode audio content: %w", err)
			}
			return audio, nil
		}
	}
	return nil, fmt.Errorf("no audio in pipeline response")
}

func (c *Client) call(ctx context.Context, reqBody pipelineRequest) (*pipelineResponse, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to encode pipeline request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create pipeline request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", c.apiKey)
	}
	if c.userID != "" {
		req.Header.Set("userID", c.userID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pipeline request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("pipeline endpoint returned status %d: %s", resp.StatusCode, body)
	}

	var parsed pipelineResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to parse pipeline response: %w", err)
	}
	return &parsed, nil
}
