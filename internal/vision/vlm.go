// Package vision 调用多模态大模型读取交易终端截图。
package vision

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"xiadan-agent/internal/config"
)

// TextRegion 是一段带位置的识别文本，坐标相对截图左上角。
type TextRegion struct {
	Text   string `json:"text"`
	Left   int    `json:"left"`
	Top    int    `json:"top"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Backend 是视觉能力的抽象，便于测试时替换为固定应答。
type Backend interface {
	// Describe 按提示词描述图片，返回模型原文。
	Describe(ctx context.Context, imagePath, prompt string) (string, error)
	// Recognize 识别图片中的文字及其位置。
	Recognize(ctx context.Context, imagePath string) ([]TextRegion, error)
}

const ocrPrompt = `识别图片中的所有文字。只输出JSON数组，每个元素形如：
{"text": "文字内容", "left": 0, "top": 0, "width": 0, "height": 0}
坐标为文字区域相对图片左上角的像素位置。不要输出任何解释。`

// VLMClient 通过 DashScope 的 OpenAI 兼容接口调用多模态模型。
type VLMClient struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

var _ Backend = (*VLMClient)(nil)

// NewVLMClient 创建视觉模型客户端。
func NewVLMClient(cfg config.VisionConfig, logger *zap.Logger) (*VLMClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("缺少视觉模型 API Key")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &VLMClient{
		client: openai.NewClientWithConfig(clientCfg),
		model:  cfg.Model,
		logger: logger,
	}, nil
}

// Describe 把图片和提示词发给模型，返回回复原文。
func (c *VLMClient) Describe(ctx context.Context, imagePath, prompt string) (string, error) {
	dataURI, err := encodeImage(imagePath)
	if err != nil {
		return "", err
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleUser,
				MultiContent: []openai.ChatMessagePart{
					{Type: openai.ChatMessagePartTypeText, Text: prompt},
					{
						Type:     openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
					},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("调用视觉模型失败: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("视觉模型返回空结果")
	}

	content := resp.Choices[0].Message.Content
	c.logger.Debug("视觉模型应答",
		zap.String("model", c.model),
		zap.Int("chars", len(content)),
	)
	return content, nil
}

// Recognize 用模型做 OCR，返回文字区域列表。解析失败时返回错误，
// 调用方自行决定是否降级。
func (c *VLMClient) Recognize(ctx context.Context, imagePath string) ([]TextRegion, error) {
	content, err := c.Describe(ctx, imagePath, ocrPrompt)
	if err != nil {
		return nil, err
	}

	payload, ok := ExtractJSON(content)
	if !ok {
		return nil, fmt.Errorf("OCR 应答中没有 JSON: %q", truncate(content, 200))
	}

	var regions []TextRegion
	if err := json.Unmarshal([]byte(payload), &regions); err != nil {
		return nil, fmt.Errorf("解析 OCR 结果失败: %w", err)
	}
	return regions, nil
}

// encodeImage 把本地图片编码为 data URI。
func encodeImage(imagePath string) (string, error) {
	data, err := os.ReadFile(imagePath)
	if err != nil {
		return "", fmt.Errorf("读取图片 %s 失败: %w", imagePath, err)
	}

	mime := "image/png"
	switch strings.ToLower(filepath.Ext(imagePath)) {
	case ".jpg", ".jpeg":
		mime = "image/jpeg"
	case ".bmp":
		mime = "image/bmp"
	case ".webp":
		mime = "image/webp"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(data)), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
