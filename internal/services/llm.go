package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"
)

// GatewayService 调用模型网关获取对战回答和裁判判定。
// 未配置网关地址时退化为 mock，方便本地开发。
type GatewayService struct {
	baseURL string
	token   string
	referee string // 裁判模型标识
	client  *http.Client
}

var gatewayService *GatewayService

func GetGatewayService() *GatewayService {
	if gatewayService == nil {
		gatewayService = &GatewayService{
			baseURL: os.Getenv("MODEL_GATEWAY_URL"),
			token:   os.Getenv("MODEL_GATEWAY_TOKEN"),
			referee: getEnvDefault("REFEREE_MODEL", "gpt-4o-mini"),
			client:  &http.Client{Timeout: 60 * time.Second},
		}
	}
	return gatewayService
}

func getEnvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatRequest struct {
	Model    string        `json:"model"`
	Messages []ChatMessage `json:"messages"`
}

type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// GenerateResponse 请求一个模型回答 prompt
func (s *GatewayService) GenerateResponse(apiModelID, prompt string) (string, error) {
	if s.baseURL == "" {
		// Mock response until a real gateway is wired up
		return fmt.Sprintf("Mock response from %s for: %s", apiModelID, prompt), nil
	}
	return s.chat(apiModelID, []ChatMessage{
		{Role: "user", Content: prompt},
	})
}

// JudgeMatch 让裁判模型在两个回答里选一个，返回 A / B / TIE。
// 裁判结果只作为 ReferenceScore 的信号，判定失败一律按 TIE 处理，不中断对战。
func (s *GatewayService) JudgeMatch(prompt, responseA, responseB string) string {
	if s.baseURL == "" {
		// Mock：内容更长的回答胜出
		if len(responseA) > len(responseB) {
			return "A"
		}
		if len(responseB) > len(responseA) {
			return "B"
		}
		return "TIE"
	}

	content, err := s.chat(s.referee, []ChatMessage{
		{Role: "system", Content: "You are judging two anonymous answers to the same prompt. Reply with exactly one word: A, B or TIE."},
		{Role: "user", Content: fmt.Sprintf("Prompt:\n%s\n\nAnswer A:\n%s\n\nAnswer B:\n%s", prompt, responseA, responseB)},
	})
	if err != nil {
		return "TIE"
	}

	verdict := strings.ToUpper(strings.TrimSpace(content))
	switch verdict {
	case "A", "B", "TIE":
		return verdict
	}
	return "TIE"
}

func (s *GatewayService) chat(model string, messages []ChatMessage) (string, error) {
	payload, err := json.Marshal(ChatRequest{Model: model, Messages: messages})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", s.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.token != "" {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("model gateway request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model gateway returned status %d", resp.StatusCode)
	}

	var chatResp ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return "", fmt.Errorf("decode gateway response: %w", err)
	}
	if len(chatResp.Choices) == 0 {
		return "", fmt.Errorf("model gateway returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
