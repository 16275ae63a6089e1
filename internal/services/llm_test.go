package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

func TestGenerateResponseViaGateway(t *testing.T) {
	// 模拟网关服务器
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Expected Bearer test-token, got %s", r.Header.Get("Authorization"))
		}

		var req ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "test-model" {
			t.Errorf("Expected model test-model, got %s", req.Model)
		}

		resp := ChatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}{})
		resp.Choices[0].Message.Content = "a generated answer"
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	os.Setenv("MODEL_GATEWAY_URL", server.URL)
	os.Setenv("MODEL_GATEWAY_TOKEN", "test-token")
	defer os.Unsetenv("MODEL_GATEWAY_URL")
	defer os.Unsetenv("MODEL_GATEWAY_TOKEN")

	// 重置单例以便重新加载配置
	gatewayService = nil
	s := GetGatewayService()

	content, err := s.GenerateResponse("test-model", "what is consensus?")
	if err != nil {
		t.Fatalf("GenerateResponse failed: %v", err)
	}
	if content != "a generated answer" {
		t.Errorf("Expected gateway content, got %s", content)
	}
}

func TestGenerateResponseMockFallback(t *testing.T) {
	os.Unsetenv("MODEL_GATEWAY_URL")
	gatewayService = nil
	s := GetGatewayService()

	content, err := s.GenerateResponse("gpt-4o", "hello")
	if err != nil {
		t.Fatalf("mock path should never fail: %v", err)
	}
	if !strings.Contains(content, "gpt-4o") {
		t.Errorf("mock response should mention the model, got %s", content)
	}
}

func TestJudgeMatchMock(t *testing.T) {
	os.Unsetenv("MODEL_GATEWAY_URL")
	gatewayService = nil
	s := GetGatewayService()

	if v := s.JudgeMatch("q", "a longer answer here", "short"); v != "A" {
		t.Errorf("expected A, got %s", v)
	}
	if v := s.JudgeMatch("q", "short", "a longer answer here"); v != "B" {
		t.Errorf("expected B, got %s", v)
	}
	if v := s.JudgeMatch("q", "same", "size!"); v != "TIE" {
		t.Errorf("expected TIE for equal lengths, got %s", v)
	}
}

func TestJudgeMatchGatewayVerdict(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resp := ChatResponse{}
		resp.Choices = append(resp.Choices, struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		}{})
		resp.Choices[0].Message.Content = " b\n"
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	os.Setenv("MODEL_GATEWAY_URL", server.URL)
	defer os.Unsetenv("MODEL_GATEWAY_URL")
	gatewayService = nil
	s := GetGatewayService()

	if v := s.JudgeMatch("q", "one", "two"); v != "B" {
		t.Errorf("expected normalized verdict B, got %s", v)
	}
}
