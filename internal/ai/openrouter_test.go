package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOpenRouterChat_ToolCallRoundTrip(t *testing.T) {
	var captured openRouterChatReq

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization = %q", got)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode request: %v", err)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {
				"role": "assistant",
				"content": "",
				"tool_calls": [{
					"id": "call_abc",
					"type": "function",
					"function": {"name": "find_client", "arguments": "{\"phone\":\"5511999990000\"}"}
				}]
			}}]
		}`))
	}))
	defer srv.Close()

	p := NewOpenRouterProvider(srv.URL, "test-key", "test-model", "", "")

	resp, err := p.Chat(context.Background(), ChatRequest{
		Messages: []Message{
			{Role: "system", Content: "you are a receptionist"},
			{Role: "user", Content: "am I registered?"},
		},
		Tools: []ToolDefinition{{
			Name:        "find_client",
			Description: "look up a client",
			Parameters:  map[string]any{"type": "object"},
			Strict:      true,
		}},
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}

	if captured.Model != "test-model" || captured.Stream {
		t.Errorf("unexpected request envelope: %+v", captured)
	}
	if len(captured.Tools) != 1 || captured.Tools[0].Function.Name != "find_client" {
		t.Errorf("tools not serialized: %+v", captured.Tools)
	}
	if len(captured.Messages) != 2 || captured.Messages[0].Role != "system" {
		t.Errorf("messages not serialized: %+v", captured.Messages)
	}

	if len(resp.ToolCalls) != 1 {
		t.Fatalf("expected 1 tool call, got %d", len(resp.ToolCalls))
	}
	tc := resp.ToolCalls[0]
	if tc.ID != "call_abc" || tc.Name != "find_client" {
		t.Errorf("unexpected tool call: %+v", tc)
	}
	var args map[string]string
	if err := json.Unmarshal([]byte(tc.Arguments), &args); err != nil {
		t.Fatalf("arguments not raw JSON: %v", err)
	}
	if args["phone"] != "5511999990000" {
		t.Errorf("arguments = %v", args)
	}
}

func TestOpenRouterChat_ToolResultMessageCarriesCallID(t *testing.T) {
	msgs := toOpenRouterMsgs([]Message{
		{Role: "tool", Content: `{"success":true}`, ToolCallID: "call_abc"},
		{Role: "assistant", Content: "", ToolCalls: []ToolCall{{ID: "call_abc", Name: "find_client", Arguments: "{}"}}},
	})

	if msgs[0].ToolCallID != "call_abc" {
		t.Errorf("tool_call_id dropped: %+v", msgs[0])
	}
	if len(msgs[1].ToolCalls) != 1 || msgs[1].ToolCalls[0].Type != "function" {
		t.Errorf("assistant tool calls not serialized: %+v", msgs[1])
	}
}

func TestOpenRouterChat_ErrorBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`upstream unavailable`))
	}))
	defer srv.Close()

	p := NewOpenRouterProvider(srv.URL, "test-key", "test-model", "", "")
	if _, err := p.Chat(context.Background(), ChatRequest{Messages: []Message{{Role: "user", Content: "hi"}}}); err == nil {
		t.Fatalf("expected error on non-2xx response")
	}
}
