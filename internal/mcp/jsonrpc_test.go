package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/blackwell-systems/revibe/internal/pipeline"
)

func newEmptyServer() *Server {
	s := NewServer(pipeline.Options{}, "1.2.3", "")
	s.tools = nil
	return s
}

// exchange feeds lines to s and returns the response lines written before
// EOF.
func exchange(t *testing.T, s *Server, lines ...string) []string {
	t.Helper()
	var out bytes.Buffer
	in := strings.NewReader(strings.Join(lines, "\n") + "\n")
	if err := s.Run(context.Background(), in, &out); err != nil {
		t.Fatalf("Run: %v", err)
	}
	text := strings.TrimSuffix(out.String(), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestRun_Initialize(t *testing.T) {
	resp := exchange(t, newEmptyServer(), `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	if len(resp) != 1 {
		t.Fatalf("expected 1 response, got %d", len(resp))
	}

	var parsed struct {
		ID     int `json:"id"`
		Result struct {
			ProtocolVersion string `json:"protocolVersion"`
			ServerInfo      struct {
				Name    string `json:"name"`
				Version string `json:"version"`
			} `json:"serverInfo"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(resp[0]), &parsed); err != nil {
		t.Fatalf("unmarshal response: %v\nresponse: %s", err, resp[0])
	}
	if parsed.ID != 1 {
		t.Errorf("expected id 1, got %d", parsed.ID)
	}
	if parsed.Result.ProtocolVersion != ProtocolVersion {
		t.Errorf("expected protocolVersion %q, got %q", ProtocolVersion, parsed.Result.ProtocolVersion)
	}
	if parsed.Result.ServerInfo.Name != "revibe" || parsed.Result.ServerInfo.Version != "1.2.3" {
		t.Errorf("unexpected serverInfo: %+v", parsed.Result.ServerInfo)
	}
}

func TestRun_ToolsList(t *testing.T) {
	s := newEmptyServer()
	s.registerTool(toolDef{
		Name:        "test_tool",
		Description: "A test tool",
		InputSchema: json.RawMessage(`{"type":"object","properties":{}}`),
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			return map[string]string{"ok": "true"}, nil
		},
	})

	resp := exchange(t, s, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)

	var parsed struct {
		Result struct {
			Tools []struct {
				Name        string          `json:"name"`
				InputSchema json.RawMessage `json:"inputSchema"`
			} `json:"tools"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(resp[0]), &parsed); err != nil {
		t.Fatalf("unmarshal response: %v\nresponse: %s", err, resp[0])
	}
	if len(parsed.Result.Tools) != 1 || parsed.Result.Tools[0].Name != "test_tool" {
		t.Errorf("expected [test_tool], got %+v", parsed.Result.Tools)
	}
}

func TestRun_ToolsCall(t *testing.T) {
	s := newEmptyServer()
	s.registerTool(toolDef{
		Name: "echo",
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			return json.RawMessage(args), nil
		},
	})
	s.registerTool(toolDef{
		Name: "fail",
		Handler: func(ctx context.Context, args json.RawMessage) (any, error) {
			return nil, errors.New("went wrong")
		},
	})

	resp := exchange(t, s,
		`{"jsonrpc":"2.0","id":1,"method":"tools/call","params":{"name":"echo","arguments":{"a":1}}}`,
		`{"jsonrpc":"2.0","id":2,"method":"tools/call","params":{"name":"echo"}}`,
		`{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"fail"}}`,
		`{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"missing"}}`,
	)
	if len(resp) != 4 {
		t.Fatalf("expected 4 responses, got %d", len(resp))
	}

	type callResp struct {
		Result toolsCallResult `json:"result"`
	}
	want := []struct {
		text    string
		isError bool
	}{
		{`{"a":1}`, false},
		{`{}`, false},
		{"went wrong", true},
		{"unknown tool: missing", true},
	}
	for i, w := range want {
		var got callResp
		if err := json.Unmarshal([]byte(resp[i]), &got); err != nil {
			t.Fatalf("unmarshal response %d: %v", i, err)
		}
		if len(got.Result.Content) != 1 {
			t.Fatalf("response %d: expected 1 content item, got %d", i, len(got.Result.Content))
		}
		if got.Result.Content[0].Text != w.text || got.Result.IsError != w.isError {
			t.Errorf("response %d: expected (%q, %v), got (%q, %v)",
				i, w.text, w.isError, got.Result.Content[0].Text, got.Result.IsError)
		}
	}
}

func TestRun_InvalidParams(t *testing.T) {
	resp := exchange(t, newEmptyServer(), `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":"nope"}`)

	var parsed struct {
		Error *jsonrpcError `json:"error"`
	}
	if err := json.Unmarshal([]byte(resp[0]), &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed.Error == nil || parsed.Error.Code != codeInvalidParams {
		t.Errorf("expected invalid params error, got %s", resp[0])
	}
}

func TestRun_ParseError(t *testing.T) {
	resp := exchange(t, newEmptyServer(), `{not json`)

	var parsed struct {
		Error *jsonrpcError `json:"error"`
	}
	if err := json.Unmarshal([]byte(resp[0]), &parsed); err != nil {
		t.Fatal(err)
	}
	if parsed.Error == nil || parsed.Error.Code != codeParseError {
		t.Errorf("expected parse error, got %s", resp[0])
	}
}

func TestRun_UnknownMethod(t *testing.T) {
	resp := exchange(t, newEmptyServer(), `{"jsonrpc":"2.0","id":3,"method":"nonexistent/method"}`)

	var parsed struct {
		Error *jsonrpcError `json:"error"`
	}
	if err := json.Unmarshal([]byte(resp[0]), &parsed); err != nil {
		t.Fatalf("unmarshal response: %v\nresponse: %s", err, resp[0])
	}
	if parsed.Error == nil {
		t.Fatalf("expected error in response, got none; response: %s", resp[0])
	}
	if parsed.Error.Code != codeMethodNotFound {
		t.Errorf("expected error code -32601, got %d", parsed.Error.Code)
	}
}

func TestRun_Notification(t *testing.T) {
	resp := exchange(t, newEmptyServer(),
		`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
		`{"jsonrpc":"2.0","id":9,"method":"initialize"}`,
	)
	if len(resp) != 1 {
		t.Fatalf("expected only the initialize response, got %d lines", len(resp))
	}
	if !strings.Contains(resp[0], `"id":9`) {
		t.Errorf("expected response to id 9, got %s", resp[0])
	}
}

func TestRun_ContextCancel(t *testing.T) {
	s := newEmptyServer()
	ctx, cancel := context.WithCancel(context.Background())

	pr, pw := io.Pipe()
	defer pw.Close()

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, pr, io.Discard)
	}()

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected Run to return nil on context cancel, got: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Run did not return after context cancel")
	}
}

func TestRun_EOFClean(t *testing.T) {
	var out bytes.Buffer
	if err := newEmptyServer().Run(context.Background(), strings.NewReader(""), &out); err != nil {
		t.Errorf("expected Run to return nil on EOF, got: %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("expected no output, got %q", out.String())
	}
}
