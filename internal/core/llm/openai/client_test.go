package openai

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joseph-ayodele/medocs/internal/common"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestGenerate(t *testing.T) {
	var gotAuth, gotModel, gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Model    string `json:"model"`
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotModel = req.Model
		if len(req.Messages) > 0 {
			gotPrompt = req.Messages[0].Content
		}
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"  LDL is mildly elevated.  "}}]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL + "/", Model: "test-model"}, quietLogger())
	out, err := c.Generate(context.Background(), "how is my cholesterol?")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if out != "LDL is mildly elevated." {
		t.Fatalf("content = %q", out)
	}
	if gotAuth != "Bearer sk-test" || gotModel != "test-model" || gotPrompt != "how is my cholesterol?" {
		t.Fatalf("request auth=%q model=%q prompt=%q", gotAuth, gotModel, gotPrompt)
	}
}

func TestGenerateFromImageSendsDataURL(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		_, _ = io.WriteString(w, `{"choices":[{"message":{"content":"{\"text\":\"hi\",\"confidence\":0.9}"}}]}`)
	}))
	defer srv.Close()

	c := NewClient(Config{APIKey: "k", BaseURL: srv.URL, VisionModel: "vision-model"}, quietLogger())
	out, err := c.GenerateFromImage(context.Background(), "read it", "image/jpg", []byte{0xff, 0xd8, 0xff})
	if err != nil {
		t.Fatalf("GenerateFromImage: %v", err)
	}
	if out != `{"text":"hi","confidence":0.9}` {
		t.Fatalf("content = %q", out)
	}
	for _, want := range []string{`"vision-model"`, `data:image/jpeg;base64,/9j/`, `"json_object"`} {
		if !strings.Contains(body, want) {
			t.Errorf("request body missing %s: %s", want, body)
		}
	}
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		reply   string
		wantErr error
	}{
		{"server error", http.StatusInternalServerError, `{"error":"boom"}`, common.ErrUpstream},
		{"rate limited", http.StatusTooManyRequests, `{}`, common.ErrUpstream},
		{"garbage body", http.StatusOK, `not json`, common.ErrParse},
		{"no choices", http.StatusOK, `{"choices":[]}`, common.ErrParse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.reply)
			}))
			defer srv.Close()

			c := NewClient(Config{APIKey: "k", BaseURL: srv.URL}, quietLogger())
			_, err := c.Generate(context.Background(), "x")
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateWithoutKey(t *testing.T) {
	c := NewClient(Config{BaseURL: "http://127.0.0.1:0"}, quietLogger())
	_, err := c.Generate(context.Background(), "x")
	if !errors.Is(err, common.ErrAIUnavailable) {
		t.Fatalf("err = %v, want ErrAIUnavailable", err)
	}
}
