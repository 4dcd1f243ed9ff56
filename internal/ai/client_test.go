package ai_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/unclebandit/pulsecrm-backend/internal/ai"
	appErrors "github.com/unclebandit/pulsecrm-backend/internal/errors"
)

// stubCompletions serves a fixed assistant message in chat-completions shape.
func stubCompletions(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}))
}

func newClient(srv *httptest.Server) *ai.Client {
	return &ai.Client{BaseURL: srv.URL, APIKey: "test-key", Model: "test-model"}
}

func TestRulesFromTextBareArray(t *testing.T) {
	srv := stubCompletions(t, `[{"field":"totalSpent","operator":"gt","value":"10000"},{"field":"status","operator":"eq","value":"vip"}]`)
	defer srv.Close()

	rules, err := newClient(srv).RulesFromText(context.Background(), "vip customers who spent over 10000")
	if err != nil {
		t.Fatalf("RulesFromText returned error: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("expected 2 rules, got %d", len(rules))
	}
	if rules[0].Field != "totalSpent" || rules[0].Operator != "gt" || rules[0].Value != "10000" {
		t.Errorf("unexpected first rule: %+v", rules[0])
	}
}

func TestRulesFromTextWrappedObject(t *testing.T) {
	srv := stubCompletions(t, `{"rules":[{"field":"visitCount","operator":"lt","value":"3"}]}`)
	defer srv.Close()

	rules, err := newClient(srv).RulesFromText(context.Background(), "customers with few visits")
	if err != nil {
		t.Fatalf("RulesFromText returned error: %v", err)
	}
	if len(rules) != 1 || rules[0].Field != "visitCount" {
		t.Errorf("unexpected rules: %+v", rules)
	}
}

func TestRulesFromTextArrayEmbeddedInProse(t *testing.T) {
	srv := stubCompletions(t, "Here are the rules you asked for:\n[{\"field\":\"location\",\"operator\":\"eq\",\"value\":\"Mumbai\"}]\nLet me know if you need more.")
	defer srv.Close()

	rules, err := newClient(srv).RulesFromText(context.Background(), "customers in Mumbai")
	if err != nil {
		t.Fatalf("RulesFromText returned error: %v", err)
	}
	if len(rules) != 1 || rules[0].Value != "Mumbai" {
		t.Errorf("unexpected rules: %+v", rules)
	}
}

func TestRulesFromTextCoercesNumericValues(t *testing.T) {
	srv := stubCompletions(t, `[{"field":"totalSpent","operator":"gt","value":10000}]`)
	defer srv.Close()

	rules, err := newClient(srv).RulesFromText(context.Background(), "big spenders")
	if err != nil {
		t.Fatalf("RulesFromText returned error: %v", err)
	}
	if len(rules) != 1 || rules[0].Value != "10000" {
		t.Errorf("expected numeric value rendered as string, got %+v", rules)
	}
}

func TestRulesFromTextDropsIncompleteRules(t *testing.T) {
	srv := stubCompletions(t, `[{"field":"totalSpent","operator":"gt","value":"100"},{"field":"status"}]`)
	defer srv.Close()

	rules, err := newClient(srv).RulesFromText(context.Background(), "whatever")
	if err != nil {
		t.Fatalf("RulesFromText returned error: %v", err)
	}
	if len(rules) != 1 {
		t.Errorf("expected incomplete rule dropped, got %+v", rules)
	}
}

func TestRulesFromTextMalformedResponse(t *testing.T) {
	srv := stubCompletions(t, "I couldn't figure out any rules, sorry!")
	defer srv.Close()

	_, err := newClient(srv).RulesFromText(context.Background(), "gibberish")
	var genErr *appErrors.ErrGenerationFailed
	if !errors.As(err, &genErr) {
		t.Fatalf("expected generation error, got %v", err)
	}
}

func TestRulesFromTextServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newClient(srv).RulesFromText(context.Background(), "anything")
	var genErr *appErrors.ErrGenerationFailed
	if !errors.As(err, &genErr) {
		t.Fatalf("expected generation error on 500, got %v", err)
	}
}

func TestMessagesFromBrief(t *testing.T) {
	srv := stubCompletions(t, `{"messages":[
		{"type":"Win-back Campaign","message":"Hi {{name}}, we miss you!","engagement":"8.2%"},
		{"type":"Urgency-based","message":"{{name}}, last chance!","engagement":"6.5%"},
		{"type":"Incomplete","message":""}
	]}`)
	defer srv.Close()

	suggestions, err := newClient(srv).MessagesFromBrief(context.Background(), "win back inactive customers", "inactive 90 days")
	if err != nil {
		t.Fatalf("MessagesFromBrief returned error: %v", err)
	}
	if len(suggestions) != 2 {
		t.Fatalf("expected 2 complete suggestions, got %d", len(suggestions))
	}
	if suggestions[0].Type != "Win-back Campaign" || suggestions[0].Engagement != "8.2%" {
		t.Errorf("unexpected suggestion: %+v", suggestions[0])
	}
}

func TestMessagesFromBriefMalformedResponse(t *testing.T) {
	srv := stubCompletions(t, "not json at all")
	defer srv.Close()

	_, err := newClient(srv).MessagesFromBrief(context.Background(), "objective", "audience")
	var genErr *appErrors.ErrGenerationFailed
	if !errors.As(err, &genErr) {
		t.Fatalf("expected generation error, got %v", err)
	}
}
