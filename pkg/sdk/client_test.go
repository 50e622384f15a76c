package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Ask(t *testing.T) {
	var gotAuth, gotAccept string
	var gotReq AskRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		_ = json.NewDecoder(r.Body).Decode(&gotReq)

		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"sources\":[{\"title\":\"t\",\"url\":\"https://t\",\"content\":\"c\"}]}\n\n")
		fmt.Fprint(w, "data: {\"images\":[]}\n\n")
		fmt.Fprint(w, "data: {\"answer\":\"Hi\"}\n\n")
		fmt.Fprint(w, "data: {\"answer\":\" there\"}\n\n")
		fmt.Fprint(w, "data: {\"related\":\"Q?\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)

	client := New(srv.URL, WithAPIKey("tok-abc"))

	var answer strings.Builder
	var sources int
	err := client.Ask(context.Background(), AskRequest{Query: "hello", Source: "news"},
		func(ev Event) error {
			answer.WriteString(ev.Answer)
			sources += len(ev.Sources)
			return nil
		})
	if err != nil {
		t.Fatalf("Ask: %v", err)
	}

	if gotAuth != "Bearer tok-abc" {
		t.Errorf("auth header = %q", gotAuth)
	}
	if gotAccept != "text/event-stream" {
		t.Errorf("accept header = %q", gotAccept)
	}
	if gotReq.Query != "hello" || gotReq.Source != "news" {
		t.Errorf("request = %+v", gotReq)
	}
	if answer.String() != "Hi there" {
		t.Errorf("assembled answer = %q", answer.String())
	}
	if sources != 1 {
		t.Errorf("sources = %d", sources)
	}
}

func TestClient_Ask_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"code":"rate_limited","message":"request limit reached"}`))
	}))
	t.Cleanup(srv.Close)

	err := New(srv.URL).Ask(context.Background(), AskRequest{Query: "q"}, func(Event) error { return nil })

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusTooManyRequests || apiErr.Code != "rate_limited" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestClient_Ask_CallbackErrorStops(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "data: {\"answer\":\"a\"}\n\n")
		fmt.Fprint(w, "data: {\"answer\":\"b\"}\n\n")
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	t.Cleanup(srv.Close)

	stop := errors.New("enough")
	calls := 0
	err := New(srv.URL).Ask(context.Background(), AskRequest{Query: "q"}, func(Event) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("err = %v, want the callback error", err)
	}
	if calls != 1 {
		t.Errorf("callback calls = %d, want 1", calls)
	}
}

func TestClient_Ask_TruncatedStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, "data: {\"answer\":\"partial\"}\n\n")
		// connection ends without the terminal marker
	}))
	t.Cleanup(srv.Close)

	err := New(srv.URL).Ask(context.Background(), AskRequest{Query: "q"}, func(Event) error { return nil })
	if err == nil {
		t.Error("a stream without the terminal marker must error")
	}
}

func TestClient_Models(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/models" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"models":["gpt-4o","gpt-4o-mini"],"default":"gpt-4o-mini"}`))
	}))
	t.Cleanup(srv.Close)

	models, def, err := New(srv.URL).Models(context.Background())
	if err != nil {
		t.Fatalf("Models: %v", err)
	}
	if len(models) != 2 || def != "gpt-4o-mini" {
		t.Errorf("models = %v default = %q", models, def)
	}
}
