// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package llm

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

// streamServer serves a fixed SSE body and captures the request envelope.
func streamServer(t *testing.T, body string, captured *capturedEnvelope) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if captured != nil {
			reqBody, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(reqBody, captured); err != nil {
				t.Errorf("request body is not valid JSON: %v", err)
			}
		}
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(body))
	}))
}

func TestSendStream_DeliversChunksAndAccumulates(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"He\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"llo\"}}]}\n\n" +
		"data: [DONE]\n\n"

	var captured capturedEnvelope
	server := streamServer(t, body, &captured)
	defer server.Close()

	var chunks []string
	client := NewClient(server.URL, "prompt-pad")
	total, err := client.SendStream(context.Background(), []Message{NewUserMessage("hi")}, Models[DefaultModelKey], Options{}, func(s string) {
		chunks = append(chunks, s)
	})
	if err != nil {
		t.Fatalf("SendStream returned error: %v", err)
	}

	if !reflect.DeepEqual(chunks, []string{"He", "llo"}) {
		t.Errorf("chunks = %v, want [He llo]", chunks)
	}
	if total != "Hello" {
		t.Errorf("total = %q, want %q", total, "Hello")
	}
	if !captured.RequestsData.Stream {
		t.Error("streaming request did not carry stream=true")
	}
}

func TestSendStream_MalformedFrameIsSkipped(t *testing.T) {
	body := "data: {not json\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n\n" +
		"data: [DONE]\n\n"

	server := streamServer(t, body, nil)
	defer server.Close()

	var chunks []string
	client := NewClient(server.URL, "prompt-pad")
	total, err := client.SendStream(context.Background(), []Message{NewUserMessage("hi")}, Models[DefaultModelKey], Options{}, func(s string) {
		chunks = append(chunks, s)
	})
	if err != nil {
		t.Fatalf("malformed frame must not abort the stream, got: %v", err)
	}
	if total != "ok" {
		t.Errorf("total = %q, want %q", total, "ok")
	}
	if len(chunks) != 1 || chunks[0] != "ok" {
		t.Errorf("chunks = %v, want [ok]", chunks)
	}
}

func TestSendStream_DoneBeforeAnyData(t *testing.T) {
	server := streamServer(t, "data: [DONE]\n\n", nil)
	defer server.Close()

	calls := 0
	client := NewClient(server.URL, "prompt-pad")
	total, err := client.SendStream(context.Background(), []Message{NewUserMessage("hi")}, Models[DefaultModelKey], Options{}, func(string) {
		calls++
	})
	if err != nil {
		t.Fatalf("SendStream returned error: %v", err)
	}
	if total != "" {
		t.Errorf("total = %q, want empty", total)
	}
	if calls != 0 {
		t.Errorf("callback invoked %d times, want 0", calls)
	}
}

func TestSendStream_DoneStopsBeforeEndOfBody(t *testing.T) {
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"keep\"}}]}\n\n" +
		"data: [DONE]\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"dropped\"}}]}\n\n"

	server := streamServer(t, body, nil)
	defer server.Close()

	client := NewClient(server.URL, "prompt-pad")
	total, err := client.SendStream(context.Background(), []Message{NewUserMessage("hi")}, Models[DefaultModelKey], Options{}, nil)
	if err != nil {
		t.Fatalf("SendStream returned error: %v", err)
	}
	if total != "keep" {
		t.Errorf("total = %q, want %q (frames after [DONE] must be ignored)", total, "keep")
	}
}

func TestSendStream_EmptyDeltasProduceNoCallback(t *testing.T) {
	// Role-only first frame, then a content frame.
	body := "data: {\"choices\":[{\"delta\":{\"role\":\"assistant\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"\"}}]}\n\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"text\"}}]}\n\n" +
		"data: [DONE]\n\n"

	server := streamServer(t, body, nil)
	defer server.Close()

	var chunks []string
	client := NewClient(server.URL, "prompt-pad")
	total, err := client.SendStream(context.Background(), []Message{NewUserMessage("hi")}, Models[DefaultModelKey], Options{}, func(s string) {
		chunks = append(chunks, s)
	})
	if err != nil {
		t.Fatalf("SendStream returned error: %v", err)
	}
	if len(chunks) != 1 || chunks[0] != "text" {
		t.Errorf("chunks = %v, want exactly [text]", chunks)
	}
	if total != "text" {
		t.Errorf("total = %q, want %q", total, "text")
	}
}

func TestSendStream_EventLinesAreIgnored(t *testing.T) {
	body := "event: message\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n\n" +
		"event: done\n" +
		"data: [DONE]\n\n"

	server := streamServer(t, body, nil)
	defer server.Close()

	client := NewClient(server.URL, "prompt-pad")
	total, err := client.SendStream(context.Background(), []Message{NewUserMessage("hi")}, Models[DefaultModelKey], Options{}, nil)
	if err != nil {
		t.Fatalf("SendStream returned error: %v", err)
	}
	if total != "a" {
		t.Errorf("total = %q, want %q", total, "a")
	}
}

func TestSendStream_EndOfBodyWithoutDone(t *testing.T) {
	// Some gateways close the stream without the sentinel; EOF is a normal end.
	body := "data: {\"choices\":[{\"delta\":{\"content\":\"partial\"}}]}\n\n"

	server := streamServer(t, body, nil)
	defer server.Close()

	client := NewClient(server.URL, "prompt-pad")
	total, err := client.SendStream(context.Background(), []Message{NewUserMessage("hi")}, Models[DefaultModelKey], Options{}, nil)
	if err != nil {
		t.Fatalf("SendStream returned error: %v", err)
	}
	if total != "partial" {
		t.Errorf("total = %q, want %q", total, "partial")
	}
}

func TestSendStream_NonSuccessStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"bad key"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "prompt-pad")
	_, err := client.SendStream(context.Background(), []Message{NewUserMessage("hi")}, Models[DefaultModelKey], Options{}, nil)

	var reqErr *RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("expected *RequestError, got %v", err)
	}
	if reqErr.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", reqErr.Status)
	}
}
