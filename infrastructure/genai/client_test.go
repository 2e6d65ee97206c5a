package genai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"product-media-pipeline/domain/catalog"
	"product-media-pipeline/domain/generation"
)

var testRecord = catalog.ProductRecord{
	ListingID:   "L1",
	ProductID:   "P1",
	Title:       "Shoe",
	Description: "Red running shoe",
	Images: []catalog.ImageRef{
		{URL: "https://cdn.example.com/shoe.jpg"},
		{Filename: "front.jpg", Data: []byte{0xFF, 0xD8}},
	},
}

func TestClient_Generate_Success(t *testing.T) {
	video := []byte("fake-mp4-bytes")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("missing bearer token, got %q", r.Header.Get("Authorization"))
		}

		var req generateRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("bad request body: %v", err)
		}
		if req.Title != "Shoe" || req.ListingID != "L1" {
			t.Errorf("unexpected request fields: %+v", req)
		}
		if len(req.ImageURLs) != 1 || len(req.Images) != 1 {
			t.Errorf("image split = %d urls / %d inline, want 1/1", len(req.ImageURLs), len(req.Images))
		}

		json.NewEncoder(w).Encode(generateResponse{
			Video:     base64.StdEncoding.EncodeToString(video),
			VideoMime: "video/mp4",
			Blog:      "A blog about shoes.",
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key")
	result, err := client.Generate(context.Background(), testRecord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !result.OK() {
		t.Fatalf("expected success, got failure: %v", result.Failure)
	}
	if string(result.Video) != string(video) {
		t.Error("video bytes corrupted in transit")
	}
	if result.Blog != "A blog about shoes." {
		t.Errorf("blog = %q", result.Blog)
	}
}

func TestClient_Generate_BackendFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantKind generation.ErrorKind
	}{
		{
			name:     "rate limit",
			status:   http.StatusTooManyRequests,
			body:     "slow down",
			wantKind: generation.KindRateLimit,
		},
		{
			name:     "malformed prompt",
			status:   http.StatusBadRequest,
			body:     "cannot build prompt",
			wantKind: generation.KindMalformedPrompt,
		},
		{
			name:     "gateway timeout",
			status:   http.StatusGatewayTimeout,
			body:     "upstream timed out",
			wantKind: generation.KindTimeout,
		},
		{
			name:     "server error",
			status:   http.StatusInternalServerError,
			body:     "boom",
			wantKind: generation.KindBackend,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, tt.body, tt.status)
			}))
			defer srv.Close()

			client := NewClient(srv.URL, "")
			result, err := client.Generate(context.Background(), testRecord)
			if err != nil {
				t.Fatalf("ordinary backend failure returned as error: %v", err)
			}

			if result.OK() {
				t.Fatal("expected failure variant")
			}
			if result.Failure.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", result.Failure.Kind, tt.wantKind)
			}
		})
	}
}

func TestClient_Generate_EmptyTitleIsPreconditionViolation(t *testing.T) {
	client := NewClient("http://unused.invalid", "")

	record := testRecord
	record.Title = "   "
	_, err := client.Generate(context.Background(), record)

	if !errors.Is(err, generation.ErrInvalidRecord) {
		t.Fatalf("expected ErrInvalidRecord, got %v", err)
	}
}

func TestClient_Generate_MalformedResponseIsFailureVariant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	result, err := client.Generate(context.Background(), testRecord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK() || result.Failure.Kind != generation.KindBackend {
		t.Errorf("expected backend failure variant, got %+v", result)
	}
}

func TestClient_Generate_EmptyArtifactsIsFailureVariant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(generateResponse{Blog: "blog without video"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "")
	result, err := client.Generate(context.Background(), testRecord)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.OK() {
		t.Fatal("expected failure for empty video payload")
	}
}
