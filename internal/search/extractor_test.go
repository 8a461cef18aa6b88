package search

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vendora/backend/internal/models"
)

func testCatalog(tags ...string) *Catalog {
	var rows []models.Tag
	for _, tag := range tags {
		rows = append(rows, models.Tag{Name: tag})
	}
	return BuildCatalog(nil, rows, nil)
}

func TestManualExtractor_DirectAndConceptMatch(t *testing.T) {
	// "wireless headphones under $100" must select headphones and wireless
	// directly, plus bluetooth via the wireless concept expansion.
	catalog := testCatalog("headphones", "wireless", "bluetooth", "budget")
	extractor := NewManualExtractor()

	tags := extractor.Extract(context.Background(), "wireless headphones under $100", catalog)

	assert.Contains(t, tags, "headphones")
	assert.Contains(t, tags, "wireless")
	assert.Contains(t, tags, "bluetooth")
}

func TestManualExtractor_DirectMatchesBeforeConcepts(t *testing.T) {
	catalog := testCatalog("smartphone", "phone case", "mobile")
	extractor := NewManualExtractor()

	tags := extractor.Extract(context.Background(), "cheap phone", catalog)

	// All three match: "phone" is a substring of every tag (direct), and
	// the phone concept expands to smartphone/mobile. Direct hits come
	// first in catalog order.
	require.NotEmpty(t, tags)
	assert.Equal(t, "smartphone", tags[0])
}

func TestManualExtractor_NoMatchReturnsEmpty(t *testing.T) {
	catalog := testCatalog("gardening", "tools")
	extractor := NewManualExtractor()

	tags := extractor.Extract(context.Background(), "quantum flux capacitor", catalog)

	assert.Empty(t, tags)
}

func TestManualExtractor_CapAndDedup(t *testing.T) {
	var names []string
	for _, suffix := range []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"} {
		names = append(names, "widget-"+suffix)
	}
	catalog := testCatalog(names...)
	extractor := NewManualExtractor()

	tags := extractor.Extract(context.Background(), "widget", catalog)

	assert.Len(t, tags, MaxExtractedTags)
	seen := make(map[string]bool)
	for _, tag := range tags {
		assert.False(t, seen[tag], "duplicate tag %s", tag)
		seen[tag] = true
	}
}

func TestManualExtractor_ShortWordsIgnored(t *testing.T) {
	catalog := testCatalog("television")
	extractor := NewManualExtractor()

	// "tv" is too short for word-level matching
	tags := extractor.Extract(context.Background(), "big tv", catalog)

	assert.Empty(t, tags)
}

// fakeCompletionServer serves an OpenAI-compatible chat completion endpoint
// returning the given answer text.
func fakeCompletionServer(t *testing.T, answer string, calls *int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"choices": []map[string]interface{}{
				{
					"index": 0,
					"message": map[string]interface{}{
						"role":    "assistant",
						"content": answer,
					},
					"finish_reason": "stop",
				},
			},
		})
	}))
}

func newTestAIExtractor(baseURL string) *AIExtractor {
	return NewAIExtractor(AIConfig{
		APIKey:  "test-key",
		BaseURL: baseURL + "/v1",
		Model:   "test-model",
		Timeout: 5 * time.Second,
	}, logrus.New())
}

func TestAIExtractor_CommaSeparatedAnswer(t *testing.T) {
	var calls int32
	server := fakeCompletionServer(t, "headphones, wireless, bluetooth", &calls)
	defer server.Close()

	catalog := testCatalog("headphones", "wireless", "bluetooth", "budget")
	extractor := newTestAIExtractor(server.URL)

	tags := extractor.Extract(context.Background(), "wireless headphones", catalog)

	assert.Equal(t, []string{"headphones", "wireless", "bluetooth"}, tags)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestAIExtractor_JSONArrayAnswer(t *testing.T) {
	var calls int32
	server := fakeCompletionServer(t, `Here you go: ["headphones", "wireless"]`, &calls)
	defer server.Close()

	catalog := testCatalog("headphones", "wireless", "budget")
	extractor := newTestAIExtractor(server.URL)

	tags := extractor.Extract(context.Background(), "wireless headphones", catalog)

	assert.Equal(t, []string{"headphones", "wireless"}, tags)
}

func TestAIExtractor_FiltersHallucinatedTags(t *testing.T) {
	var calls int32
	server := fakeCompletionServer(t, "headphones, unicorn-dust, wireless", &calls)
	defer server.Close()

	catalog := testCatalog("headphones", "wireless")
	extractor := newTestAIExtractor(server.URL)

	tags := extractor.Extract(context.Background(), "wireless headphones", catalog)

	assert.Equal(t, []string{"headphones", "wireless"}, tags)
	assert.NotContains(t, tags, "unicorn-dust")
}

func TestAIExtractor_ServerErrorIsSoftFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	catalog := testCatalog("headphones")
	extractor := newTestAIExtractor(server.URL)

	tags := extractor.Extract(context.Background(), "headphones", catalog)

	assert.Empty(t, tags)
}

func TestAIExtractor_UnreachableEndpointIsSoftFailure(t *testing.T) {
	catalog := testCatalog("headphones")
	extractor := newTestAIExtractor("http://127.0.0.1:1")

	tags := extractor.Extract(context.Background(), "headphones", catalog)

	assert.Empty(t, tags)
}

func TestAIExtractor_EmptyCatalogSkipsCall(t *testing.T) {
	var calls int32
	server := fakeCompletionServer(t, "anything", &calls)
	defer server.Close()

	extractor := newTestAIExtractor(server.URL)

	tags := extractor.Extract(context.Background(), "headphones", BuildCatalog(nil, nil, nil))

	assert.Empty(t, tags)
	assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
}

func TestParseTagAnswer(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, parseTagAnswer("a, b"))
	assert.Equal(t, []string{"a", "b"}, parseTagAnswer(`["a","b"]`))
	assert.Equal(t, []string{"a", "b"}, parseTagAnswer(`"a", "b"`))
	assert.Empty(t, parseTagAnswer(""))
	assert.Empty(t, parseTagAnswer("   "))
}
