package search

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// MaxExtractedTags caps the candidate tag list per query.
const MaxExtractedTags = 10

// promptCatalogSample bounds the number of catalog tags embedded in the
// extraction prompt.
const promptCatalogSample = 100

// Extractor turns a free-text query into an ordered candidate tag list.
// A failed extraction is signalled by an empty list, never an error; the
// orchestrator interprets empty as "try the next strategy".
type Extractor interface {
	Name() string
	Extract(ctx context.Context, query string, catalog *Catalog) []string
}

// AIExtractor asks an OpenAI-compatible completion endpoint to pick matching
// tags out of the catalog.
type AIExtractor struct {
	client      *openai.Client
	model       string
	temperature float32
	timeout     time.Duration
	logger      *logrus.Logger
}

// AIConfig holds the AI extraction settings.
type AIConfig struct {
	APIKey      string
	BaseURL     string
	Model       string
	Temperature float32
	Timeout     time.Duration
}

func NewAIExtractor(cfg AIConfig, logger *logrus.Logger) *AIExtractor {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.25
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &AIExtractor{
		client:      openai.NewClientWithConfig(clientCfg),
		model:       cfg.Model,
		temperature: temperature,
		timeout:     timeout,
		logger:      logger,
	}
}

func (e *AIExtractor) Name() string { return "ai" }

func (e *AIExtractor) Extract(ctx context.Context, query string, catalog *Catalog) []string {
	if catalog.Len() == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	prompt := e.buildPrompt(query, catalog)

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       e.model,
		Temperature: e.temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You map shopping queries to product tags. Answer with tags only, comma-separated or as a JSON array. Never invent tags that are not in the provided list.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		e.logger.WithError(err).WithField("query", query).Warn("AI tag extraction failed, falling back")
		return nil
	}

	if len(resp.Choices) == 0 {
		e.logger.WithField("query", query).Warn("AI tag extraction returned no choices")
		return nil
	}

	candidates := parseTagAnswer(resp.Choices[0].Message.Content)

	// Keep only tags that actually exist in the catalog; the model may
	// hallucinate labels despite the instruction.
	var tags []string
	seen := make(map[string]bool)
	for _, candidate := range candidates {
		canonical, ok := catalog.Canonical(candidate)
		if !ok || seen[canonical] {
			continue
		}
		seen[canonical] = true
		tags = append(tags, canonical)
		if len(tags) == MaxExtractedTags {
			break
		}
	}

	e.logger.WithFields(logrus.Fields{
		"query":      query,
		"candidates": len(candidates),
		"accepted":   len(tags),
	}).Debug("AI tag extraction completed")

	return tags
}

func (e *AIExtractor) buildPrompt(query string, catalog *Catalog) string {
	sample := catalog.Sample(promptCatalogSample)
	return fmt.Sprintf(
		"Available product tags:\n%s\n\nShopper query: %q\n\nReturn up to %d tags from the list above that best match the query.",
		strings.Join(sample, ", "), query, MaxExtractedTags,
	)
}

// parseTagAnswer extracts tag strings from a raw model answer, which may be
// a JSON array or comma-separated text.
func parseTagAnswer(answer string) []string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return nil
	}

	if start := strings.Index(answer, "["); start >= 0 {
		if end := strings.LastIndex(answer, "]"); end > start {
			var parsed []string
			if err := json.Unmarshal([]byte(answer[start:end+1]), &parsed); err == nil {
				return cleanTagList(parsed)
			}
		}
	}

	return cleanTagList(strings.Split(answer, ","))
}

func cleanTagList(raw []string) []string {
	var tags []string
	for _, tag := range raw {
		tag = strings.Trim(strings.TrimSpace(tag), `"'`)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

// ManualExtractor is the deterministic fallback strategy: direct substring
// matching against the catalog plus a static concept-expansion map. It never
// fails; the worst case is an empty list.
type ManualExtractor struct {
	concepts map[string][]string
}

// conceptExpansions maps common query concepts to related tags. Expansion
// tags only count when present in the catalog.
var conceptExpansions = map[string][]string{
	"phone":    {"smartphone", "mobile", "electronics"},
	"laptop":   {"notebook", "computer", "electronics"},
	"computer": {"laptop", "desktop", "electronics"},
	"wireless": {"bluetooth", "wifi"},
	"audio":    {"headphones", "speaker", "sound"},
	"music":    {"headphones", "speaker", "audio"},
	"photo":    {"camera", "photography"},
	"game":     {"gaming", "console", "electronics"},
	"watch":    {"smartwatch", "wearable", "accessories"},
	"kitchen":  {"appliance", "cookware", "home"},
	"clothes":  {"clothing", "fashion", "apparel"},
	"shoes":    {"footwear", "sneakers", "fashion"},
	"cheap":    {"budget", "sale", "discount"},
	"gift":     {"accessories", "bundle"},
}

func NewManualExtractor() *ManualExtractor {
	return &ManualExtractor{concepts: conceptExpansions}
}

func (e *ManualExtractor) Name() string { return "manual" }

func (e *ManualExtractor) Extract(ctx context.Context, query string, catalog *Catalog) []string {
	queryLower := strings.ToLower(query)
	words := strings.Fields(queryLower)

	var tags []string
	seen := make(map[string]bool)
	appendTag := func(tag string) {
		if !seen[tag] && len(tags) < MaxExtractedTags {
			seen[tag] = true
			tags = append(tags, tag)
		}
	}

	// Direct matches take priority over concept expansions.
	for _, tag := range catalog.Tags() {
		if e.directMatch(tag, queryLower, words) {
			appendTag(tag)
		}
	}

	// Concept keys are walked in sorted order to keep output deterministic.
	conceptKeys := make([]string, 0, len(e.concepts))
	for concept := range e.concepts {
		conceptKeys = append(conceptKeys, concept)
	}
	sort.Strings(conceptKeys)

	for _, concept := range conceptKeys {
		if !conceptPresent(concept, queryLower, words) {
			continue
		}
		for _, related := range e.concepts[concept] {
			if canonical, ok := catalog.Canonical(related); ok {
				appendTag(canonical)
			}
		}
	}

	return tags
}

// directMatch reports whether a catalog tag matches the query verbatim or
// via word-substring overlap.
func (e *ManualExtractor) directMatch(tag, queryLower string, words []string) bool {
	tagLower := strings.ToLower(tag)

	if strings.Contains(queryLower, tagLower) {
		return true
	}

	for _, word := range words {
		if len(word) <= 3 {
			continue
		}
		if strings.Contains(tagLower, word) || strings.Contains(word, tagLower) {
			return true
		}
	}

	return false
}

// conceptPresent checks for the concept word by substring or loose
// word-level overlap.
func conceptPresent(concept, queryLower string, words []string) bool {
	if strings.Contains(queryLower, concept) {
		return true
	}
	for _, word := range words {
		if len(word) <= 3 {
			continue
		}
		if strings.Contains(word, concept) || strings.Contains(concept, word) {
			return true
		}
	}
	return false
}
