package semantic

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/pkoukk/tiktoken-go"

	"github.com/stylemetry/engine/internal/util"
	"github.com/stylemetry/engine/pkg/ai"
	"github.com/stylemetry/engine/pkg/logger"
)

// ErrServiceUnavailable is returned when no annotation client is configured.
// Unit extraction has no offline substitute, so this is fatal for the stage.
var ErrServiceUnavailable = errors.New("annotation service unavailable")

// ErrUnknownMode is returned for an unsupported annotation mode.
var ErrUnknownMode = errors.New("unknown annotation mode")

// Extractor turns raw text into a typed catalog of semantic units by prompting
// the annotation service and parsing the JSON object embedded in its reply.
// Unparsable replies degrade to heuristic line parsing instead of failing.
type Extractor struct {
	client     ai.StyleAIClient
	maxRetries int
}

// NewExtractor creates an Extractor backed by client. A nil client is allowed
// and makes every Identify call fail with ErrServiceUnavailable.
func NewExtractor(client ai.StyleAIClient, maxRetries int) *Extractor {
	if maxRetries <= 0 {
		maxRetries = 2
	}
	return &Extractor{client: client, maxRetries: maxRetries}
}

type annotationResponse struct {
	Concepts   []Concept         `json:"concepts"`
	Entities   []NamedEntity     `json:"named_entities"`
	Adjectives []AdjectivePhrase `json:"key_adjectives"`
	Verbs      []VerbPhrase      `json:"key_verbs"`
	Phrases    []KeyPhrase       `json:"key_phrases"`
	Relations  []Relation        `json:"semantic_relations"`
}

func promptForMode(mode Mode) (string, error) {
	switch mode {
	case ModeComprehensive:
		return ai.AnnotateComprehensivePrompt, nil
	case ModeConcept:
		return ai.AnnotateConceptPrompt, nil
	case ModeEntity:
		return ai.AnnotateEntityPrompt, nil
	case ModeSentiment:
		return ai.AnnotateSentimentPrompt, nil
	case ModeRelation:
		return ai.AnnotateRelationPrompt, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
}

// Identify annotates text in the given mode and returns the typed unit set.
// Empty input yields an empty set without calling the service.
func (e *Extractor) Identify(ctx context.Context, text string, mode Mode) (*UnitSet, error) {
	if e.client == nil {
		return nil, ErrServiceUnavailable
	}

	systemPrompt, err := promptForMode(mode)
	if err != nil {
		return nil, err
	}

	set := &UnitSet{Mode: mode, Source: "annotation"}
	if strings.TrimSpace(text) == "" {
		return set, nil
	}
	set.TokenCount = countTokens(text)

	raw, err := util.RetryWithContext(ctx, e.maxRetries, func(ctx context.Context) (string, error) {
		return e.client.GenerateCompletion(ctx, text, ai.WithSystemPrompts(systemPrompt))
	})
	if err != nil {
		return nil, fmt.Errorf("annotation call failed: %w", err)
	}

	var res annotationResponse
	if err := ai.UnmarshalFlexible(raw, &res); err != nil {
		logger.Warn("Annotation response unparsable, falling back to heuristic parse", "mode", mode, "err", err)
		fb := parseHeuristic(raw, mode)
		fb.TokenCount = set.TokenCount
		return fb, nil
	}

	set.Concepts = sanitizeConcepts(res.Concepts)
	set.Entities = res.Entities
	set.Adjectives = sanitizeAdjectives(res.Adjectives)
	set.Verbs = res.Verbs
	set.Phrases = sanitizePhrases(res.Phrases)
	set.Relations = res.Relations
	return set, nil
}

// IdentifyBatch annotates each text independently. One text's failure never
// aborts the batch; results preserve input order.
func (e *Extractor) IdentifyBatch(ctx context.Context, texts []string, mode Mode) (*BatchResult, error) {
	if e.client == nil {
		return nil, ErrServiceUnavailable
	}

	result := &BatchResult{Items: make([]BatchItem, 0, len(texts))}
	conceptCounts := map[string]int{}
	entityCounts := map[string]int{}

	for i, text := range texts {
		item := BatchItem{Index: i}
		units, err := e.Identify(ctx, text, mode)
		if err != nil {
			item.Error = err.Error()
			result.FailureCount++
		} else {
			item.Success = true
			item.Units = units
			result.SuccessCount++
			for _, c := range units.Concepts {
				conceptCounts[c.Text]++
			}
			for _, en := range units.Entities {
				entityCounts[en.Text]++
			}
		}
		result.Items = append(result.Items, item)
	}

	result.FrequentConcepts = topFrequent(conceptCounts, 10)
	result.FrequentEntities = topFrequent(entityCounts, 10)
	return result, nil
}

func topFrequent(counts map[string]int, limit int) []FrequentUnit {
	out := make([]FrequentUnit, 0, len(counts))
	for text, count := range counts {
		out = append(out, FrequentUnit{Text: text, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Text < out[j].Text
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func countTokens(text string) int {
	enc, err := tiktoken.GetEncoding("o200k_base")
	if err != nil {
		return 0
	}
	return len(enc.Encode(text, nil, nil))
}

func clampAttr(v int) int {
	if v < 1 {
		return 3
	}
	if v > 5 {
		return 5
	}
	return v
}

func sanitizeConcepts(in []Concept) []Concept {
	out := make([]Concept, 0, len(in))
	for _, c := range in {
		if strings.TrimSpace(c.Text) == "" {
			continue
		}
		c.Importance = clampAttr(c.Importance)
		out = append(out, c)
	}
	return out
}

func sanitizeAdjectives(in []AdjectivePhrase) []AdjectivePhrase {
	out := make([]AdjectivePhrase, 0, len(in))
	for _, a := range in {
		if strings.TrimSpace(a.Text) == "" {
			continue
		}
		a.Intensity = clampAttr(a.Intensity)
		switch a.Polarity {
		case "positive", "negative", "neutral":
		default:
			a.Polarity = "neutral"
		}
		out = append(out, a)
	}
	return out
}

func sanitizePhrases(in []KeyPhrase) []KeyPhrase {
	out := make([]KeyPhrase, 0, len(in))
	for _, p := range in {
		if strings.TrimSpace(p.Text) == "" {
			continue
		}
		p.Importance = clampAttr(p.Importance)
		out = append(out, p)
	}
	return out
}
