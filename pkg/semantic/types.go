package semantic

// Mode selects which semantic unit families an annotation pass identifies.
type Mode string

const (
	ModeComprehensive Mode = "comprehensive"
	ModeConcept       Mode = "concept"
	ModeEntity        Mode = "entity"
	ModeSentiment     Mode = "sentiment"
	ModeRelation      Mode = "relation"
)

// Valid reports whether m is one of the supported annotation modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeComprehensive, ModeConcept, ModeEntity, ModeSentiment, ModeRelation:
		return true
	}
	return false
}

// Concept is an abstract idea the text discusses.
type Concept struct {
	Text       string `json:"text"`
	Category   string `json:"category"`
	Importance int    `json:"importance"` // 1-5
}

// NamedEntity is a proper-name reference found in the text.
type NamedEntity struct {
	Text     string `json:"text"`
	Category string `json:"category"`
}

// AdjectivePhrase is a descriptive word or phrase carrying sentiment.
type AdjectivePhrase struct {
	Text      string `json:"text"`
	Polarity  string `json:"polarity"`  // positive | negative | neutral
	Intensity int    `json:"intensity"` // 1-5
}

// VerbPhrase is an action word or phrase.
type VerbPhrase struct {
	Text     string `json:"text"`
	Category string `json:"category,omitempty"`
	Polarity string `json:"polarity,omitempty"`
}

// KeyPhrase is a short multi-word expression central to the text.
type KeyPhrase struct {
	Text       string `json:"text"`
	Importance int    `json:"importance"` // 1-5
}

// Relation is a subject-predicate-object triple between semantic units.
type Relation struct {
	Subject   string `json:"subject"`
	Predicate string `json:"predicate"`
	Object    string `json:"object"`
}

// UnitSet is the typed catalog of semantic units identified in one text.
// It is created per analysis call and never persisted standalone.
type UnitSet struct {
	Mode       Mode   `json:"mode"`
	TokenCount int    `json:"token_count"`

	Concepts   []Concept         `json:"concepts"`
	Entities   []NamedEntity     `json:"named_entities"`
	Adjectives []AdjectivePhrase `json:"key_adjectives"`
	Verbs      []VerbPhrase      `json:"key_verbs"`
	Phrases    []KeyPhrase       `json:"key_phrases"`
	Relations  []Relation        `json:"semantic_relations"`

	// Degraded marks unit sets recovered by the heuristic line parser after
	// the annotation response failed JSON parsing. Attribute values on
	// degraded sets are defaults, not model judgments.
	Degraded bool   `json:"degraded,omitempty"`
	Source   string `json:"source"` // annotation | heuristic
}

// Empty reports whether the set contains no units of any family.
func (s *UnitSet) Empty() bool {
	return len(s.Concepts) == 0 &&
		len(s.Entities) == 0 &&
		len(s.Adjectives) == 0 &&
		len(s.Verbs) == 0 &&
		len(s.Phrases) == 0 &&
		len(s.Relations) == 0
}

// UnitCount returns the total number of units across all families.
func (s *UnitSet) UnitCount() int {
	return len(s.Concepts) +
		len(s.Entities) +
		len(s.Adjectives) +
		len(s.Verbs) +
		len(s.Phrases) +
		len(s.Relations)
}

// BatchItem is the outcome for one text of a batch identification.
type BatchItem struct {
	Index   int      `json:"index"`
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Units   *UnitSet `json:"units,omitempty"`
}

// FrequentUnit is a unit text with its occurrence count across a batch.
type FrequentUnit struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// BatchResult aggregates per-text outcomes of a batch identification with
// success/failure tallies and the most frequent concepts and entities.
type BatchResult struct {
	Items            []BatchItem    `json:"items"`
	SuccessCount     int            `json:"success_count"`
	FailureCount     int            `json:"failure_count"`
	FrequentConcepts []FrequentUnit `json:"frequent_concepts"`
	FrequentEntities []FrequentUnit `json:"frequent_entities"`
}
