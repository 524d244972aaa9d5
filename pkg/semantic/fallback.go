package semantic

import (
	"regexp"
	"strings"
)

// Heuristic line parser for annotation replies that failed JSON parsing.
// It walks the reply line by line, switching buckets on section headings and
// collecting bulleted, numbered or comma-separated items under the current
// bucket. All scalar attributes receive neutral defaults since the model's
// judgments were lost with the broken JSON.

type unitFamily int

const (
	familyNone unitFamily = iota
	familyConcept
	familyEntity
	familyAdjective
	familyVerb
	familyPhrase
	familyRelation
)

var (
	reHeading  = regexp.MustCompile(`(?i)^\s*(?:#+\s*)?([^:：]{1,40})[:：]\s*(.*)$`)
	reBullet   = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)、])\s+(.+)$`)
	reRelation = regexp.MustCompile(`^(.{1,80}?)\s*(?:->|→|—|--)\s*(.{1,80}?)\s*(?:->|→|—|--)\s*(.{1,80})$`)
	reSplit    = regexp.MustCompile(`\s*[,，、;；]\s*`)
)

var familyKeywords = map[unitFamily][]string{
	familyConcept:   {"concept", "概念"},
	familyEntity:    {"entit", "named", "实体"},
	familyAdjective: {"adjective", "descript", "sentiment", "形容", "情感"},
	familyVerb:      {"verb", "action", "动词", "动作"},
	familyPhrase:    {"phrase", "keyword", "短语", "关键词"},
	familyRelation:  {"relation", "triple", "关系"},
}

func matchFamily(heading string) unitFamily {
	h := strings.ToLower(heading)
	for family, keywords := range familyKeywords {
		for _, kw := range keywords {
			if strings.Contains(h, kw) {
				return family
			}
		}
	}
	return familyNone
}

func cleanItem(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, `"'“”‘’`)
	s = strings.TrimSuffix(s, ".")
	s = strings.TrimSuffix(s, "。")
	return strings.TrimSpace(s)
}

// parseHeuristic recovers a degraded unit set from free-form annotation text.
func parseHeuristic(raw string, mode Mode) *UnitSet {
	set := &UnitSet{
		Mode:     mode,
		Degraded: true,
		Source:   "heuristic",
	}

	current := familyNone
	if mode == ModeConcept {
		current = familyConcept
	}
	if mode == ModeEntity {
		current = familyEntity
	}

	addItem := func(family unitFamily, item string) {
		item = cleanItem(item)
		if item == "" || len(item) > 120 {
			return
		}
		switch family {
		case familyConcept:
			set.Concepts = append(set.Concepts, Concept{Text: item, Category: "general", Importance: 3})
		case familyEntity:
			set.Entities = append(set.Entities, NamedEntity{Text: item, Category: "unknown"})
		case familyAdjective:
			set.Adjectives = append(set.Adjectives, AdjectivePhrase{Text: item, Polarity: "neutral", Intensity: 3})
		case familyVerb:
			set.Verbs = append(set.Verbs, VerbPhrase{Text: item})
		case familyPhrase:
			set.Phrases = append(set.Phrases, KeyPhrase{Text: item, Importance: 3})
		case familyRelation:
			if m := reRelation.FindStringSubmatch(item); m != nil {
				set.Relations = append(set.Relations, Relation{
					Subject:   cleanItem(m[1]),
					Predicate: cleanItem(m[2]),
					Object:    cleanItem(m[3]),
				})
			}
		}
	}

	addList := func(family unitFamily, list string) {
		if family == familyRelation {
			addItem(family, list)
			return
		}
		for _, part := range reSplit.Split(list, -1) {
			addItem(family, part)
		}
	}

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if m := reHeading.FindStringSubmatch(line); m != nil {
			if family := matchFamily(m[1]); family != familyNone {
				current = family
				if rest := strings.TrimSpace(m[2]); rest != "" {
					addList(family, rest)
				}
				continue
			}
		}

		if current == familyNone {
			continue
		}

		if m := reBullet.FindStringSubmatch(line); m != nil {
			addList(current, m[1])
			continue
		}

		addList(current, line)
	}

	return set
}
