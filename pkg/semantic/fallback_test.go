package semantic

import "testing"

func TestParseHeuristic_SectionedReply(t *testing.T) {
	raw := `概念: 机器学习, 神经网络
实体:
- OpenAI
- 北京
关键词:
1. 深度学习模型
关系:
- 机器学习 -> 包含 -> 神经网络`

	set := parseHeuristic(raw, ModeComprehensive)
	if !set.Degraded {
		t.Fatal("expected degraded set")
	}
	if set.Source != "heuristic" {
		t.Fatalf("expected heuristic source, got %q", set.Source)
	}
	if len(set.Concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %v", set.Concepts)
	}
	if set.Concepts[0].Text != "机器学习" || set.Concepts[0].Importance != 3 {
		t.Fatalf("expected neutral concept defaults, got %+v", set.Concepts[0])
	}
	if len(set.Entities) != 2 || set.Entities[1].Text != "北京" {
		t.Fatalf("expected 2 entities ending with 北京, got %v", set.Entities)
	}
	if len(set.Phrases) != 1 || set.Phrases[0].Text != "深度学习模型" {
		t.Fatalf("expected 1 phrase, got %v", set.Phrases)
	}
	if len(set.Relations) != 1 {
		t.Fatalf("expected 1 relation, got %v", set.Relations)
	}
	rel := set.Relations[0]
	if rel.Subject != "机器学习" || rel.Predicate != "包含" || rel.Object != "神经网络" {
		t.Fatalf("unexpected relation: %+v", rel)
	}
}

func TestParseHeuristic_EnglishHeadings(t *testing.T) {
	raw := `Concepts: gravity, relativity
Named Entities: Einstein`

	set := parseHeuristic(raw, ModeComprehensive)
	if len(set.Concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %v", set.Concepts)
	}
	if len(set.Entities) != 1 || set.Entities[0].Text != "Einstein" {
		t.Fatalf("expected entity Einstein, got %v", set.Entities)
	}
}

func TestParseHeuristic_ConceptModeDefaultsBucket(t *testing.T) {
	// Concept mode treats leading bullets as concepts even without a heading.
	raw := "- 量子计算\n- 密码学"

	set := parseHeuristic(raw, ModeConcept)
	if len(set.Concepts) != 2 {
		t.Fatalf("expected 2 concepts, got %v", set.Concepts)
	}
}

func TestParseHeuristic_IgnoresProseWithoutBucket(t *testing.T) {
	raw := "I could not produce JSON for this text.\nSorry about that."

	set := parseHeuristic(raw, ModeComprehensive)
	if set.UnitCount() != 0 {
		t.Fatalf("expected empty set, got %d units", set.UnitCount())
	}
}

func TestClampAttr(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 3},
		{-1, 3},
		{1, 1},
		{5, 5},
		{9, 5},
	}
	for _, tc := range tests {
		if got := clampAttr(tc.in); got != tc.want {
			t.Fatalf("clampAttr(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}
