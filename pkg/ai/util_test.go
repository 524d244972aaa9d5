package ai

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUnmarshalFlexible_ObjectVariants(t *testing.T) {
	type concept struct {
		Text       string `json:"text"`
		Importance int    `json:"importance,omitempty"`
	}

	tests := []struct {
		name  string
		input string
		want  concept
	}{
		{
			name:  "valid json object",
			input: `{"text":"机器学习"}`,
			want:  concept{Text: "机器学习"},
		},
		{
			name:  "unquoted key and single quotes",
			input: `{text: '机器学习'}`,
			want:  concept{Text: "机器学习"},
		},
		{
			name:  "trailing comma",
			input: `{"text":"机器学习",}`,
			want:  concept{Text: "机器学习"},
		},
		{
			name:  "missing endbracket",
			input: `{"text":"机器学习`,
			want:  concept{Text: "机器学习"},
		},
		{
			name:  "stringified invalid json object",
			input: `"{text: '机器学习'}"`,
			want:  concept{Text: "机器学习"},
		},
		{
			name:  "fenced code block",
			input: "```json\n{\"text\":\"机器学习\",\"importance\":4}\n```",
			want:  concept{Text: "机器学习", Importance: 4},
		},
		{
			name:  "object embedded in prose",
			input: "Here is the annotation you asked for:\n{\"text\":\"机器学习\"}\nLet me know if you need more.",
			want:  concept{Text: "机器学习"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var got concept
			if err := UnmarshalFlexible(tc.input, &got); err != nil {
				t.Fatalf("UnmarshalFlexible() error = %v", err)
			}
			if got.Text != tc.want.Text || got.Importance != tc.want.Importance {
				t.Fatalf("UnmarshalFlexible() got = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestUnmarshalFlexible_Unrecoverable(t *testing.T) {
	type concept struct {
		Text string `json:"text"`
	}

	var got concept
	if err := UnmarshalFlexible("hello", &got); err == nil {
		t.Fatalf("UnmarshalFlexible() expected error for unrecoverable input")
	}
}

func TestExtractJSONBlock(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "plain object passthrough",
			input: `{"a":1}`,
			want:  `{"a":1}`,
		},
		{
			name:  "fenced with language tag",
			input: "```json\n{\"a\":1}\n```",
			want:  `{"a":1}`,
		},
		{
			name:  "prose around object",
			input: "sure, here you go: {\"a\":1} hope that helps",
			want:  `{"a":1}`,
		},
		{
			name:  "no object boundaries",
			input: "no json here",
			want:  "no json here",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractJSONBlock(tc.input); got != tc.want {
				t.Fatalf("ExtractJSONBlock() got = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestGenerateSchema_UsesDescriptionsAndForbidsExtras(t *testing.T) {
	type rating struct {
		Score int    `json:"score" jsonschema_description:"Novelty score from 1 to 5"`
		Label string `json:"label"`
	}

	raw, err := json.Marshal(GenerateSchema(rating{}))
	if err != nil {
		t.Fatalf("expected schema to marshal, got %v", err)
	}
	out := string(raw)
	if !strings.Contains(out, `"additionalProperties":false`) {
		t.Fatalf("expected additionalProperties to be forbidden, got %s", out)
	}
	if !strings.Contains(out, "Novelty score from 1 to 5") {
		t.Fatalf("expected jsonschema_description to be carried over, got %s", out)
	}
}
