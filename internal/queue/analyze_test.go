package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/stylemetry/engine/pkg/pipeline"
	"github.com/stylemetry/engine/pkg/profile"
	"github.com/stylemetry/engine/pkg/semantic"
)

type stubStorage struct {
	saved   []*profile.StyleProfile
	saveErr error
}

func (s *stubStorage) SaveProfile(_ context.Context, p *profile.StyleProfile) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saved = append(s.saved, p)
	return nil
}

func (s *stubStorage) GetProfile(context.Context, string) (*profile.StyleProfile, error) {
	return nil, errors.New("not implemented")
}

func (s *stubStorage) ListProfiles(context.Context, int) ([]*profile.StyleProfile, error) {
	return nil, nil
}

func (s *stubStorage) DeleteProfile(context.Context, string) error { return nil }

func (s *stubStorage) SaveComparison(context.Context, *profile.Comparison) error { return nil }

func (s *stubStorage) NearestProfiles(context.Context, *profile.StyleProfile, int) ([]*profile.StyleProfile, error) {
	return nil, nil
}

func TestModeFromString(t *testing.T) {
	cases := []struct {
		in   string
		want semantic.Mode
	}{
		{"comprehensive", semantic.ModeComprehensive},
		{"concept", semantic.ModeConcept},
		{"entity", semantic.ModeEntity},
		{"sentiment", semantic.ModeSentiment},
		{"relation", semantic.ModeRelation},
		{"", semantic.ModeComprehensive},
		{"bogus", semantic.ModeComprehensive},
	}
	for _, c := range cases {
		if got := modeFromString(c.in); got != c.want {
			t.Fatalf("modeFromString(%q) = %q, expected %q", c.in, got, c.want)
		}
	}
}

func TestProcessAnalyzeMessage_RejectsBadJSON(t *testing.T) {
	p := pipeline.New(nil, nil)
	if err := ProcessAnalyzeMessage(context.Background(), p, &stubStorage{}, "{not json"); err == nil {
		t.Fatal("expected error for undecodable message")
	}
}

func TestProcessAnalyzeMessage_EmptyTextsIsNoop(t *testing.T) {
	p := pipeline.New(nil, nil)
	st := &stubStorage{}
	if err := ProcessAnalyzeMessage(context.Background(), p, st, `{"batch_id":"b1","texts":[]}`); err != nil {
		t.Fatalf("expected no error for empty batch, got %v", err)
	}
	if len(st.saved) != 0 {
		t.Fatalf("expected nothing saved, got %d", len(st.saved))
	}
}

func TestProcessAnalyzeMessage_SavesProfiles(t *testing.T) {
	// A pipeline without an AI client still produces fallback profiles, which
	// is all the message handler needs to persist.
	p := pipeline.New(nil, nil)
	st := &stubStorage{}

	msg := `{"batch_id":"b2","document_name":"essay","texts":["一","二"],"mode":"concept","analysis_depth":"basic"}`
	if err := ProcessAnalyzeMessage(context.Background(), p, st, msg); err != nil {
		t.Fatalf("expected message to be processed, got %v", err)
	}
	if len(st.saved) != 2 {
		t.Fatalf("expected 2 profiles saved, got %d", len(st.saved))
	}
	if st.saved[0].DocumentName != "essay-1" || st.saved[1].DocumentName != "essay-2" {
		t.Fatalf("unexpected document names: %q, %q", st.saved[0].DocumentName, st.saved[1].DocumentName)
	}
}

func TestProcessAnalyzeMessage_StorageFailureIsRetried(t *testing.T) {
	p := pipeline.New(nil, nil)
	st := &stubStorage{saveErr: errors.New("disk full")}

	msg := `{"batch_id":"b3","texts":["一"]}`
	if err := ProcessAnalyzeMessage(context.Background(), p, st, msg); err == nil {
		t.Fatal("expected storage failure to surface for retry")
	}
}
