package store

import (
	"testing"
)

func TestAppendHistoryEvictsOldest(t *testing.T) {
	s := NewSession("s1")
	for i := 0; i < HistoryLimit+3; i++ {
		s.AppendHistory(RoleUser, string(rune('a'+i)))
	}

	if len(s.History) != HistoryLimit {
		t.Fatalf("History length = %d, want %d", len(s.History), HistoryLimit)
	}
	// The three oldest turns must be gone
	if s.History[0].Content != "d" {
		t.Errorf("oldest retained turn = %q, want %q", s.History[0].Content, "d")
	}
	if s.History[len(s.History)-1].Content != string(rune('a'+HistoryLimit+2)) {
		t.Errorf("newest turn = %q, want last appended", s.History[len(s.History)-1].Content)
	}
}

func TestRecentHistoryNewestFirst(t *testing.T) {
	s := NewSession("s1")
	s.AppendHistory(RoleUser, "first")
	s.AppendHistory(RoleAssistant, "second")
	s.AppendHistory(RoleUser, "third")

	recent := s.RecentHistory(2)
	if len(recent) != 2 {
		t.Fatalf("len = %d, want 2", len(recent))
	}
	if recent[0].Content != "third" || recent[1].Content != "second" {
		t.Errorf("order = [%s %s], want [third second]", recent[0].Content, recent[1].Content)
	}
}

func TestRecentHistoryBounds(t *testing.T) {
	s := NewSession("s1")
	s.AppendHistory(RoleUser, "only")

	if got := s.RecentHistory(0); got != nil {
		t.Errorf("RecentHistory(0) = %v, want nil", got)
	}
	if got := s.RecentHistory(10); len(got) != 1 {
		t.Errorf("RecentHistory(10) len = %d, want 1", len(got))
	}
}
