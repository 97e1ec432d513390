package router

import (
	"testing"

	"hr-assistant-be/pkg/store"
)

func TestResolveAppendsNameFromHistory(t *testing.T) {
	r := NewReferenceResolver()
	history := []store.Turn{
		{Role: store.RoleUser, Content: "How many sick leaves are left for Hamid?"},
		{Role: store.RoleAssistant, Content: "Hamid has 7 sick leaves remaining."},
		{Role: store.RoleUser, Content: "what about his casual leaves?"},
	}

	got := r.Resolve("what about his casual leaves?", history)
	if got != "what about his casual leaves for Hamid" {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestResolvePrefersNewestName(t *testing.T) {
	r := NewReferenceResolver()
	history := []store.Turn{
		{Role: store.RoleUser, Content: "show me the leaves of Hamid"},
		{Role: store.RoleUser, Content: "show me the activity logs of Rashed"},
	}

	got := r.Resolve("what did he do yesterday?", history)
	if got != "what did he do yesterday for Rashed" {
		t.Errorf("Resolve() = %q", got)
	}
}

func TestResolveLeavesNamedQuestionAlone(t *testing.T) {
	r := NewReferenceResolver()
	history := []store.Turn{
		{Role: store.RoleUser, Content: "show me the leaves of Hamid"},
	}

	q := "what about her leaves, I mean Sara's?"
	if got := r.Resolve(q, history); got != q {
		t.Errorf("Resolve() rewrote a question that already names someone: %q", got)
	}
}

func TestResolveWithoutReferentPassesThrough(t *testing.T) {
	r := NewReferenceResolver()
	history := []store.Turn{
		{Role: store.RoleUser, Content: "show me the leaves of Hamid"},
	}

	q := "list all departments"
	if got := r.Resolve(q, history); got != q {
		t.Errorf("Resolve() = %q, want unchanged", got)
	}
}

func TestResolveNoNameInHistoryPassesThrough(t *testing.T) {
	r := NewReferenceResolver()
	history := []store.Turn{
		{Role: store.RoleUser, Content: "list all departments"},
	}

	q := "what about his leaves?"
	if got := r.Resolve(q, history); got != q {
		t.Errorf("Resolve() = %q, want unchanged", got)
	}
}
