package mcpserver

import (
	"testing"

	"pageforge/internal/domain"
)

func TestResolveKey_RequiresActivePageOrArgs(t *testing.T) {
	s := New(Deps{})

	if _, err := s.resolveKey(map[string]any{}); err == nil {
		t.Error("expected error with no active page and no args")
	}

	key, err := s.resolveKey(map[string]any{
		"bookKey":   "book-a",
		"pageIndex": float64(2),
		"side":      "back",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	expected := domain.LayoutKey{BookKey: "book-a", PageIndex: 2, Side: domain.SideBack}
	if key != expected {
		t.Errorf("got %+v, expected %+v", key, expected)
	}
}

func TestResolveKey_ArgsOverrideActivePage(t *testing.T) {
	s := New(Deps{})
	s.setActiveKey(domain.LayoutKey{BookKey: "book-a", PageIndex: 0, Side: domain.SideFront})

	key, err := s.resolveKey(map[string]any{"pageIndex": float64(7)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.BookKey != "book-a" || key.PageIndex != 7 || key.Side != domain.SideFront {
		t.Errorf("got %+v", key)
	}
}

func TestResolveKey_RejectsUnknownSide(t *testing.T) {
	s := New(Deps{})
	if _, err := s.resolveKey(map[string]any{"bookKey": "b", "side": "middle"}); err == nil {
		t.Error("expected error for unknown side")
	}
}

func TestResolveKey_DefaultsSideToFront(t *testing.T) {
	s := New(Deps{})
	key, err := s.resolveKey(map[string]any{"bookKey": "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if key.Side != domain.SideFront {
		t.Errorf("side: got %q, expected front", key.Side)
	}
}
