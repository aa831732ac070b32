package reorder

import (
	"reflect"
	"sort"
	"testing"
)

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		order    []string
		from, to int
		want     []string
	}{
		{"forward", []string{"a", "b", "c", "d"}, 1, 3, []string{"a", "c", "d", "b"}},
		{"backward", []string{"a", "b", "c", "d"}, 3, 0, []string{"d", "a", "b", "c"}},
		{"adjacent", []string{"a", "b", "c"}, 0, 1, []string{"b", "a", "c"}},
		{"same index", []string{"a", "b", "c"}, 1, 1, []string{"a", "b", "c"}},
		{"from out of range", []string{"a", "b"}, 5, 0, []string{"a", "b"}},
		{"to out of range", []string{"a", "b"}, 0, -1, []string{"a", "b"}},
		{"single element", []string{"a"}, 0, 0, []string{"a"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Move(tt.order, tt.from, tt.to)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Move(%v, %d, %d) = %v, want %v", tt.order, tt.from, tt.to, got, tt.want)
			}
		})
	}
}

func TestMoveIsPermutation(t *testing.T) {
	order := []string{"a", "b", "c", "d", "e"}
	for from := 0; from < len(order); from++ {
		for to := 0; to < len(order); to++ {
			got := Move(order, from, to)
			if len(got) != len(order) {
				t.Fatalf("Move(%d,%d) changed length: %v", from, to, got)
			}
			a := append([]string{}, order...)
			b := append([]string{}, got...)
			sort.Strings(a)
			sort.Strings(b)
			if !reflect.DeepEqual(a, b) {
				t.Errorf("Move(%d,%d) = %v is not a permutation of %v", from, to, got, order)
			}
		}
	}
}

func TestMoveReciprocal(t *testing.T) {
	order := []string{"a", "b", "c", "d"}
	for from := 0; from < len(order); from++ {
		for to := 0; to < len(order); to++ {
			back := Move(Move(order, from, to), to, from)
			if !reflect.DeepEqual(back, order) {
				t.Errorf("Move(Move(o,%d,%d),%d,%d) = %v, want original", from, to, to, from, back)
			}
		}
	}
}

func TestMoveDoesNotMutateInput(t *testing.T) {
	order := []string{"a", "b", "c"}
	Move(order, 0, 2)
	if !reflect.DeepEqual(order, []string{"a", "b", "c"}) {
		t.Errorf("input mutated: %v", order)
	}
}

func TestDragEndSections(t *testing.T) {
	c := NewCoordinator()

	var got []string
	c.OnSections(func(newOrder []string) { got = newOrder })

	ok := c.DragEnd(SectionScope, []string{"s1", "s2", "s3"}, "s1", "s3")
	if !ok {
		t.Fatal("DragEnd returned false for a valid gesture")
	}
	if !reflect.DeepEqual(got, []string{"s2", "s3", "s1"}) {
		t.Errorf("new order = %v", got)
	}
}

func TestDragEndItems(t *testing.T) {
	c := NewCoordinator()

	var gotSection string
	var gotOrder []string
	c.OnItems(func(sectionID string, newOrder []string) {
		gotSection = sectionID
		gotOrder = newOrder
	})
	sectionsCalled := false
	c.OnSections(func([]string) { sectionsCalled = true })

	ok := c.DragEnd(ItemScope("custom-1"), []string{"i1", "i2"}, "i2", "i1")
	if !ok {
		t.Fatal("DragEnd returned false for a valid gesture")
	}
	if gotSection != "custom-1" {
		t.Errorf("section = %q, want custom-1", gotSection)
	}
	if !reflect.DeepEqual(gotOrder, []string{"i2", "i1"}) {
		t.Errorf("item order = %v", gotOrder)
	}
	if sectionsCalled {
		t.Error("item drag leaked into the section scope")
	}
}

func TestDragEndNoOps(t *testing.T) {
	c := NewCoordinator()
	called := false
	c.OnSections(func([]string) { called = true })
	c.OnItems(func(string, []string) { called = true })

	order := []string{"a", "b", "c"}
	tests := []struct {
		name             string
		activeID, overID string
	}{
		{"empty over", "a", ""},
		{"same ids", "b", "b"},
		{"stale active", "ghost", "a"},
		{"stale over", "a", "ghost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if c.DragEnd(SectionScope, order, tt.activeID, tt.overID) {
				t.Error("DragEnd returned true, want no-op")
			}
			if called {
				t.Error("callback invoked on a no-op gesture")
			}
		})
	}
}

func TestScopeRoundTrip(t *testing.T) {
	if _, ok := SectionScope.SectionID(); ok {
		t.Error("section scope must not resolve to a section id")
	}
	id, ok := ItemScope("s9").SectionID()
	if !ok || id != "s9" {
		t.Errorf("ItemScope round trip = (%q, %v)", id, ok)
	}
}
