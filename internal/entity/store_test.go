package entity

import (
	"errors"
	"testing"
)

func TestTableSetGet(t *testing.T) {
	s := NewStore()
	names := NewTable[string](s)

	a, b := s.Create(), s.Create()
	if a == b {
		t.Fatal("ids must be unique")
	}

	if err := names.Set(a, "a"); err != nil {
		t.Fatal(err)
	}
	if err := names.Set(b, "b"); err != nil {
		t.Fatal(err)
	}
	if err := names.Set(b, "b2"); err != nil {
		t.Fatal(err)
	}

	v, ok := names.Get(b)
	if !ok || v != "b2" {
		t.Fatal("expected replaced component, got", v, ok)
	}
	if names.Len() != 2 {
		t.Fatal("replace must not grow the table")
	}
}

func TestDeleteDropsComponents(t *testing.T) {
	s := NewStore()
	names := NewTable[string](s)
	nums := NewTable[int](s)

	a, b, c := s.Create(), s.Create(), s.Create()
	for _, id := range []ID{a, b, c} {
		if err := names.Set(id, "x"); err != nil {
			t.Fatal(err)
		}
	}
	if err := nums.Set(b, 1); err != nil {
		t.Fatal(err)
	}

	s.Delete(b)

	if s.Alive(b) {
		t.Fatal("deleted entity still alive")
	}
	if names.Has(b) || nums.Has(b) {
		t.Fatal("delete must drop components from every table")
	}
	if !names.Has(a) || !names.Has(c) {
		t.Fatal("delete removed the wrong entity")
	}

	// The insert/delete race within a tick is refused, not fatal
	err := nums.Set(b, 2)
	if !errors.Is(err, ErrDeleted) {
		t.Fatal("expected ErrDeleted, got", err)
	}

	// Ids are not reused
	d := s.Create()
	if d == b {
		t.Fatal("id reused after delete")
	}
}

func TestJoin(t *testing.T) {
	s := NewStore()
	names := NewTable[string](s)
	nums := NewTable[int](s)
	flags := NewTable[bool](s)

	// a: name+num, b: name+num+flag, c: name, d: num
	a, b, c, d := s.Create(), s.Create(), s.Create(), s.Create()
	names.Set(a, "a")
	names.Set(b, "b")
	names.Set(c, "c")
	nums.Set(a, 1)
	nums.Set(b, 2)
	nums.Set(d, 4)
	flags.Set(b, true)

	got := Join([]Set{names, nums}, []Set{flags})
	if len(got) != 1 || got[0] != a {
		t.Fatal("expected only", a, "got", got)
	}

	got = Join([]Set{names, nums}, nil)
	if len(got) != 2 || got[0] != a || got[1] != b {
		t.Fatal("expected ascending", a, b, "got", got)
	}

	if out := Join(nil, nil); out != nil {
		t.Fatal("empty join must be empty")
	}
}

func TestJoinOrderStableAfterChurn(t *testing.T) {
	s := NewStore()
	names := NewTable[string](s)

	ids := make([]ID, 16)
	for i := range ids {
		ids[i] = s.Create()
		names.Set(ids[i], "x")
	}
	// swap-remove scrambles the dense table
	s.Delete(ids[0])
	s.Delete(ids[7])
	s.Delete(ids[15])

	got := Join([]Set{names}, nil)
	for i := 1; i < len(got); i++ {
		if got[i-1] >= got[i] {
			t.Fatal("join order must ascend, got", got)
		}
	}
	if len(got) != 13 {
		t.Fatal("expected 13 survivors, got", len(got))
	}
}
