package store

import "testing"

func TestApplyListCommitsLatest(t *testing.T) {
	s := NewSlice[int]()
	seq := s.Begin()
	if !s.Loading() {
		t.Fatal("Begin should mark the slice loading")
	}
	if !s.ApplyList(seq, []int{1, 2, 3}) {
		t.Fatal("latest ticket should commit")
	}
	if s.Loading() {
		t.Fatal("commit should clear loading")
	}
	if s.Len() != 3 {
		t.Fatalf("expected 3 items, got %d", s.Len())
	}
	if s.Err() != "" {
		t.Fatalf("expected no error, got %q", s.Err())
	}
}

func TestStaleResultDiscarded(t *testing.T) {
	s := NewSlice[int]()
	old := s.Begin()
	fresh := s.Begin()

	if !s.ApplyList(fresh, []int{9}) {
		t.Fatal("fresh ticket should commit")
	}
	if s.ApplyList(old, []int{1, 2, 3}) {
		t.Fatal("stale ticket must be discarded")
	}
	items := s.Items()
	if len(items) != 1 || items[0] != 9 {
		t.Fatalf("stale commit overwrote data: %v", items)
	}
}

func TestStaleFailureDiscarded(t *testing.T) {
	s := NewSlice[int]()
	old := s.Begin()
	fresh := s.Begin()
	s.ApplyList(fresh, []int{1})

	if s.Fail(old, "boom") {
		t.Fatal("stale failure must be discarded")
	}
	if s.Err() != "" {
		t.Fatalf("stale failure set the error: %q", s.Err())
	}
}

func TestFailKeepsData(t *testing.T) {
	s := NewSlice[int]()
	s.ApplyList(s.Begin(), []int{1, 2})

	seq := s.Begin()
	if !s.Fail(seq, "server down") {
		t.Fatal("latest failure should commit")
	}
	if s.Loading() {
		t.Fatal("failure should clear loading")
	}
	if s.Err() != "server down" {
		t.Fatalf("unexpected error: %q", s.Err())
	}
	if s.Len() != 2 {
		t.Fatal("failure must not drop existing data")
	}

	s.ClearError()
	if s.Err() != "" {
		t.Fatal("ClearError should reset the flag")
	}
}

func TestEmptyListIsSettled(t *testing.T) {
	s := NewSlice[int]()
	s.ApplyList(s.Begin(), []int{})
	if s.Loading() || s.Err() != "" || s.Len() != 0 {
		t.Fatalf("empty result should settle cleanly: loading=%v err=%q len=%d", s.Loading(), s.Err(), s.Len())
	}
}

func TestPatchAndRemove(t *testing.T) {
	type row struct{ ID, V int }
	s := NewSlice[row]()
	s.ApplyList(s.Begin(), []row{{1, 10}, {2, 20}, {3, 30}})

	if !s.Patch(func(r row) bool { return r.ID == 2 }, row{2, 99}) {
		t.Fatal("patch should match")
	}
	if s.Patch(func(r row) bool { return r.ID == 7 }, row{7, 0}) {
		t.Fatal("patch with no match should report false")
	}
	items := s.Items()
	if items[1].V != 99 {
		t.Fatalf("patch did not replace: %v", items)
	}

	s.Remove(func(r row) bool { return r.ID == 1 })
	if s.Len() != 2 {
		t.Fatalf("expected 2 items after remove, got %d", s.Len())
	}

	s.Append(row{4, 40})
	if s.Len() != 3 {
		t.Fatalf("expected 3 items after append, got %d", s.Len())
	}
}

func TestCurrentItem(t *testing.T) {
	s := NewSlice[string]()
	if _, ok := s.Current(); ok {
		t.Fatal("fresh slice should have no current item")
	}
	s.SetCurrent("a")
	if cur, ok := s.Current(); !ok || cur != "a" {
		t.Fatalf("unexpected current: %q %v", cur, ok)
	}
	s.ClearCurrent()
	if _, ok := s.Current(); ok {
		t.Fatal("ClearCurrent should drop the item")
	}
}

func TestItemsReturnsCopy(t *testing.T) {
	s := NewSlice[int]()
	s.ApplyList(s.Begin(), []int{1, 2})
	items := s.Items()
	items[0] = 99
	if s.Items()[0] != 1 {
		t.Fatal("Items must return a copy")
	}
}
