package store

import "testing"

func TestOpenCreatesSchema(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()
}

func TestPutThenGetRoundTrips(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	want := Result{
		Status:    "solved-unique",
		Boards:    []BoardJSON{{H: 1, W: 2, Cells: []string{"ink", "space"}}},
		ElapsedMS: 42,
	}
	if err := s.Put("fp1", want); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get("fp1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok {
		t.Fatal("expected a cache hit")
	}
	if got.Status != want.Status || got.ElapsedMS != want.ElapsedMS {
		t.Errorf("got %+v, want %+v", got, want)
	}
	if len(got.Boards) != 1 || got.Boards[0].H != 1 || got.Boards[0].W != 2 {
		t.Errorf("boards round-trip mismatch: %+v", got.Boards)
	}
}

func TestGetMissReturnsFalse(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	_, ok, err := s.Get("nope")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("expected a cache miss for an unknown fingerprint")
	}
}

func TestPutOverwritesExistingEntry(t *testing.T) {
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.Put("fp1", Result{Status: "contradictory"}); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put("fp1", Result{Status: "solved-unique", ElapsedMS: 7}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, ok, err := s.Get("fp1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !ok || got.Status != "solved-unique" || got.ElapsedMS != 7 {
		t.Errorf("got %+v, want the overwritten entry", got)
	}
}
