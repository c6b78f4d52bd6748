package lru

import "testing"

func TestNew_InvalidCapacity(t *testing.T) {
	if _, err := New(0); err == nil {
		t.Error("New(0) should fail")
	}
}

func TestStrategy_Evicts(t *testing.T) {
	s, err := New(1)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if evicted := s.Add("a", []byte("1")); evicted {
		t.Error("Add() into empty cache reported eviction")
	}
	if evicted := s.Add("b", []byte("2")); !evicted {
		t.Error("Add() over capacity did not report eviction")
	}
	if _, ok := s.Get("a"); ok {
		t.Error("Get(a) should miss after eviction")
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}
