package domain

import (
	"testing"
)

func TestBrokerRegistry_Build(t *testing.T) {
	r := NewBrokerRegistry([]string{"Sally", "Bob", "default broker", "Bob", ""})

	if r.Len() != 2 {
		t.Fatalf("Expected 2 retail brokers, got %d", r.Len())
	}

	// Lexicographic iteration order keeps output columns stable.
	names := r.Names()
	if names[0] != "Bob" || names[1] != "Sally" {
		t.Errorf("Expected [Bob Sally], got %v", names)
	}
}

func TestBrokerRegistry_Lookup(t *testing.T) {
	r := NewBrokerRegistry([]string{"Sally", "Bob"})

	if idx, ok := r.Lookup("Bob"); !ok || idx != 0 {
		t.Errorf("Expected Bob at index 0, got %d (ok=%v)", idx, ok)
	}
	if idx, ok := r.Lookup("Sally"); !ok || idx != 1 {
		t.Errorf("Expected Sally at index 1, got %d (ok=%v)", idx, ok)
	}
	if _, ok := r.Lookup("default broker"); ok {
		t.Error("Default broker must not resolve")
	}
	if _, ok := r.Lookup("lmp"); ok {
		t.Error("Wholesale participants must not resolve")
	}
}

func TestBrokerRegistry_Empty(t *testing.T) {
	r := NewBrokerRegistry(nil)
	if r.Len() != 0 {
		t.Errorf("Expected empty registry, got %d", r.Len())
	}
	if len(r.Brokers()) != 0 || len(r.Names()) != 0 {
		t.Error("Empty registry should iterate nothing")
	}
}
