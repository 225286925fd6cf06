package infra

import "testing"

func TestSlotPool_DefaultCapIsTwo(t *testing.T) {
	p := NewSlotPool(0)
	if p.Cap() != 2 {
		t.Fatalf("expected default cap 2, got %d", p.Cap())
	}
}

func TestSlotPool_TryAcquireRespectsCap(t *testing.T) {
	p := NewSlotPool(2)

	r1, ok1 := p.TryAcquire()
	_, ok2 := p.TryAcquire()
	if !ok1 || !ok2 {
		t.Fatalf("expected two slots")
	}
	if _, ok := p.TryAcquire(); ok {
		t.Fatalf("expected third acquire to fail")
	}
	if p.InUse() != 2 {
		t.Fatalf("expected 2 in use, got %d", p.InUse())
	}

	r1()
	r1() // release extra não pode devolver vaga de outro
	if p.InUse() != 1 {
		t.Fatalf("expected 1 in use after release, got %d", p.InUse())
	}
	if _, ok := p.TryAcquire(); !ok {
		t.Fatalf("expected acquire after release")
	}
}
