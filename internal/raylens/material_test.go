package raylens

import (
	"errors"
	"testing"
)

func TestSellmeier_NBK7_DLine(t *testing.T) {
	m, err := DefaultCatalog.Lookup("N-BK7")
	if err != nil {
		t.Fatal(err)
	}
	// published d-line index of N-BK7
	n := m.IndexAt(0.5876)
	if !nearly(n, 1.5168, 2e-4) {
		t.Fatalf("N-BK7 d-line index wrong: %.6f", n)
	}
}

func TestSellmeier_NormalDispersion(t *testing.T) {
	for _, name := range []string{"N-BK7", "N-SF11", "N-LAK12", "F2", "PMMA"} {
		m, err := DefaultCatalog.Lookup(name)
		if err != nil {
			t.Fatal(err)
		}
		nF := m.IndexAt(0.486)
		nd := m.IndexAt(0.587)
		nC := m.IndexAt(0.656)
		if !(nF > nd && nd > nC) {
			t.Fatalf("%s dispersion not normal: n(F)=%.5f n(d)=%.5f n(C)=%.5f", name, nF, nd, nC)
		}
		if nC < 1 {
			t.Fatalf("%s index below 1: %.5f", name, nC)
		}
	}
}

func TestCatalog_Lookup(t *testing.T) {
	if m, err := DefaultCatalog.Lookup("air"); err != nil || m != nil {
		t.Fatalf("air should resolve to no medium, got %v, %v", m, err)
	}
	if m, err := DefaultCatalog.Lookup(""); err != nil || m != nil {
		t.Fatalf("empty name should resolve to no medium, got %v, %v", m, err)
	}
	if _, err := DefaultCatalog.Lookup("UNOBTAINIUM"); !errors.Is(err, ErrUnknownMaterial) {
		t.Fatalf("expected ErrUnknownMaterial, got %v", err)
	}
}

func TestCatalog_RegisterDuplicate(t *testing.T) {
	c := NewGlassCatalog()
	if err := c.Register(NewConstantIndex("TEST", 1.5)); err != nil {
		t.Fatal(err)
	}
	if err := c.Register(NewConstantIndex("TEST", 1.6)); err == nil {
		t.Fatal("duplicate registration should fail")
	}
	m, err := c.Lookup("TEST")
	if err != nil {
		t.Fatal(err)
	}
	if m.IndexAt(0.55) != 1.5 {
		t.Fatalf("registered material changed underneath: %.3f", m.IndexAt(0.55))
	}
}
