package raylens

import (
	"fmt"
	"math"
)

// Material is an immutable refractive medium looked up from a catalog.
// IndexAt takes the wavelength in micrometers and returns n ≥ 1.
type Material interface {
	Name() string
	IndexAt(wavelengthUm Real) Real
}

// SellmeierGlass models dispersion with the three-term Sellmeier equation
//
//	n²(λ) = 1 + Σᵢ Bᵢλ² / (λ² − Cᵢ)
//
// with λ in micrometers and Cᵢ in µm².
type SellmeierGlass struct {
	name string
	B, C [3]Real
}

func NewSellmeierGlass(name string, b, c [3]Real) *SellmeierGlass {
	return &SellmeierGlass{name: name, B: b, C: c}
}

func (g *SellmeierGlass) Name() string { return g.name }

func (g *SellmeierGlass) IndexAt(wavelengthUm Real) Real {
	l2 := wavelengthUm * wavelengthUm
	n2 := Real(1)
	for i := 0; i < 3; i++ {
		n2 += g.B[i] * l2 / (l2 - g.C[i])
	}
	return math.Sqrt(n2)
}

// ConstantIndex is a dispersion-free medium, mostly useful for tests and
// idealized designs.
type ConstantIndex struct {
	name string
	n    Real
}

func NewConstantIndex(name string, n Real) *ConstantIndex {
	return &ConstantIndex{name: name, n: n}
}

func (m *ConstantIndex) Name() string             { return m.name }
func (m *ConstantIndex) IndexAt(_ Real) Real      { return m.n }

// GlassCatalog maps glass names to materials. Materials are shared, never
// copied per surface, and safe for concurrent reads.
type GlassCatalog struct {
	glasses map[string]Material
}

// NewGlassCatalog returns a catalog preloaded with the glasses the stock
// designs use. Coefficients are the published Schott/vendor Sellmeier data.
func NewGlassCatalog() *GlassCatalog {
	c := &GlassCatalog{glasses: map[string]Material{}}
	for _, g := range []*SellmeierGlass{
		NewSellmeierGlass("N-BK7",
			[3]Real{1.03961212, 0.231792344, 1.01046945},
			[3]Real{0.00600069867, 0.0200179144, 103.560653}),
		NewSellmeierGlass("N-SF11",
			[3]Real{1.73759695, 0.313747346, 1.89878101},
			[3]Real{0.013188707, 0.0623068142, 155.23629}),
		NewSellmeierGlass("N-SF10",
			[3]Real{1.62153902, 0.256287842, 1.64447552},
			[3]Real{0.0122241457, 0.0595736775, 147.468793}),
		NewSellmeierGlass("N-LAK12",
			[3]Real{1.17365704, 0.588992398, 0.978014394},
			[3]Real{0.00577031797, 0.0200401678, 95.4873482}),
		NewSellmeierGlass("F2",
			[3]Real{1.34533359, 0.209073176, 0.937357162},
			[3]Real{0.00997743871, 0.0470450767, 111.886764}),
		NewSellmeierGlass("SF5",
			[3]Real{1.52481889, 0.187085527, 1.42729015},
			[3]Real{0.011254756, 0.0588995392, 129.141675}),
		NewSellmeierGlass("PMMA",
			[3]Real{0.99654, 0.18964, 0.00411},
			[3]Real{0.00787, 0.02191, 3.85727}),
	} {
		c.glasses[g.name] = g
	}
	return c
}

// Register adds a material; duplicate names are rejected so a looked-up
// material can never change underneath a lens.
func (c *GlassCatalog) Register(m Material) error {
	if _, ok := c.glasses[m.Name()]; ok {
		return fmt.Errorf("material %q already registered", m.Name())
	}
	c.glasses[m.Name()] = m
	return nil
}

// Lookup resolves a glass name. The empty string and "air" mean no medium.
func (c *GlassCatalog) Lookup(name string) (Material, error) {
	if name == "" || name == "air" {
		return nil, nil
	}
	m, ok := c.glasses[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownMaterial, name)
	}
	return m, nil
}

// DefaultCatalog is shared by builders that do not supply their own.
var DefaultCatalog = NewGlassCatalog()
