package raylens

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"os"
)

// JSONReal is a float that round-trips IEEE infinities as the strings
// "infinity"/"-infinity", the convention used by the interchange lens
// descriptions. A plain JSON number parses as itself.
type JSONReal Real

func (v JSONReal) MarshalJSON() ([]byte, error) {
	f := Real(v)
	if math.IsInf(f, 1) {
		return []byte(`"infinity"`), nil
	}
	if math.IsInf(f, -1) {
		return []byte(`"-infinity"`), nil
	}
	return json.Marshal(f)
}

func (v *JSONReal) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		switch s {
		case "infinity", "inf":
			*v = JSONReal(math.Inf(1))
			return nil
		case "-infinity", "-inf":
			*v = JSONReal(math.Inf(-1))
			return nil
		}
		return fmt.Errorf("invalid numeric value %q", s)
	}
	var f Real
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*v = JSONReal(f)
	return nil
}

type SurfaceCfg struct {
	Index        int      `json:"index"`
	Radius       JSONReal `json:"radius,omitempty"`
	Thickness    JSONReal `json:"thickness,omitempty"`
	Material     string   `json:"material,omitempty"`
	Conic        Real     `json:"conic,omitempty"`
	IsStop       bool     `json:"isStop,omitempty"`
	IsMirror     bool     `json:"isMirror,omitempty"`
	SemiAperture Real     `json:"semiAperture,omitempty"`
}

type ApertureCfg struct {
	Type  string `json:"type"` // "EPD" | "FNO" | "NA"
	Value Real   `json:"value"`
}

type WavelengthCfg struct {
	Value     Real `json:"value"`
	IsPrimary bool `json:"isPrimary,omitempty"`
}

// LensCfg is the persisted lens description. It maps losslessly to and
// from the in-memory model.
type LensCfg struct {
	Name        string          `json:"name"`
	Aperture    ApertureCfg     `json:"aperture"`
	FieldType   string          `json:"fieldType,omitempty"` // "angle" (default) | "objectHeight"
	Fields      []Real          `json:"fields"`
	Wavelengths []WavelengthCfg `json:"wavelengths"`
	Surfaces    []SurfaceCfg    `json:"surfaces"`
}

func parseApertureType(s string) (ApertureType, error) {
	switch s {
	case "EPD", "":
		return ApertureEPD, nil
	case "FNO":
		return ApertureFNumber, nil
	case "NA":
		return ApertureNA, nil
	}
	return 0, fmt.Errorf("unknown aperture type %q", s)
}

// Build validates and constructs the runtime lens.
func (cfg *LensCfg) Build(catalog *GlassCatalog) (*Lens, error) {
	if catalog == nil {
		catalog = DefaultCatalog
	}
	l := NewLensWithCatalog(cfg.Name, catalog)

	at, err := parseApertureType(cfg.Aperture.Type)
	if err != nil {
		return nil, err
	}
	l.SetAperture(at, cfg.Aperture.Value)

	switch cfg.FieldType {
	case "angle", "":
		l.SetFieldType(FieldAngle)
	case "objectHeight":
		l.SetFieldType(FieldObjectHeight)
	default:
		return nil, fmt.Errorf("unknown field type %q", cfg.FieldType)
	}
	for _, y := range cfg.Fields {
		l.AddField(y)
	}
	for _, w := range cfg.Wavelengths {
		l.AddWavelength(w.Value, w.IsPrimary)
	}
	for i, sc := range cfg.Surfaces {
		if sc.Index != i {
			return nil, fmt.Errorf("%w: surface %d declared with index %d",
				ErrMalformedSequence, i, sc.Index)
		}
		if err := l.AddSurface(SurfaceSpec{
			Radius:       Real(sc.Radius),
			Thickness:    Real(sc.Thickness),
			Material:     sc.Material,
			Conic:        sc.Conic,
			IsStop:       sc.IsStop,
			IsMirror:     sc.IsMirror,
			SemiAperture: sc.SemiAperture,
		}); err != nil {
			return nil, err
		}
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// Describe exports the lens back into its persisted form.
func (l *Lens) Describe() *LensCfg {
	cfg := &LensCfg{
		Name: l.Name,
		Aperture: ApertureCfg{
			Type:  l.Aperture.Type.String(),
			Value: l.Aperture.Value,
		},
		FieldType: l.Fields.Type.String(),
	}
	for _, f := range l.Fields.Fields {
		cfg.Fields = append(cfg.Fields, f.Y)
	}
	for _, w := range l.Wavelengths.Wavelengths {
		cfg.Wavelengths = append(cfg.Wavelengths, WavelengthCfg{Value: w.Value, IsPrimary: w.IsPrimary})
	}
	for i := range l.Surfaces {
		s := &l.Surfaces[i]
		name := ""
		if s.Material != nil {
			name = s.Material.Name()
		}
		cfg.Surfaces = append(cfg.Surfaces, SurfaceCfg{
			Index:        s.Index,
			Radius:       JSONReal(s.Radius),
			Thickness:    JSONReal(s.Thickness),
			Material:     name,
			Conic:        s.Conic,
			IsStop:       s.IsStop,
			IsMirror:     s.IsMirror,
			SemiAperture: s.SemiAperture,
		})
	}
	return cfg
}

// LoadLensConfig reads and builds a lens description file.
func LoadLensConfig(path string, catalog *GlassCatalog) (*Lens, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg LensCfg
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	l, err := cfg.Build(catalog)
	if err != nil {
		return nil, err
	}
	DebugLog("Loaded lens %q from %s: %d surfaces, %d fields, %d wavelengths",
		l.Name, path, len(l.Surfaces), len(l.Fields.Fields), len(l.Wavelengths.Wavelengths))
	return l, nil
}
