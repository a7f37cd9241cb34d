package raylens

import "math"

// FieldType declares how FieldSet y-values are interpreted.
type FieldType int

const (
	FieldAngle        FieldType = iota // degrees off-axis
	FieldObjectHeight                  // height on the object surface
)

func (t FieldType) String() string {
	switch t {
	case FieldAngle:
		return "angle"
	case FieldObjectHeight:
		return "objectHeight"
	}
	return "unknown"
}

// Field is a single object-space sample point. Only the y meridian is
// modeled; systems are rotationally symmetric about the axis.
type Field struct {
	Y Real
}

// FieldSet owns the ordered, non-empty field list. The min/max of the set
// define the ±1 normalized field coordinate.
type FieldSet struct {
	Type   FieldType
	Fields []Field
}

func (fs *FieldSet) Add(y Real) {
	fs.Fields = append(fs.Fields, Field{Y: y})
}

// MaxY returns the largest |y| of the set.
func (fs *FieldSet) MaxY() Real {
	m := Real(0)
	for _, f := range fs.Fields {
		if a := math.Abs(f.Y); a > m {
			m = a
		}
	}
	return m
}

// Normalized maps a field onto [-1, 1] against the set maximum.
func (fs *FieldSet) Normalized(f Field) Real {
	m := fs.MaxY()
	if m == 0 {
		return 0
	}
	return f.Y / m
}

func (fs *FieldSet) Contains(f Field) bool {
	for _, g := range fs.Fields {
		if math.Abs(g.Y-f.Y) <= fieldMatchTol {
			return true
		}
	}
	return false
}

// Wavelength is one spectral sample in micrometers.
type Wavelength struct {
	Value     Real
	IsPrimary bool
}

// WavelengthSet owns the spectral samples; exactly one must be primary.
type WavelengthSet struct {
	Wavelengths []Wavelength
}

func (ws *WavelengthSet) Add(value Real, isPrimary bool) {
	ws.Wavelengths = append(ws.Wavelengths, Wavelength{Value: value, IsPrimary: isPrimary})
}

// Primary returns the primary wavelength, if one is marked.
func (ws *WavelengthSet) Primary() (Wavelength, bool) {
	for _, w := range ws.Wavelengths {
		if w.IsPrimary {
			return w, true
		}
	}
	return Wavelength{}, false
}

func (ws *WavelengthSet) Contains(value Real) bool {
	for _, w := range ws.Wavelengths {
		if math.Abs(w.Value-value) <= fieldMatchTol {
			return true
		}
	}
	return false
}
