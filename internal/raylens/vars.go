package raylens

var (
	Debug    = false // set to true for verbose debug output
	Progress = false // set to true to print optimizer generation progress

	// Compile time checks to ensure the Material interface is implemented
	_ Material = (*SellmeierGlass)(nil)
	_ Material = (*ConstantIndex)(nil)
)
