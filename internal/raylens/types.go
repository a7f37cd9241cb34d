package raylens

type Real = float64
