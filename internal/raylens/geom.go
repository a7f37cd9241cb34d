package raylens

import "math"

// reflection & refraction in 3D (assume unit I,N)
func reflect3(I, N Vector3) Vector3 {
	return I.Sub(N.Mul(2 * I.Dot(N)))
}

// Refraction with side awareness.
// Contract: eta must be n1/n2 for the *current* interface:
//   - outside → inside : eta = n_incoming/n_outgoing
//   - inside  → outside: eta = n_incoming/n_outgoing
//
// I and N must be unit; N is the outward normal (towards the incoming side).
func refract3(I, N Vector3, eta Real) (Vector3, bool) {
	// If we're on the far side (I·N > 0), flip the normal so cosθ is positive.
	n := N
	cosi := I.Dot(N)
	if cosi > 0 {
		n = N.Mul(-1)
	} else {
		cosi = -cosi
	}
	// Numeric clamp to [0,1] to avoid tiny negatives/overs.
	if cosi < 0 {
		cosi = 0
	} else if cosi > 1 {
		cosi = 1
	}
	k := 1 - eta*eta*(1-cosi*cosi)
	if k < 0 {
		return Vector3{}, false // total internal reflection
	}
	T := I.Mul(eta).Add(n.Mul(eta*cosi - math.Sqrt(k)))
	return T, true
}
