package frost

import (
	"crypto/rand"
	"math/big"
)

// polynomial represents a polynomial over Z_order as its list of
// coefficients, index 0 being the constant term, following the
// convention from [FROST] section 4.2. Polynomials.
type polynomial []*big.Int

// generatePolynomial samples a random degree-(threshold-1) polynomial
// whose constant term is the given secret, as required by Part1 of
// Distributed Key Generation (draft-irtf-cfrg-frost, appendix C.1).
func generatePolynomial(secret *big.Int, threshold uint16, order *big.Int) (polynomial, error) {
	coefficients := make(polynomial, threshold)
	coefficients[0] = new(big.Int).Set(secret)

	for i := 1; i < int(threshold); i++ {
		c, err := rand.Int(rand.Reader, order)
		if err != nil {
			return nil, err
		}
		coefficients[i] = c
	}

	return coefficients, nil
}

// evaluatePolynomial evaluates the polynomial at x modulo order, using
// Horner's method.
func evaluatePolynomial(coefficients polynomial, x Identifier, order *big.Int) *big.Int {
	xBig := big.NewInt(int64(x))
	result := new(big.Int)

	for i := len(coefficients) - 1; i >= 0; i-- {
		result.Mul(result, xBig)
		result.Add(result, coefficients[i])
		result.Mod(result, order)
	}

	return result
}

// commitToPolynomial computes the Feldman/Pedersen commitment to a
// polynomial: one curve point per coefficient, coefficients[i]*G.
func commitToPolynomial(curve Curve, coefficients polynomial) []*Point {
	commitment := make([]*Point, len(coefficients))
	for i, c := range coefficients {
		commitment[i] = curve.EcBaseMul(c)
	}
	return commitment
}

// evaluateCommitment evaluates a Feldman commitment at x, i.e. computes
// f(x)*G without knowledge of f's coefficients, using only the
// committed points. This is what lets a Participant verify a secret
// share it received against the sender's public commitment.
func evaluateCommitment(curve Curve, commitment []*Point, x Identifier) *Point {
	xBig := big.NewInt(int64(x))
	result := curve.Identity()

	for i := len(commitment) - 1; i >= 0; i-- {
		result = curve.EcMul(result, xBig)
		result = curve.EcAdd(result, commitment[i])
	}

	return result
}
