// Package ntru implements an NTRUSign-style lattice signature scheme over
// the cyclic ring Z_q[X]/(X^N - 1) with q a power of two.
//
// The package covers key generation (ternary trapdoor (F, G), GF(2)
// inversion lifted to Z_q, public key H = G/F), one-shot Babai rounding
// with the private basis, the rejection-sampling signing loop that hides
// the trapdoor from published signatures, and verification of the
// challenge binding and the signature norm.
//
// All operations are pure functions of an explicit Params value, key
// values and a caller supplied RandomSource. The only process-wide state is
// the tracing switch (SetDebug, NTRU_DEBUG=1).
package ntru
