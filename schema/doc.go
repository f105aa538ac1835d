// Package schema defines the canonical recursive description of a type's
// shape and the mode projection that decides how much naming information
// survives into a wire-compatibility digest.
//
// A Value is pure data: finite, acyclic, immutable by convention. Providers
// describing recursive host types must break the cycle with an Atom boundary.
// Projection (Atom, Structural, Nominal) is the only place where "what counts
// as the same type" is decided; encoding and hashing live in the canonical
// and digest packages.
package schema
