// Package schemawire detects wire-incompatible changes between RPC endpoints
// without manual API versioning.
//
// Each message type is reduced to a canonical schema value (package schema),
// deterministically encoded (package canonical) and hashed to a 32-byte
// blake3 digest (package digest). Two parties are wire-compatible for a
// message type iff their digests are equal.
//
// Three modes govern how much naming survives into the digest:
//
//   - Atom: compatibility judged solely by a declared type name.
//   - Structural: shape only; all naming erased except Atom names.
//   - Nominal: shape plus all declared names.
//
// Peripheral packages produce or consume digests but contain no hashing
// logic of their own: infer derives descriptions from Go types by
// reflection, registry holds explicit name-to-digest mappings and
// manifests, bundle exports canonical schema blocks, and handshake
// exchanges digests over gRPC.
package schemawire
