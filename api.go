package schemawire

import (
	"github.com/schemawire/schemawire/canonical"
	"github.com/schemawire/schemawire/digest"
	"github.com/schemawire/schemawire/schema"
)

// Hash computes the wire-compatibility digest of a raw schema description
// under the given mode: digest(encode(project(raw, mode))).
//
// Hash is a pure function. Any number of hashes may be computed concurrently
// with no coordination.
func Hash(raw schema.Value, mode schema.Mode) (digest.Digest, error) {
	return HashLimits(raw, mode, schema.DefaultLimits)
}

// HashLimits is Hash with explicit size bounds on the description tree.
func HashLimits(raw schema.Value, mode schema.Mode, lim schema.Limits) (digest.Digest, error) {
	v, err := schema.ProjectLimits(raw, mode, lim)
	if err != nil {
		return digest.Zero, err
	}
	b, err := canonical.EncodeLimits(v, lim)
	if err != nil {
		return digest.Zero, err
	}
	return digest.Sum(b), nil
}
