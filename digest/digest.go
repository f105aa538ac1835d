// Package digest computes the fixed 32-byte identifier of a canonical
// schema encoding.
//
// The hash is blake3-256: pure, unsalted, unkeyed. Schema identity is
// public information by design; collision resistance is what prevents an
// attacker from passing off an incompatible payload as compatible.
package digest

import (
	"encoding/hex"
	"fmt"

	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"lukechampine.com/blake3"
)

// Size is the digest length in bytes.
const Size = 32

// Digest identifies one canonical schema encoding. Two types are declared
// wire-compatible iff their digests are bit-for-bit equal; there is no
// partial compatibility or similarity scoring.
type Digest [Size]byte

// Zero is the all-zero digest, used as the absent value in reports.
var Zero Digest

// Sum hashes canonical bytes. Pure function; no error conditions.
func Sum(data []byte) Digest {
	return Digest(blake3.Sum256(data))
}

// Hex renders d as lowercase hexadecimal.
func (d Digest) Hex() string {
	return hex.EncodeToString(d[:])
}

func (d Digest) String() string { return d.Hex() }

// IsZero reports whether d is the all-zero digest.
func (d Digest) IsZero() bool { return d == Zero }

// FromHex parses a 64-character lowercase or uppercase hex digest.
func FromHex(s string) (Digest, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return Zero, fmt.Errorf("digest: invalid hex: %w", err)
	}
	if len(b) != Size {
		return Zero, fmt.Errorf("digest: expected %d bytes, got %d", Size, len(b))
	}
	var d Digest
	copy(d[:], b)
	return d, nil
}

// FromBytes copies a 32-byte slice into a Digest.
func FromBytes(b []byte) (Digest, error) {
	if len(b) != Size {
		return Zero, fmt.Errorf("digest: expected %d bytes, got %d", Size, len(b))
	}
	var d Digest
	copy(d[:], b)
	return d, nil
}

// CID returns an IPFS-compatible CIDv1 (raw + blake3) wrapping d, for
// integrators that address schemas content-wise.
func (d Digest) CID() (cid.Cid, error) {
	mh, err := multihash.Encode(d[:], multihash.BLAKE3)
	if err != nil {
		// multihash.Encode only fails for invalid codes; with BLAKE3 and a
		// fixed-size digest this should be unreachable.
		return cid.Undef, err
	}
	return cid.NewCidV1(cid.Raw, mh), nil
}
