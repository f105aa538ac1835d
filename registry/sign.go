package registry

import (
	"crypto/ed25519"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/dilithium/mode3"
	"golang.org/x/crypto/sha3"
)

// Manifest signing. Digests themselves are unsalted and unkeyed; what gets
// signed is the manifest file a service publishes, so consumers can verify
// who vouched for a digest set. Algorithms mirror the attestation formats
// this library interoperates with: ed25519 over sha256, and dilithium3 over
// a selectable hash.

const (
	SigAlgEd25519    = "ed25519"
	SigAlgDilithium3 = "dilithium3"
)

func digestFor(hashAlg string, message []byte) ([]byte, error) {
	switch hashAlg {
	case "sha256":
		s := sha256.Sum256(message)
		return s[:], nil
	case "sha512":
		s := sha512.Sum512(message)
		return s[:], nil
	case "sha3-256":
		s := sha3.Sum256(message)
		return s[:], nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm: %q", hashAlg)
	}
}

// SignEd25519 signs the manifest's signing bytes and fills its signature
// fields. Any previous signature is replaced.
func SignEd25519(m *Manifest, privateKey ed25519.PrivateKey) {
	digest := sha256.Sum256(m.SigningBytes())
	sig := ed25519.Sign(privateKey, digest[:])
	m.SignatureAlg = SigAlgEd25519
	m.HashAlg = "sha256"
	m.Signature = base64.StdEncoding.EncodeToString(sig)
}

// SignDilithium3 signs the manifest's signing bytes with a post-quantum
// signature. hashAlg must be one of: sha256, sha512, sha3-256.
func SignDilithium3(m *Manifest, hashAlg string, privateKey *mode3.PrivateKey) error {
	if privateKey == nil {
		return fmt.Errorf("missing private key")
	}
	digest, err := digestFor(hashAlg, m.SigningBytes())
	if err != nil {
		return err
	}
	sig := make([]byte, mode3.SignatureSize)
	mode3.SignTo(privateKey, digest, sig)
	m.SignatureAlg = SigAlgDilithium3
	m.HashAlg = hashAlg
	m.Signature = base64.StdEncoding.EncodeToString(sig)
	return nil
}

// VerifyEd25519 checks the manifest signature against a public key.
func VerifyEd25519(m Manifest, publicKey ed25519.PublicKey) error {
	if m.SignatureAlg != SigAlgEd25519 {
		return fmt.Errorf("manifest signature-alg is %q, want %q", m.SignatureAlg, SigAlgEd25519)
	}
	sig, err := base64.StdEncoding.DecodeString(m.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}
	digest, err := digestFor(m.HashAlg, m.SigningBytes())
	if err != nil {
		return err
	}
	if !ed25519.Verify(publicKey, digest, sig) {
		return fmt.Errorf("manifest signature verification failed")
	}
	return nil
}

// VerifyDilithium3 checks the manifest signature against a public key.
func VerifyDilithium3(m Manifest, publicKey *mode3.PublicKey) error {
	if m.SignatureAlg != SigAlgDilithium3 {
		return fmt.Errorf("manifest signature-alg is %q, want %q", m.SignatureAlg, SigAlgDilithium3)
	}
	if publicKey == nil {
		return fmt.Errorf("missing public key")
	}
	sig, err := base64.StdEncoding.DecodeString(m.Signature)
	if err != nil {
		return fmt.Errorf("invalid signature encoding: %w", err)
	}
	digest, err := digestFor(m.HashAlg, m.SigningBytes())
	if err != nil {
		return err
	}
	if !mode3.Verify(publicKey, digest, sig) {
		return fmt.Errorf("manifest signature verification failed")
	}
	return nil
}

// GenerateDilithium3Keypair returns a new Dilithium3 keypair.
func GenerateDilithium3Keypair(rand io.Reader) (*mode3.PublicKey, *mode3.PrivateKey, error) {
	return mode3.GenerateKey(rand)
}
