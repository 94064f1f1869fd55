package verifier

import (
	"crypto/rsa"

	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/token"
)

// SignatureVerifier verifies a signature over the signing input with one public key
type SignatureVerifier interface {
	Verify(pub *rsa.PublicKey, signingInput, signature []byte) error
}

// TokenVerifier authenticates a decoded token against a key set
type TokenVerifier interface {
	// Verify checks the algorithm, selects the key and verifies the signature.
	// Claims are not inspected.
	Verify(decoded *token.Decoded, set *jwk.Set) (Selection, error)
}
