package verifier

import (
	"crypto/rsa"

	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/token"
)

// VerifyFunc checks the token signature against one candidate public key
type VerifyFunc func(pub *rsa.PublicKey) error

// Selection describes the key that verified a token
type Selection struct {
	// Key is the JWK that verified the signature
	Key jwk.Key

	// PublicKey is the RSA key reconstructed from Key
	PublicKey *rsa.PublicKey

	// Index is the position of Key in the set
	Index int

	// Fallback reports whether the key was found by trying every key in the set
	Fallback bool
}

// KeySelector selects the key that signed a token from a JWKS
type KeySelector interface {
	// SelectKey picks a key for the header and confirms it with verify.
	// Returns the selection, or reject.KeyNotFound / reject.SignatureInvalid /
	// reject.MalformedKeySet
	SelectKey(header token.Header, set *jwk.Set, verify VerifyFunc) (Selection, error)
}
