package verifier

import (
	"fmt"

	"github.com/sage-x-project/oidcpay-go/pkg/jwk"
	"github.com/sage-x-project/oidcpay-go/pkg/reject"
	"github.com/sage-x-project/oidcpay-go/pkg/token"
)

// FallbackPolicy decides whether the selector may try every key in the set
type FallbackPolicy int

const (
	// FallbackNone requires a kid that names a key in the set
	FallbackNone FallbackPolicy = iota
	// FallbackMissingKeyID tries every key when the header carries no kid
	FallbackMissingKeyID
	// FallbackAlways also tries every key when the kid is not in the set
	FallbackAlways
)

// String returns the policy name
func (p FallbackPolicy) String() string {
	switch p {
	case FallbackNone:
		return "none"
	case FallbackMissingKeyID:
		return "missing-kid"
	case FallbackAlways:
		return "always"
	default:
		return fmt.Sprintf("FallbackPolicy(%d)", int(p))
	}
}

// DefaultKeySelector implements KeySelector with kid matching and an explicit fallback policy
type DefaultKeySelector struct {
	policy FallbackPolicy
}

// NewDefaultKeySelector creates a new DefaultKeySelector
func NewDefaultKeySelector(policy FallbackPolicy) *DefaultKeySelector {
	return &DefaultKeySelector{
		policy: policy,
	}
}

// Policy returns the configured fallback policy
func (s *DefaultKeySelector) Policy() FallbackPolicy {
	return s.policy
}

// SelectKey selects the key for the given header
func (s *DefaultKeySelector) SelectKey(header token.Header, set *jwk.Set, verify VerifyFunc) (Selection, error) {
	if verify == nil {
		return Selection{}, fmt.Errorf("verify function cannot be nil")
	}
	if set.Len() == 0 {
		return Selection{}, reject.New(reject.KeyNotFound, "key set is empty")
	}

	if header.HasKid {
		key, idx, found := set.FindByKeyID(header.Kid)
		if found {
			return s.selectByKeyID(key, idx, verify)
		}
		if s.policy != FallbackAlways {
			return Selection{}, reject.Newf(reject.KeyNotFound, "kid %q not in key set", header.Kid)
		}
	} else if s.policy == FallbackNone {
		return Selection{}, reject.New(reject.KeyNotFound, "token has no kid and key fallback is disabled")
	}

	// Fallback: first key in set order that verifies
	return s.selectFirstVerifying(set, verify)
}

// selectByKeyID verifies against the matched key only. A failure here is terminal.
func (s *DefaultKeySelector) selectByKeyID(key jwk.Key, idx int, verify VerifyFunc) (Selection, error) {
	if !key.Viable() {
		return Selection{}, reject.Newf(reject.KeyNotFound, "key %q cannot verify %s (kty=%q alg=%q use=%q)",
			key.KeyID(), RS256, key.Kty, key.Alg, key.Use)
	}

	pub, err := key.RSAPublicKey()
	if err != nil {
		return Selection{}, err
	}

	if err := verify(pub); err != nil {
		if reject.IsRejection(err) {
			return Selection{}, err
		}
		return Selection{}, reject.Wrap(reject.SignatureInvalid, fmt.Sprintf("key %q", key.KeyID()), err)
	}

	return Selection{Key: key, PublicKey: pub, Index: idx}, nil
}

// selectFirstVerifying tries every viable key in set order
func (s *DefaultKeySelector) selectFirstVerifying(set *jwk.Set, verify VerifyFunc) (Selection, error) {
	tried := 0
	for i, key := range set.Keys {
		if !key.Viable() {
			continue
		}
		pub, err := key.RSAPublicKey()
		if err != nil {
			continue
		}
		tried++
		if verify(pub) == nil {
			return Selection{Key: key, PublicKey: pub, Index: i, Fallback: true}, nil
		}
	}

	return Selection{}, reject.Newf(reject.KeyNotFound, "no key in set verified the token (%d of %d keys tried)", tried, set.Len())
}
