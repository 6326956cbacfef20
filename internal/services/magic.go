package services

import (
	"fmt"
	"strings"

	magic "github.com/magiclabs/magic-admin-go"
	"github.com/magiclabs/magic-admin-go/client"
	"github.com/magiclabs/magic-admin-go/token"
)

// MagicValidator abstracts the Magic admin SDK: server-side validation of a
// DID token and the metadata lookup that yields the verified email.
type MagicValidator interface {
	Validate(didToken string) error
	MetadataEmail(didToken string) (string, error)
}

// MagicBridge exchanges a Magic Link DID assertion for a verified email
// claim. It is built once at startup from configuration; there is no
// module-level client and no runtime mutation.
type MagicBridge struct {
	configured bool
	validator  MagicValidator
}

// NewMagicBridge builds the bridge from the server-held secret. An empty
// secret yields a bridge that rejects every exchange with ErrNotConfigured,
// discovered per-request (the route still mounts).
func NewMagicBridge(secretKey string) *MagicBridge {
	if secretKey == "" {
		return &MagicBridge{}
	}
	return &MagicBridge{
		configured: true,
		validator:  &magicSDK{api: client.New(secretKey, magic.NewDefaultClient())},
	}
}

// NewMagicBridgeWithValidator wires a custom validator; used in tests.
func NewMagicBridgeWithValidator(v MagicValidator) *MagicBridge {
	return &MagicBridge{configured: true, validator: v}
}

// EmailForAssertion extracts the DID token from an Authorization header
// value (with or without a "Bearer " prefix), has the provider validate it,
// and returns the account email. All authenticity guarantees are the
// provider's; no independent verification happens here.
func (b *MagicBridge) EmailForAssertion(authHeader string) (string, error) {
	didToken := strings.TrimSpace(authHeader)
	if strings.HasPrefix(strings.ToLower(didToken), "bearer ") {
		didToken = strings.TrimSpace(didToken[len("bearer "):])
	}
	if didToken == "" {
		return "", ErrMissingAssertion
	}
	if !b.configured {
		return "", ErrNotConfigured
	}

	if err := b.validator.Validate(didToken); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}

	email, err := b.validator.MetadataEmail(didToken)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrIdentityLookup, err)
	}
	if email == "" {
		return "", ErrInvalidMagicUser
	}
	return email, nil
}

// magicSDK is the production MagicValidator backed by magic-admin-go.
type magicSDK struct {
	api *client.API
}

func (s *magicSDK) Validate(didToken string) error {
	tk, err := token.NewToken(didToken)
	if err != nil {
		return err
	}
	return tk.Validate()
}

func (s *magicSDK) MetadataEmail(didToken string) (string, error) {
	info, err := s.api.User.GetMetadataByToken(didToken)
	if err != nil {
		return "", err
	}
	return info.Email, nil
}
