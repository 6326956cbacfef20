package services

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeValidator struct {
	validateErr error
	email       string
	emailErr    error
	gotToken    string
}

func (f *fakeValidator) Validate(didToken string) error {
	f.gotToken = didToken
	return f.validateErr
}

func (f *fakeValidator) MetadataEmail(didToken string) (string, error) {
	return f.email, f.emailErr
}

func TestEmailForAssertionSuccess(t *testing.T) {
	v := &fakeValidator{email: "user@example.com"}
	b := NewMagicBridgeWithValidator(v)

	email, err := b.EmailForAssertion("did:magic:abc123")
	require.NoError(t, err)
	assert.Equal(t, "user@example.com", email)
	assert.Equal(t, "did:magic:abc123", v.gotToken)
}

func TestEmailForAssertionStripsBearerPrefix(t *testing.T) {
	v := &fakeValidator{email: "user@example.com"}
	b := NewMagicBridgeWithValidator(v)

	for _, header := range []string{
		"Bearer did:magic:abc123",
		"bearer did:magic:abc123",
		"  Bearer   did:magic:abc123  ",
	} {
		_, err := b.EmailForAssertion(header)
		require.NoError(t, err, "header=%q", header)
		assert.Equal(t, "did:magic:abc123", v.gotToken, "header=%q", header)
	}
}

func TestEmailForAssertionMissing(t *testing.T) {
	b := NewMagicBridgeWithValidator(&fakeValidator{})

	for _, header := range []string{"", "   ", "Bearer ", "Bearer    "} {
		_, err := b.EmailForAssertion(header)
		assert.ErrorIs(t, err, ErrMissingAssertion, "header=%q", header)
	}
}

func TestEmailForAssertionNotConfigured(t *testing.T) {
	b := NewMagicBridge("")

	_, err := b.EmailForAssertion("did:magic:abc123")
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestEmailForAssertionMissingBeatsUnconfigured(t *testing.T) {
	// An absent assertion is reported even when the bridge has no secret.
	b := NewMagicBridge("")

	_, err := b.EmailForAssertion("")
	assert.ErrorIs(t, err, ErrMissingAssertion)
}

func TestEmailForAssertionInvalid(t *testing.T) {
	v := &fakeValidator{validateErr: errors.New("malformed DID token")}
	b := NewMagicBridgeWithValidator(v)

	_, err := b.EmailForAssertion("did:magic:bad")
	assert.ErrorIs(t, err, ErrInvalidAssertion)
}

func TestEmailForAssertionLookupFailure(t *testing.T) {
	v := &fakeValidator{emailErr: errors.New("api unreachable")}
	b := NewMagicBridgeWithValidator(v)

	_, err := b.EmailForAssertion("did:magic:abc123")
	assert.ErrorIs(t, err, ErrIdentityLookup)
}

func TestEmailForAssertionEmptyEmail(t *testing.T) {
	v := &fakeValidator{email: ""}
	b := NewMagicBridgeWithValidator(v)

	_, err := b.EmailForAssertion("did:magic:abc123")
	assert.ErrorIs(t, err, ErrInvalidMagicUser)
}
