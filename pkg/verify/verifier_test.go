package verify

import (
	"strings"
	"testing"

	"github.com/fairjournal/journalfs/pkg/core/status"
	"github.com/fairjournal/journalfs/pkg/errors"
	"github.com/fairjournal/journalfs/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedUpdate(t testing.TB, signer *Signer) *model.Update {
	u := model.NewUpdate("fair-journal", signer.Address(), 1)
	u.AddAction(model.NewAddUser(signer.Address())).AddAction(model.NewAddDirectory("/articles"))
	require.NoError(t, signer.Sign(u))
	return u
}

func TestVerify(t *testing.T) {
	signer, err := GenerateSigner()
	require.NoError(t, err)

	u := signedUpdate(t, signer)
	require.NoError(t, Ed25519{}.Verify(u))
}

func TestVerifyFailsClosed(t *testing.T) {
	signer, err := GenerateSigner()
	require.NoError(t, err)
	other, err := GenerateSigner()
	require.NoError(t, err)

	for _, toPin := range []struct {
		name   string
		mutate func(*model.Update)
	}{
		{name: "tampered sequence", mutate: func(u *model.Update) { u.ID = 2 }},
		{name: "tampered action", mutate: func(u *model.Update) { u.Actions[1] = model.NewAddDirectory("/other") }},
		{name: "tampered project", mutate: func(u *model.Update) { u.ProjectName = "other" }},
		{name: "wrong signer", mutate: func(u *model.Update) { require.NoError(t, other.Sign(u)) }},
		{name: "claimed by someone else", mutate: func(u *model.Update) { u.UserAddress = other.Address() }},
		{name: "malformed signature", mutate: func(u *model.Update) { u.Signature = "not-hex" }},
		{name: "short signature", mutate: func(u *model.Update) { u.Signature = "abcd" }},
		{name: "malformed address", mutate: func(u *model.Update) { u.UserAddress = "zz" }},
		{name: "uppercase address", mutate: func(u *model.Update) { u.UserAddress = strings.ToUpper(u.UserAddress) }},
		{name: "short address", mutate: func(u *model.Update) { u.UserAddress = "abcd" }},
	} {
		fixture := toPin
		t.Run(fixture.name, func(t *testing.T) {
			u := signedUpdate(t, signer)
			fixture.mutate(u)
			err := Ed25519{}.Verify(u)
			require.Error(t, err)
			assert.True(t, errors.Is(err, status.ErrSignatureInvalid))
		})
	}

	require.Error(t, Ed25519{}.Verify(nil))
}

func TestSignerFromSeed(t *testing.T) {
	seed := make([]byte, 32)
	s1, err := NewSignerFromSeed(seed)
	require.NoError(t, err)
	s2, err := NewSignerFromSeed(seed)
	require.NoError(t, err)
	assert.Equal(t, s1.Address(), s2.Address())
	assert.Len(t, s1.Address(), 64)

	_, err = NewSignerFromSeed([]byte("short"))
	require.Error(t, err)
	_, err = NewSigner(nil)
	require.Error(t, err)

	key, err := PublicKeyFromAddress(s1.Address())
	require.NoError(t, err)
	assert.Equal(t, s1.Address(), AddressFromPublicKey(key))
}
