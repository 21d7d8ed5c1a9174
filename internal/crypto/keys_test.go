package crypto_test

import (
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"sigil/internal/crypto"
	"sigil/internal/domain"
)

const curveOrderHex = "fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141"

func TestGenerateKeypair(t *testing.T) {
	a, err := crypto.GenerateKeypair()
	require.NoError(t, err)
	b, err := crypto.GenerateKeypair()
	require.NoError(t, err)

	require.Len(t, a.PublicKeyHex(), 64)
	require.NotEqual(t, a.PublicKeyHex(), b.PublicKeyHex())
	require.True(t, strings.HasPrefix(a.PublicKeyNpub(), "npub1"))

	// Round-trip through the import gate yields the same identity.
	again, err := crypto.KeypairFromSecretHex(a.SecretKeyHex())
	require.NoError(t, err)
	require.Equal(t, a.PublicKey(), again.PublicKey())
}

func TestKeypairFromSecretHex_KnownVector(t *testing.T) {
	kp, err := crypto.KeypairFromSecretHex(strings.Repeat("0", 63) + "3")
	require.NoError(t, err)
	require.Equal(t,
		"f9308a019258c31049344f85f89d5229b531c845836f99b08601f113bce036f9",
		kp.PublicKeyHex())
}

func TestKeypairFromSecretHex_Rejects(t *testing.T) {
	order, err := hex.DecodeString(curveOrderHex)
	require.NoError(t, err)
	orderMinusOne := append([]byte{}, order...)
	orderMinusOne[31]--

	cases := map[string]string{
		"not hex":      "zz",
		"too short":    strings.Repeat("11", 31),
		"too long":     strings.Repeat("11", 33),
		"zero":         strings.Repeat("00", 32),
		"curve order":  curveOrderHex,
		"above order":  strings.Repeat("ff", 32),
		"empty string": "",
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := crypto.KeypairFromSecretHex(in)
			require.ErrorIs(t, err, domain.ErrValidation)
		})
	}

	_, err = crypto.KeypairFromSecretHex(hex.EncodeToString(orderMinusOne))
	require.NoError(t, err)
}

func TestBech32Encodings(t *testing.T) {
	kp, err := crypto.KeypairFromSecretHex("67dea2ed018072d675f5415ecfaed7d2597555e202d85b3d65ea4e58d2d92ffa")
	require.NoError(t, err)

	nsec, err := kp.SecretKeyNsec()
	require.NoError(t, err)
	require.Equal(t, "nsec1vl029mgpspedva04g90vltkh6fvh240zqtv9k0t9af8935ke9laqsnlfe5", nsec)

	fromNsec, err := crypto.KeypairFromNsec(nsec)
	require.NoError(t, err)
	require.Equal(t, kp.PublicKey(), fromNsec.PublicKey())

	pub, err := crypto.DecodeNpub(kp.PublicKeyNpub())
	require.NoError(t, err)
	require.Equal(t, kp.PublicKeyHex(), hex.EncodeToString(pub))
}

func TestDecodeNpub_KnownVector(t *testing.T) {
	pub, err := crypto.DecodeNpub("npub180cvv07tjdrrgpa0j7j7tmnyl2yr6yr7l8j4s3evf6u64th6gkwsyjh6w6")
	require.NoError(t, err)
	require.Equal(t, "3bf0c63fcb93463407af97a5e5ee64fa883d107ef9e558472c4eb9aaaefa459d", hex.EncodeToString(pub))
}

func TestDecodeBech32_WrongPrefix(t *testing.T) {
	kp, err := crypto.GenerateKeypair()
	require.NoError(t, err)

	_, err = crypto.KeypairFromNsec(kp.PublicKeyNpub())
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = crypto.DecodeNpub("npub1notvalid")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestWipe(t *testing.T) {
	kp, err := crypto.GenerateKeypair()
	require.NoError(t, err)
	kp.Wipe()
	kp.Wipe()

	_, err = kp.Sign(make([]byte, 32))
	require.ErrorIs(t, err, domain.ErrValidation)
}
