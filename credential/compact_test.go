package credential

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompact_RoundTrip(t *testing.T) {
	claims, err := testIssuer().IssueSDJWT(attestation(), "TaxDebtAttestation", "https://example.com/registry.json", "")
	require.NoError(t, err)

	s, err := Compact(claims)
	require.NoError(t, err)

	parts := strings.Split(strings.TrimSuffix(s, "~"), ".")
	require.Len(t, parts, 3)
	assert.Empty(t, parts[2])
	assert.True(t, strings.HasSuffix(s, ".~"))

	header, err := base64.RawURLEncoding.DecodeString(parts[0])
	require.NoError(t, err)
	assert.JSONEq(t, `{"alg":"none","typ":"vc+sd-jwt"}`, string(header))

	back, err := ParseCompact(s)
	require.NoError(t, err)
	assert.Equal(t, claims[ClaimIssuer], back[ClaimIssuer])
	assert.Equal(t, claims[ClaimSubject], back[ClaimSubject])
	assert.Equal(t, claims[ClaimIssuedAt], back[ClaimIssuedAt])
	assert.Equal(t, claims[ClaimExpires], back[ClaimExpires])
	assert.Equal(t, claims["identifier"], back["identifier"])
}

func TestParseCompact_Errors(t *testing.T) {
	good, err := Compact(SDJWT{ClaimIssuer: "did:example:1"})
	require.NoError(t, err)

	t.Run("disclosures", func(t *testing.T) {
		_, err := ParseCompact(good + "WyJzYWx0IiwibmFtZSIsIngiXQ~")
		assert.ErrorIs(t, err, ErrDisclosures)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseCompact("not-a-token~")
		assert.ErrorContains(t, err, "decode sd-jwt")
	})

	t.Run("wrong typ", func(t *testing.T) {
		header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"none","typ":"JWT"}`))
		payload := base64.RawURLEncoding.EncodeToString([]byte(`{"iss":"x"}`))
		_, err := ParseCompact(header + "." + payload + ".~")
		assert.ErrorContains(t, err, `unexpected typ "JWT"`)
	})
}
