package credential

import (
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// CompactType is the JOSE typ header of compact SD-JWT credentials.
const CompactType = "vc+sd-jwt"

// ErrDisclosures is returned by ParseCompact for tokens that carry
// disclosures, which this issuer never produces.
var ErrDisclosures = errors.New("sd-jwt disclosures are not supported")

// Compact renders claims as an unsecured compact SD-JWT with no disclosures:
// header.payload. followed by the ~ separator.
func Compact(claims SDJWT) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims(claims))
	token.Header["typ"] = CompactType

	s, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		return "", fmt.Errorf("encode sd-jwt: %w", err)
	}
	return s + "~", nil
}

// ParseCompact decodes a token produced by Compact. Nothing is verified.
func ParseCompact(s string) (SDJWT, error) {
	jws, rest, _ := strings.Cut(s, "~")
	if rest != "" {
		return nil, ErrDisclosures
	}

	token, _, err := jwt.NewParser().ParseUnverified(jws, jwt.MapClaims{})
	if err != nil {
		return nil, fmt.Errorf("decode sd-jwt: %w", err)
	}
	if typ, _ := token.Header["typ"].(string); typ != CompactType {
		return nil, fmt.Errorf("decode sd-jwt: unexpected typ %q", typ)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("decode sd-jwt: unexpected claims type %T", token.Claims)
	}
	claims := SDJWT(mc)
	// JSON numbers decode as float64; timestamps are whole seconds.
	for _, k := range []string{ClaimIssuedAt, ClaimExpires} {
		if f, ok := claims[k].(float64); ok {
			claims[k] = int64(f)
		}
	}
	return claims, nil
}
