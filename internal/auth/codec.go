package auth

import (
	"errors"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Token decode failures. All of them mean "untrusted input"; callers must not
// reveal which one occurred beyond a generic unauthorized outcome.
var (
	ErrMalformed        = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrInvalidToken     = errors.New("invalid token")
)

// Claims is the payload carried by issued tokens. The role travels in the
// "perfil" claim next to the registered subject/issued-at/expiry set.
type Claims struct {
	Perfil string `json:"perfil,omitempty"`
	jwt.RegisteredClaims
}

// Codec turns a claim set into a signed compact JWT and back. It verifies the
// HMAC-SHA256 signature but deliberately does not judge expiry: a well-signed
// expired token still decodes, so the token manager owns time semantics.
type Codec struct {
	secret []byte
	parser *jwt.Parser
}

// NewCodec builds a codec around the process-wide signing secret.
func NewCodec(secret []byte) *Codec {
	return &Codec{
		secret: secret,
		parser: jwt.NewParser(jwt.WithoutClaimsValidation()),
	}
}

// Encode signs the claims and returns the compact serialization.
func (c *Codec) Encode(claims *Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Decode verifies the signature and returns the embedded claims.
func (c *Codec) Decode(tokenStr string) (*Claims, error) {
	parsed, err := c.parser.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidSignature
		}
		return c.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, ErrMalformed
		default:
			return nil, ErrInvalidToken
		}
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
