package auth

import (
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/streamflix/catalog-service/internal/domain"
)

// TokenManager layers issuance, validity and renewal policy on top of the
// codec. TTL and renewal window are fixed per deployment, never caller input.
type TokenManager struct {
	codec  *Codec
	ttl    time.Duration
	window time.Duration
}

// NewTokenManager builds a manager with the configured token lifetime and
// expiring-soon window.
func NewTokenManager(secret string, ttl, renewalWindow time.Duration) *TokenManager {
	if renewalWindow <= 0 {
		renewalWindow = 30 * time.Minute
	}
	return &TokenManager{codec: NewCodec([]byte(secret)), ttl: ttl, window: renewalWindow}
}

// Issue mints a token for the subject embedding the profile claim. The jti
// keeps every mint distinct: iat and exp only carry second precision, and
// renewal must produce an observably new token.
func (tm *TokenManager) Issue(subject string, profile domain.Profile) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Perfil: string(profile),
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := tm.codec.Encode(claims)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// TTL returns the configured token lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// ExtractSubject returns the subject claim of a well-signed token.
func (tm *TokenManager) ExtractSubject(tokenStr string) (string, error) {
	claims, err := tm.codec.Decode(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}

// ExtractProfile returns the role claim of a well-signed token. An absent or
// unknown value is an invalid token.
func (tm *TokenManager) ExtractProfile(tokenStr string) (domain.Profile, error) {
	claims, err := tm.codec.Decode(tokenStr)
	if err != nil {
		return "", err
	}
	profile := domain.Profile(claims.Perfil)
	if !profile.Valid() {
		return "", ErrInvalidToken
	}
	return profile, nil
}

// IsExpired reports whether the token is past its expiry. A token is expired
// the instant now >= exp, regardless of signature freshness.
func (tm *TokenManager) IsExpired(tokenStr string) (bool, error) {
	claims, err := tm.codec.Decode(tokenStr)
	if err != nil {
		return false, err
	}
	return expired(claims, time.Now()), nil
}

// IsExpiringSoon reports whether the token expires inside the renewal window.
// A renewal hint only, never a validity check.
func (tm *TokenManager) IsExpiringSoon(tokenStr string) (bool, error) {
	claims, err := tm.codec.Decode(tokenStr)
	if err != nil {
		return false, err
	}
	if claims.ExpiresAt == nil {
		return false, ErrInvalidToken
	}
	return time.Until(claims.ExpiresAt.Time) < tm.window, nil
}

// IsValid reports whether the token decodes, binds to the expected subject and
// is not expired. Total from the caller's perspective: any decode failure is
// simply "not valid".
func (tm *TokenManager) IsValid(tokenStr, expectedSubject string) bool {
	claims, err := tm.codec.Decode(tokenStr)
	if err != nil {
		return false
	}
	if claims.Subject == "" || claims.Subject != expectedSubject {
		return false
	}
	return !expired(claims, time.Now())
}

// RenewIfNeeded mints a fresh token with the same subject and profile when the
// current one is inside the renewal window and not yet expired. Otherwise the
// input comes back unchanged; an expired token is never extended.
func (tm *TokenManager) RenewIfNeeded(tokenStr string) (string, error) {
	claims, err := tm.codec.Decode(tokenStr)
	if err != nil {
		return "", err
	}
	if claims.ExpiresAt == nil {
		return "", ErrInvalidToken
	}

	now := time.Now()
	if expired(claims, now) || time.Until(claims.ExpiresAt.Time) >= tm.window {
		return tokenStr, nil
	}

	renewed, _, err := tm.Issue(claims.Subject, domain.Profile(claims.Perfil))
	if err != nil {
		return "", err
	}
	return renewed, nil
}

func expired(claims *Claims, now time.Time) bool {
	if claims.ExpiresAt == nil {
		return true
	}
	return !now.Before(claims.ExpiresAt.Time)
}
