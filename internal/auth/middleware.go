package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/streamflix/catalog-service/internal/domain"
)

const identityKey = "auth_identity"

// Identity is the authenticated caller for a single request. It lives in the
// request context only and is never shared across requests.
type Identity struct {
	Subject string
	Profile domain.Profile
}

// IdentityLookup resolves a subject to an active account. Owned by user
// management; the gate only reads from it.
type IdentityLookup interface {
	GetByLoginActive(ctx context.Context, login string) (*domain.User, error)
}

// Paths that skip the gate entirely. A security-relevant allowlist, kept in
// one place rather than scattered string checks. Root is matched exactly.
var defaultBypassPrefixes = []string{"/auth/", "/health/", "/docs/"}

// Gate turns a bearer token into a request-scoped identity. It is not
// authoritative: every failure degrades to an anonymous request and the
// policy layer produces the single public-facing rejection.
type Gate struct {
	tokens *TokenManager
	lookup IdentityLookup
	logger *zap.Logger
	bypass []string
}

// NewGate constructs the authentication middleware.
func NewGate(tokens *TokenManager, lookup IdentityLookup, logger *zap.Logger) *Gate {
	return &Gate{tokens: tokens, lookup: lookup, logger: logger, bypass: defaultBypassPrefixes}
}

// Handle extracts and validates the bearer token, attaching an Identity on
// success. Requests without a usable credential proceed anonymous; rejection
// happens downstream.
func (g *Gate) Handle(c *fiber.Ctx) error {
	if g.shouldBypass(c.Path()) {
		return c.Next()
	}

	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return c.Next()
	}

	// Idempotent when the gate runs twice on the same request.
	if _, attached := IdentityFromContext(c); attached {
		return c.Next()
	}

	subject, err := g.tokens.ExtractSubject(token)
	if err != nil {
		g.logger.Debug("bearer token rejected", zap.Error(err))
		return c.Next()
	}

	user, err := g.lookup.GetByLoginActive(c.Context(), subject)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			g.logger.Error("identity lookup failed", zap.Error(err))
		}
		return c.Next()
	}

	if !g.tokens.IsValid(token, subject) {
		g.logger.Debug("bearer token not valid for subject")
		return c.Next()
	}

	c.Locals(identityKey, &Identity{Subject: subject, Profile: user.Profile})
	return c.Next()
}

func (g *Gate) shouldBypass(path string) bool {
	if path == "/" {
		return true
	}
	for _, prefix := range g.bypass {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// IdentityFromContext retrieves the identity the gate attached, if any.
func IdentityFromContext(c *fiber.Ctx) (*Identity, bool) {
	val := c.Locals(identityKey)
	if val == nil {
		return nil, false
	}
	identity, ok := val.(*Identity)
	return identity, ok
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
