package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/streamflix/catalog-service/internal/domain"
	apperrors "github.com/streamflix/catalog-service/pkg/util"
)

// Access categorizes what a rule demands of the caller.
type Access int

const (
	// AccessPublic requires no identity.
	AccessPublic Access = iota
	// AccessAuthenticated requires any valid identity.
	AccessAuthenticated
	// AccessProfiles requires an identity whose profile is in the rule's set.
	AccessProfiles
)

// Rule maps a method and path pattern to the access it demands. Patterns
// support exact paths, `*` for a single segment and a trailing `/**` for the
// whole subtree. Method "*" matches every method.
type Rule struct {
	Method   string
	Pattern  string
	Access   Access
	Profiles []domain.Profile
}

// Public builds a rule open to anonymous callers.
func Public(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: AccessPublic}
}

// Authenticated builds a rule requiring any identity.
func Authenticated(method, pattern string) Rule {
	return Rule{Method: method, Pattern: pattern, Access: AccessAuthenticated}
}

// Profiles builds a rule restricted to the given profiles.
func Profiles(method, pattern string, profiles ...domain.Profile) Rule {
	return Rule{Method: method, Pattern: pattern, Access: AccessProfiles, Profiles: profiles}
}

// Policy evaluates an ordered rule table: first match decides, more specific
// rules belong before general ones. Anything no rule matches requires
// authentication.
type Policy struct {
	rules []Rule
}

// NewPolicy builds a policy from the declared rule order.
func NewPolicy(rules ...Rule) *Policy {
	return &Policy{rules: rules}
}

// Handle allows or rejects the request based on the first matching rule and
// the identity the gate attached. Missing identity on a protected rule is
// 401; a present identity lacking the profile is 403.
func (p *Policy) Handle(c *fiber.Ctx) error {
	rule := p.match(c.Method(), c.Path())

	if rule.Access == AccessPublic {
		return c.Next()
	}

	identity, ok := IdentityFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	if rule.Access == AccessAuthenticated {
		return c.Next()
	}

	for _, profile := range rule.Profiles {
		if identity.Profile == profile {
			return c.Next()
		}
	}
	return apperrors.NewForbidden("insufficient role")
}

func (p *Policy) match(method, path string) Rule {
	for _, rule := range p.rules {
		if rule.matches(method, path) {
			return rule
		}
	}
	return Rule{Access: AccessAuthenticated}
}

func (r Rule) matches(method, path string) bool {
	if r.Method != "" && r.Method != "*" && !strings.EqualFold(r.Method, method) {
		return false
	}
	return matchPattern(r.Pattern, path)
}

func matchPattern(pattern, path string) bool {
	if strings.HasSuffix(pattern, "/**") {
		base := strings.TrimSuffix(pattern, "/**")
		if !strings.HasPrefix(path, base) {
			return false
		}
		rest := path[len(base):]
		return rest == "" || strings.HasPrefix(rest, "/")
	}

	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")
	if len(patSegs) != len(pathSegs) {
		return false
	}
	for i := range patSegs {
		if patSegs[i] == "*" {
			continue
		}
		if patSegs[i] != pathSegs[i] {
			return false
		}
	}
	return true
}
