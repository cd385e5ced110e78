package web

import (
	"strings"

	"github.com/PeterRema/calendario-project/auth/users"
	"github.com/PeterRema/calendario-project/internal/web/webpath"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/gofiber/fiber/v2"
)

const userKey = "user"

var (
	publicPrefixes    = mapset.NewSet(webpath.Assets, "/favicon", "/icons", "/manifest")
	protectedPrefixes = mapset.NewSet(webpath.Dashboard, webpath.Admin, webpath.Account)
)

// guard runs before every handler. Rules are evaluated in order and the
// first match wins. A bad or missing token never errors here, it just
// reads as "no session".
func (s *Server) guard(c *fiber.Ctx) error {
	path := c.Path()

	// 1. public bypass
	if isPublic(path) {
		return c.Next()
	}

	claims, ok := s.auth.UserFromToken(c.Cookies("token"))

	// 2. no session on a protected page
	if !ok {
		if hasAnyPrefix(path, protectedPrefixes) {
			return c.Redirect(webpath.Login)
		}
		return c.Next()
	}

	// 3. forced password change dominates everything below, admin pages
	// included
	if claims.MustChangePassword && !isChangePasswordSurface(path) {
		return c.Redirect(webpath.AccountChangePassword)
	}

	// 4. role gate for the admin area
	if strings.HasPrefix(path, webpath.Admin) && !claims.IsAdmin() {
		return c.Redirect(webpath.Dashboard)
	}

	// 5. already authenticated on the login page
	if path == webpath.Login {
		if claims.IsAdmin() {
			return c.Redirect(webpath.Admin)
		}
		return c.Redirect(webpath.Dashboard)
	}

	c.Context().SetUserValue(userKey, claims)
	return c.Next()
}

func isPublic(path string) bool {
	if path == webpath.Home || path == webpath.Logout {
		return true
	}
	return hasAnyPrefix(path, publicPrefixes)
}

func isChangePasswordSurface(path string) bool {
	return strings.HasPrefix(path, webpath.AccountChangePassword) ||
		strings.HasPrefix(path, webpath.ApiAccountChangePassword)
}

func hasAnyPrefix(path string, prefixes mapset.Set[string]) bool {
	for prefix := range prefixes.Iter() {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func claimsFromCtx(ctx *fiber.Ctx) (users.SessionClaims, bool) {
	claims, ok := ctx.Context().UserValue(userKey).(users.SessionClaims)
	return claims, ok
}
