package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/farmbit/mobile-api/internal/model"
	"github.com/farmbit/mobile-api/internal/usecase"
	"github.com/farmbit/mobile-api/shared/auth"
	"github.com/farmbit/mobile-api/shared/httputil"
)

type contextKey int

const (
	identityTokenKey contextKey = iota
	userKey
)

// AuthMiddleware guards protected routes with token checks and enriches the
// request context with the authenticated user.
type AuthMiddleware struct {
	jwtAuth     auth.JWTAuthenticator
	authUsecase usecase.AuthUsecase
	logger      *zerolog.Logger
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(
	jwtAuth auth.JWTAuthenticator,
	authUsecase usecase.AuthUsecase,
	logger *zerolog.Logger,
) *AuthMiddleware {
	return &AuthMiddleware{
		jwtAuth:     jwtAuth,
		authUsecase: authUsecase,
		logger:      logger,
	}
}

// RequireAccessToken rejects requests without a valid bearer access token and
// stores the token's identity claim in the context.
func (m *AuthMiddleware) RequireAccessToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Missing or malformed Authorization header")
			return
		}

		claims, err := m.jwtAuth.ValidateAccessToken(tokenStr)
		if err != nil {
			m.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("access token rejected")
			httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), identityTokenKey, claims.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRefreshToken rejects requests without a valid bearer refresh token.
func (m *AuthMiddleware) RequireRefreshToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tokenStr, ok := bearerToken(r)
		if !ok {
			httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Missing or malformed Authorization header")
			return
		}

		claims, err := m.jwtAuth.ValidateRefreshToken(tokenStr)
		if err != nil {
			m.logger.Debug().Err(err).Str("path", r.URL.Path).Msg("refresh token rejected")
			httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), identityTokenKey, claims.RefreshID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// EnrichUser re-fetches the full user behind the validated identity claim and
// attaches it to the context for downstream handlers.
func (m *AuthMiddleware) EnrichUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identityToken, ok := IdentityTokenFromContext(r.Context())
		if !ok {
			httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized")
			return
		}

		user, err := m.authUsecase.ResolveIdentity(r.Context(), identityToken)
		if err != nil {
			httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized")
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects users without the ADMIN role. Must run after EnrichUser.
func (m *AuthMiddleware) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || user.Role != model.RoleAdmin {
			httputil.FailUnauthorized(w, httputil.CodeInvalidToken, "Unauthorized to access this route")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// IdentityTokenFromContext extracts the validated identity claim.
func IdentityTokenFromContext(ctx context.Context) (string, bool) {
	identityToken, ok := ctx.Value(identityTokenKey).(string)
	return identityToken, ok
}

// UserFromContext extracts the enriched user.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userKey).(*model.User)
	return user, ok
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
