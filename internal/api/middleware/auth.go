package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"judgeback/internal/common"
	"judgeback/internal/common/security"
	"judgeback/internal/domain/model"
	"judgeback/internal/domain/policy"
	"judgeback/internal/domain/repository"

	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const principalCtxKey contextKey = "principal"

// Auth resolves bearer tokens into principals. The judge profile is loaded
// fresh per request so privilege changes (e.g. promotion to main judge)
// apply without reissuing tokens.
type Auth struct {
	judgeRepo repository.JudgeRepository
}

func NewAuth(judgeRepo repository.JudgeRepository) *Auth {
	return &Auth{judgeRepo: judgeRepo}
}

func (a *Auth) Authenticator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context()) // Extracts token from Authorization header

		if err != nil {
			if strings.Contains(err.Error(), "token not found") || token == nil {
				common.RespondWithError(w, http.StatusUnauthorized, "Authorization token required")
			} else {
				common.RespondWithError(w, http.StatusUnauthorized, "Invalid token: "+err.Error())
			}
			return
		}

		if token == nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		userID, err := security.GetUserIDFromClaims(claims)
		if err != nil {
			common.RespondWithError(w, http.StatusUnauthorized, "Invalid token claims: "+err.Error())
			return
		}

		principal := &model.Principal{UserID: userID}
		judge, err := a.judgeRepo.FindByUserID(r.Context(), userID)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			common.RespondWithError(w, http.StatusInternalServerError, "Failed to load judge profile")
			return
		}
		principal.Judge = judge // nil when the user has no judge profile

		ctx := context.WithValue(r.Context(), principalCtxKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require gates a route on a capability from the policy table.
func Require(c policy.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, ok := GetPrincipalFromContext(r.Context())
			if !ok {
				common.RespondWithError(w, http.StatusUnauthorized, "Authentication required")
				return
			}
			if !policy.Allowed(principal, c) {
				common.RespondWithError(w, http.StatusForbidden, "Insufficient privileges")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func GetPrincipalFromContext(ctx context.Context) (*model.Principal, bool) {
	principal, ok := ctx.Value(principalCtxKey).(*model.Principal)
	return principal, ok
}
