package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	h "evently/internal/delivery/http/helpers"
	"evently/internal/domain"
)

type contextKey string

const userIDKey contextKey = "userID"

var (
	errNoCredentials = errors.New("missing authorization header")
	errNotBearer     = errors.New("invalid authorization format")
	errEmptyToken    = errors.New("missing token")
)

func SetUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFromContext reports the caller set by RequireAuth. An empty id
// counts as anonymous.
func UserIDFromContext(ctx context.Context) (string, bool) {
	id, _ := ctx.Value(userIDKey).(string)
	return id, id != ""
}

// bearerToken extracts the credential from "Authorization: Bearer <token>".
// The scheme is matched case-insensitively.
func bearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", errNoCredentials
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", errNotBearer
	}
	if token = strings.TrimSpace(token); token == "" {
		return "", errEmptyToken
	}
	return token, nil
}

// RequireAuth rejects requests without a valid session token with 401.
// Accepted requests reach next with the user id in their context.
func RequireAuth(verifier domain.TokenVerifier, logger *slog.Logger) func(http.HandlerFunc) http.HandlerFunc {
	unauthorized := func(w http.ResponseWriter, msg string) {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, msg)
	}

	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			token, err := bearerToken(r)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}

			userID, err := verifier.Verify(token)
			if err != nil {
				logger.DebugContext(r.Context(), "token rejected",
					"request_id", RequestIDFromContext(r.Context()), "err", err)
				unauthorized(w, "invalid or expired token")
				return
			}

			next(w, r.WithContext(SetUserID(r.Context(), userID)))
		}
	}
}
