package middleware

import (
	"net/http"
	"strings"

	"aethex/emissary/internal/auth"
	"aethex/emissary/internal/db/repositories"
)

func AuthMiddleware(keysRepo *repositories.KeysRepo) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			authHeader := r.Header.Get("Authorization")
			apiKey := r.Header.Get("X-API-Key")

			var claims auth.UserClaims

			switch {
			case strings.HasPrefix(authHeader, "Bearer "):
				parsed, err := auth.ParseBearerToken(strings.TrimPrefix(authHeader, "Bearer "))
				if err != nil {
					http.Error(w, "Unauthorized. Invalid bearer token", http.StatusUnauthorized)
					return
				}
				claims = parsed

			case apiKey != "":
				keyRes, err := keysRepo.GetStatus(r.Context(), apiKey)
				if err != nil {
					http.Error(w, "Unauthorized. Invalid API Key", http.StatusUnauthorized)
					return
				}

				if !keyRes.Status {
					http.Error(w, "Unauthorized. Inactive API Key", http.StatusUnauthorized)
					return
				}

				claims = &auth.APIKeyClaims{
					KeyLabel:      keyRes.Label,
					DiscordUIDVal: r.Header.Get("X-Discord-Id"),
					DiscordGIDVal: r.Header.Get("X-Guild-Id"),
				}

			default:
				http.Error(w, "Unauthorized. Missing credentials", http.StatusUnauthorized)
				return
			}

			ctx := auth.SetUserClaims(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
