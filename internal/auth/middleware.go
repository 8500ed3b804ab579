package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type contextKey string

const SceneIDKey contextKey = "sceneID"

// RequireScene rejects requests whose bearer token was not issued for the
// scene named by the {id} route variable.
func (s *Service) RequireScene(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid authorization format"})
			return
		}

		sceneID, err := s.ValidateToken(parts[1])
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid token"})
			return
		}
		if id := mux.Vars(r)["id"]; id != "" && id != sceneID {
			writeJSON(w, http.StatusForbidden, map[string]string{"error": "token not valid for this scene"})
			return
		}

		ctx := context.WithValue(r.Context(), SceneIDKey, sceneID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func SceneIDFromContext(ctx context.Context) string {
	sceneID, _ := ctx.Value(SceneIDKey).(string)
	return sceneID
}
