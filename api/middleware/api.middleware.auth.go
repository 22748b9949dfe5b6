package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Nerzal/gocloak/v13"
	"github.com/itsatony/soilsense/internal/errors"
	"github.com/itsatony/soilsense/internal/models"
	nuts "github.com/vaudience/go-nuts"
)

type KeycloakConfig struct {
	URL          string
	Realm        string
	ClientID     string
	ClientSecret string
}

// KeycloakMiddleware guards the operator routes. Sessions and users live in
// Keycloak; with no URL configured every request passes unauthenticated.
type KeycloakMiddleware struct {
	client *gocloak.GoCloak
	config KeycloakConfig
}

type contextKey string

const operatorKey contextKey = "operator"

// Operator is the authenticated caller of an operator route.
type Operator struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func NewKeycloakMiddleware(config KeycloakConfig) *KeycloakMiddleware {
	k := &KeycloakMiddleware{config: config}
	if config.URL != "" {
		k.client = gocloak.NewClient(config.URL)
	}
	return k
}

func (k *KeycloakMiddleware) Enabled() bool {
	return k.client != nil
}

// Authenticate validates the bearer token and adds the operator to the context
func (k *KeycloakMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !k.Enabled() {
			next.ServeHTTP(w, r)
			return
		}

		token := extractToken(r)
		if token == "" {
			handleError(w, errors.NewAuthError("no token provided", nil))
			return
		}

		result, err := k.client.RetrospectToken(r.Context(), token, k.config.ClientID, k.config.ClientSecret, k.config.Realm)
		if err != nil || result == nil || result.Active == nil || !*result.Active {
			handleError(w, errors.NewAuthError("invalid token", err))
			return
		}

		info, err := k.client.GetUserInfo(r.Context(), token, k.config.Realm)
		if err != nil {
			handleError(w, errors.NewAuthError("failed to get user info", err))
			return
		}

		operator := &Operator{
			ID:       gocloak.PString(info.Sub),
			Username: gocloak.PString(info.PreferredUsername),
		}
		ctx := context.WithValue(r.Context(), operatorKey, operator)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OperatorFromContext returns the authenticated operator, if any.
func OperatorFromContext(ctx context.Context) (*Operator, bool) {
	op, ok := ctx.Value(operatorKey).(*Operator)
	return op, ok
}

func extractToken(r *http.Request) string {
	parts := strings.Fields(r.Header.Get("Authorization"))
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return parts[1]
	}
	return ""
}

func handleError(w http.ResponseWriter, err *errors.APIError) {
	nuts.L.Warnf("[API] %s", err.Error())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(err.Code)
	json.NewEncoder(w).Encode(models.OperatorResponse{Success: false, Error: err.Message})
}
