package backend

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// CredentialProvider supplies the bearer token for outgoing requests.
// An empty token is sent as-is; the backend decides what that means.
type CredentialProvider interface {
	Token(ctx context.Context) (string, error)
}

// StaticToken is a fixed token, used by the CLI.
type StaticToken string

// Token returns the fixed token.
func (s StaticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

type tokenKey struct{}

// WithToken stores the caller's bearer token in ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the token stored by WithToken.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// ContextToken forwards the token carried by the request context.
type ContextToken struct{}

// Token returns the token stored in ctx.
func (ContextToken) Token(ctx context.Context) (string, error) {
	return TokenFromContext(ctx), nil
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}

// AnonymousOwner owns sessions created without a token.
const AnonymousOwner = "anonymous"

// OwnerFromToken derives a stable session owner from a bearer token. The owner always
// ends in a digest of the whole token, so only a holder of that exact token matches it.
// The unverified subject is kept as a readable prefix for logs and never decides access.
func OwnerFromToken(token string) string {
	if token == "" {
		return AnonymousOwner
	}

	sum := sha256.Sum256([]byte(token))
	digest := hex.EncodeToString(sum[:16])
	if subject := tokenSubject(token); subject != "" {
		return "user:" + subject + ":" + digest
	}
	return "token:" + digest
}

func tokenSubject(token string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return ""
	}
	for _, key := range []string{"userId", "user_id", "id"} {
		if v, ok := claims[key].(string); ok && v != "" {
			return v
		}
	}
	sub, _ := claims.GetSubject()
	return sub
}
