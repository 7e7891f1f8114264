// Package service holds the HTTP-adjacent pieces of the llkgram service
// that service/api depends on but that aren't routing or persistence:
// currently just the admin bearer-token scheme.
package service

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dekarrin/llkgram/service/result"
)

// AuthKey is a key in the context of a request populated by AdminAuth.
type AuthKey int64

const AuthIsAdmin AuthKey = iota

// AdminAuth is middleware gating the admin endpoints (grammar deletion,
// stats). Unlike the teacher's per-user JWT scheme, there is no user
// store in this domain: a token is valid if it is signed with the
// configured admin secret and carries the expected subject, full stop.
type AdminAuth struct {
	secret        []byte
	unauthedDelay time.Duration
	next          http.Handler
}

func RequireAdmin(secret []byte, unauthedDelay time.Duration, next http.Handler) *AdminAuth {
	return &AdminAuth{secret: secret, unauthedDelay: unauthedDelay, next: next}
}

func (ah *AdminAuth) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	tok, err := getJWT(req)
	if err == nil {
		err = validateAdminJWT(tok, ah.secret)
	}
	if err != nil {
		time.Sleep(ah.unauthedDelay)
		result.Unauthorized("", err.Error()).WriteResponse(w)
		return
	}

	ctx := context.WithValue(req.Context(), AuthIsAdmin, true)
	ah.next.ServeHTTP(w, req.WithContext(ctx))
}

func validateAdminJWT(tok string, secret []byte) error {
	_, err := jwt.Parse(tok, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithIssuer("llkgram"),
		jwt.WithSubject("admin"),
		jwt.WithLeeway(time.Minute))
	return err
}

func getJWT(req *http.Request) (string, error) {
	authHeader := strings.TrimSpace(req.Header.Get("Authorization"))
	if authHeader == "" {
		return "", fmt.Errorf("no authorization header present")
	}

	authParts := strings.SplitN(authHeader, " ", 2)
	if len(authParts) != 2 {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	scheme := strings.TrimSpace(strings.ToLower(authParts[0]))
	token := strings.TrimSpace(authParts[1])
	if scheme != "bearer" {
		return "", fmt.Errorf("authorization header not in Bearer format")
	}

	return token, nil
}

// GenerateAdminJWT signs a token an operator can use to reach the admin
// endpoints. It is not exposed over HTTP; an operator mints one out of
// band using the same admin secret the running service was configured
// with.
func GenerateAdminJWT(secret []byte) (string, error) {
	claims := &jwt.MapClaims{
		"iss": "llkgram",
		"sub": "admin",
		"exp": time.Now().Add(24 * time.Hour).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return tok.SignedString(secret)
}
