// Package auth authenticates API callers.
//
// Callers present an OpenID Connect ID token as a bearer token. The token is
// verified with go-oidc, the matching local user is created or refreshed and
// attached to the request as an identity.User. Accounts whose email is listed
// in the OIDC.AdminEmails configuration are created with the admin role.
//
// When OIDC is disabled the console runs open: requests pass through without
// an identity and activity is attributed to the system.
//
// Example usage:
//
//	verifier, err := auth.NewOIDCVerifier(ctx, cfg.OIDC)
//	authService := auth.NewService(db, verifier, cfg.OIDC.AdminEmails, recorder)
//
//	api := app.Group("/api", auth.Authenticate(authService))
//	api.Get("/users", auth.RequireAdmin(), handler)
package auth
