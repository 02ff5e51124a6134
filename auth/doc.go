// Package auth issues and verifies the HS256 bearer tokens exchanged between
// the REST student list client and the student API server.
//
//	svc, err := auth.NewService(auth.Config{Secret: secret})
//	token, err := svc.Generate("studentstats-cli")
//	claims, err := svc.Parse(token)
//
// The server mounts ValidatorFunc in its auth middleware; handlers read the
// verified claims back with ClaimsFromContext.
package auth
