package auth

// UserClaims is the identity resolved from a bearer credential. Role checks
// are NOT part of the claims: authorization is re-queried per request.
type UserClaims interface {
	UserID() string
	Email() string
	Source() string
}

type JWTClaims struct {
	UserUUID   string
	EmailValue string
}

func (c *JWTClaims) UserID() string { return c.UserUUID }
func (c *JWTClaims) Email() string  { return c.EmailValue }
func (c *JWTClaims) Source() string { return "JWT" }
