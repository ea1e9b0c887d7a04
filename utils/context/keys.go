package context

type contextKey string

const (
	tokenKey   contextKey = "requestToken"
	sessionKey contextKey = "jwtSession"
)
