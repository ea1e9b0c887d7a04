package middleware

const (
	Authorization = "Authorization"
	TokenKey      = "requestToken"
	SessionKey    = "sessionUser"
)
