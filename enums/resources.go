package enums

const (
	AuthLoginPath   = "/api/auth/login"
	AuthRefreshPath = "/api/auth/refresh"

	ClientsResource     = "/api/clientes"
	ColorationsResource = "/api/coloraciones"
	ReportsResource     = "/api/reportes"
	UsersResource       = "/api/user"
)
