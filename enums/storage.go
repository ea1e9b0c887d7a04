package enums

// Durable storage keys written and read as a unit by the session store.
const (
	StorageKeyAccessToken  = "accessToken"
	StorageKeyRefreshToken = "refreshToken"
	StorageKeyUser         = "user"
)

const (
	StorageDriverFile   = "file"
	StorageDriverRedis  = "redis"
	StorageDriverMemory = "memory"
)
