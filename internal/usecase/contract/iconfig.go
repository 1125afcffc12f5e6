package usecasecontract

import "time"

// IConfigProvider exposes the configuration values usecases depend on.
type IConfigProvider interface {
	GetAppEnv() string
	GetAccessTokenExpiry() time.Duration
	GetLikeToggleMaxRetries() int
	GetLikeToggleInitialBackoff() time.Duration
	GetLikeToggleMaxBackoff() time.Duration
	GetFeedCacheTTL() time.Duration
}
