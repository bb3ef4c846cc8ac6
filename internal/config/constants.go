// internal/config/constants.go
package config

import "time"

// アプリケーション情報
const (
	AppName    = "Course Hub"
	AppVersion = "0.3.0"
)

// デフォルト設定値
const (
	DefaultServerPort           = ":8080"
	DefaultLogLevel             = "info"
	DefaultAuthEnabled          = true
	DefaultMailerType           = "log"
	DefaultCertificateThreshold = 100
	DefaultAccessTokenTTL       = time.Hour
	DefaultRefreshWindow        = 24 * time.Hour
	DefaultProgressCacheTTL     = 10 * time.Minute
)
