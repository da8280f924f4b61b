// Package config provides the configuration interfaces consumed by the
// platform and module layers. Each consumer declares the narrow interface
// it needs; the concrete implementation lives in internal/config.
package config

// DatabaseConfig provides database connection settings.
type DatabaseConfig interface {
	GetDatabaseURL() string
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
}

// SchedulerConfig provides settings for the asynq background job system.
type SchedulerConfig interface {
	GetRedisURL() string
	GetRedisTLSInsecure() bool
	GetAsynqQueueName() string
	GetAsynqConcurrency() int
}

// ExtractionConfig provides settings for the AI lead-extraction service.
type ExtractionConfig interface {
	GetGeminiAPIKey() string
	GetGeminiModel() string
	IsExtractionEnabled() bool
}

// EmailConfig provides settings for outbound notification email.
type EmailConfig interface {
	GetSMTPHost() string
	GetSMTPPort() int
	GetSMTPUsername() string
	GetSMTPPassword() string
	GetEmailFromName() string
	GetEmailFromAddress() string
	GetSalesNotifyAddress() string
	IsEmailEnabled() bool
}
