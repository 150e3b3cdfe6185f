package config

type AppConfig struct {
	APIPort     string `env:"PORT,required" envDefault:"11333"`
	APIKey      string `env:"API_KEY,required"`
	RabbitMQURL string `env:"RABBITMQ_URL"`
}

type DatabaseConfig struct {
	Host            string `env:"DROPSTACK_POSTGRES_HOST,required"`
	Port            string `env:"DROPSTACK_POSTGRES_PORT,required"`
	User            string `env:"DROPSTACK_POSTGRES_USER,required"`
	DBName          string `env:"DROPSTACK_POSTGRES_DB_NAME,required"`
	Password        string `env:"DROPSTACK_POSTGRES_PASSWORD,required"`
	MaxConn         int    `env:"DROPSTACK_POSTGRES_DB_MAX_CONN"`
	MaxIdleConn     int    `env:"DROPSTACK_POSTGRES_DB_MAX_IDLE_CONN"`
	ConnMaxLifetime int    `env:"DROPSTACK_POSTGRES_DB_CONN_MAX_LIFETIME"`
	LogLevel        string `env:"DROPSTACK_POSTGRES_LOG_LEVEL" envDefault:"WARN"`
	SSLMode         string `env:"DROPSTACK_POSTGRES_SSL_MODE"`
}

type FeedConfig struct {
	AuthURL               string `env:"FEED_AUTH_URL"`
	ExportURL             string `env:"FEED_EXPORT_URL"`
	APIUser               string `env:"FEED_API_USER"`
	APISecret             string `env:"FEED_API_SECRET"`
	RequestTimeoutSeconds int    `env:"FEED_REQUEST_TIMEOUT_SECONDS" envDefault:"60"`
	FallbackEnabled       bool   `env:"FEED_FALLBACK_ENABLED" envDefault:"true"`
}

type ValidationConfig struct {
	Enabled           bool   `env:"VALIDATION_ENABLED" envDefault:"true"`
	SignalOrder       string `env:"VALIDATION_SIGNAL_ORDER" envDefault:"dns,whois,scrape"`
	TrustNoWhois      bool   `env:"VALIDATION_TRUST_NO_WHOIS" envDefault:"true"`
	ScrapeEnabled     bool   `env:"VALIDATION_SCRAPE_ENABLED" envDefault:"false"`
	DohURL            string `env:"VALIDATION_DOH_URL" envDefault:"https://dns.google/resolve"`
	DNSTimeoutSeconds int    `env:"VALIDATION_DNS_TIMEOUT_SECONDS" envDefault:"5"`
	WhoisRetryCount   int    `env:"WHOIS_RETRY_COUNT" envDefault:"3"`
	WhoisRetryDelayMs int    `env:"WHOIS_RETRY_DELAY_MS" envDefault:"2000"`
	ScrapeSearchURL   string `env:"VALIDATION_SCRAPE_URL" envDefault:"https://www.namecheap.com/domains/registration/results/?domain="`
}

type IngestConfig struct {
	MinScore         int `env:"INGEST_MIN_SCORE" envDefault:"40"`
	RequestDelayMs   int `env:"INGEST_REQUEST_DELAY_MS" envDefault:"1500"`
	FailureThreshold int `env:"INGEST_FAILURE_THRESHOLD" envDefault:"5"`
	CooldownSeconds  int `env:"INGEST_COOLDOWN_SECONDS" envDefault:"300"`
	MaxCandidates    int `env:"INGEST_MAX_CANDIDATES" envDefault:"200"`
}

type SweepConfig struct {
	ScopeEnabled         bool `env:"SWEEP_SCOPE_ENABLED" envDefault:"false"`
	MaxDaysOut           int  `env:"SWEEP_MAX_DAYS_OUT" envDefault:"14"`
	DroppedRetentionDays int  `env:"SWEEP_DROPPED_RETENTION_DAYS" envDefault:"30"`
}

type R2StorageConfig struct {
	AccountID          string `env:"CLOUDFLARE_R2_ACCOUNT_ID"`
	AccessKeyID        string `env:"CLOUDFLARE_R2_ACCESS_KEY_ID"`
	AccessKeySecret    string `env:"CLOUDFLARE_R2_ACCESS_KEY_SECRET"`
	FeedSnapshotBucket string `env:"BUCKET_NAME_FEED_SNAPSHOT" envDefault:"feed-snapshots"`
}

func (c *R2StorageConfig) Configured() bool {
	return c.AccountID != "" && c.AccessKeyID != "" && c.AccessKeySecret != ""
}
