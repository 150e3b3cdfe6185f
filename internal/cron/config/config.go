package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Feed ingestion run, daily at 06:00 UTC, after the upstream publishes
	// its export
	CronScheduleIngest string `env:"CRON_SCHEDULE_INGEST" envDefault:"0 0 6 * * *"`
	// Lifecycle reconciliation sweep, hourly
	CronScheduleSweep string `env:"CRON_SCHEDULE_SWEEP" envDefault:"0 0 * * * *"`
}
