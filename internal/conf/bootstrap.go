package conf

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/protobuf/types/known/durationpb"
)

// NewBootstrap creates and initializes a Bootstrap configuration.
// It loads configuration from the specified config file path, applies
// defaults, and allows overrides from environment variables prefixed with
// COURTGATE_.
//
// Configuration priority: Environment variables > Config file > Defaults
//
// Required environment variables (or config equivalents):
//   - MYSQL_DSN or COURTGATE_DATA_DATABASE_SOURCE: MySQL connection string
//   - PACER_API_TOKEN or COURTGATE_COURTS_FEDERAL_API_TOKEN: federal gateway token
func NewBootstrap(configPath string) (*Bootstrap, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("COURTGATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Bind well-known environment variable names for required secrets.
	_ = v.BindEnv("data.database.source", "MYSQL_DSN", "COURTGATE_DATA_DATABASE_SOURCE")
	_ = v.BindEnv("data.redis.addr", "COURTGATE_DATA_REDIS_ADDR")
	_ = v.BindEnv("courts.federal.api_token", "PACER_API_TOKEN", "COURTGATE_COURTS_FEDERAL_API_TOKEN")
	_ = v.BindEnv("courts.webhook.url", "COURTGATE_COURTS_WEBHOOK_URL")

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
		}
	}

	bc := &Bootstrap{
		Server: &Server{
			Http: &Server_HTTP{
				Network: v.GetString("server.http.network"),
				Addr:    v.GetString("server.http.addr"),
				Timeout: durationpb.New(v.GetDuration("server.http.timeout")),
			},
		},
		Data: &Data{
			Database: &Data_Database{
				Driver: v.GetString("data.database.driver"),
				Source: v.GetString("data.database.source"),
			},
			Redis: &Data_Redis{
				Network:      v.GetString("data.redis.network"),
				Addr:         v.GetString("data.redis.addr"),
				ReadTimeout:  durationpb.New(v.GetDuration("data.redis.read_timeout")),
				WriteTimeout: durationpb.New(v.GetDuration("data.redis.write_timeout")),
			},
		},
		Courts: &Courts{
			Federal: &Courts_Federal{
				BaseUrl:  v.GetString("courts.federal.base_url"),
				ApiToken: v.GetString("courts.federal.api_token"),
				Proxy:    v.GetString("courts.federal.proxy"),
				Timeout:  durationpb.New(v.GetDuration("courts.federal.timeout")),
			},
			State: &Courts_State{
				BaseUrl:       v.GetString("courts.state.base_url"),
				Jurisdictions: v.GetStringSlice("courts.state.jurisdictions"),
				Timeout:       durationpb.New(v.GetDuration("courts.state.timeout")),
			},
			Breaker: &Courts_Breaker{
				FailureThreshold: v.GetInt("courts.breaker.failure_threshold"),
				ResetTimeout:     durationpb.New(v.GetDuration("courts.breaker.reset_timeout")),
				ResetOnSuccess:   v.GetBool("courts.breaker.reset_on_success"),
			},
			Webhook: &Courts_Webhook{
				Url:     v.GetString("courts.webhook.url"),
				Timeout: durationpb.New(v.GetDuration("courts.webhook.timeout")),
			},
		},
		Fallback: &Fallback{
			ScrapingAllowed:     v.GetStringSlice("fallback.scraping_allowed"),
			ScrapingTargets:     v.GetStringMapString("fallback.scraping_targets"),
			ScrapeTimeout:       durationpb.New(v.GetDuration("fallback.scrape_timeout")),
			CanScrape:           v.GetBool("fallback.can_scrape"),
			CanExtractPdf:       v.GetBool("fallback.can_extract_pdf"),
			ManualEntryDeadline: durationpb.New(v.GetDuration("fallback.manual_entry_deadline")),
		},
		Log: &Log{
			Level:      v.GetString("log.level"),
			Format:     v.GetString("log.format"),
			Env:        v.GetString("log.env"),
			OutputFile: v.GetString("log.output_file"),
		},
	}

	if err := Validate(bc); err != nil {
		return nil, err
	}

	return bc, nil
}

// setDefaults sets default configuration values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.http.network", "tcp")
	v.SetDefault("server.http.addr", ":8080")
	v.SetDefault("server.http.timeout", 60*time.Second)

	// Data defaults
	v.SetDefault("data.database.driver", "mysql")
	// Note: data.database.source (MYSQL_DSN) is required from environment

	v.SetDefault("data.redis.network", "tcp")
	v.SetDefault("data.redis.addr", "127.0.0.1:6379")
	v.SetDefault("data.redis.read_timeout", 200*time.Millisecond)
	v.SetDefault("data.redis.write_timeout", 200*time.Millisecond)

	// Court integration defaults
	v.SetDefault("courts.federal.base_url", "https://pcl.uscourts.gov/pcl-public-api/rest")
	v.SetDefault("courts.federal.timeout", 30*time.Second)
	v.SetDefault("courts.state.base_url", "https://api.statecourts.example.org/v1")
	v.SetDefault("courts.state.jurisdictions", []string{"CA", "NY", "TX", "FL", "IL"})
	v.SetDefault("courts.state.timeout", 30*time.Second)

	v.SetDefault("courts.breaker.failure_threshold", 5)
	v.SetDefault("courts.breaker.reset_timeout", 5*time.Minute)
	v.SetDefault("courts.breaker.reset_on_success", false)
	v.SetDefault("courts.webhook.timeout", 5*time.Second)

	// Fallback defaults: scraping is default-deny (empty allow list).
	v.SetDefault("fallback.scrape_timeout", 45*time.Second)
	v.SetDefault("fallback.can_scrape", false)
	v.SetDefault("fallback.can_extract_pdf", true)
	v.SetDefault("fallback.manual_entry_deadline", 24*time.Hour)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
}

// Validate checks that all required configuration fields are present and
// valid. It returns an error listing all missing required fields.
func Validate(bc *Bootstrap) error {
	var missingFields []string

	if bc.Data == nil || bc.Data.Database == nil || bc.Data.Database.Source == "" {
		missingFields = append(missingFields, "data.database.source (MYSQL_DSN)")
	}

	if bc.Courts == nil || bc.Courts.Federal == nil || bc.Courts.Federal.ApiToken == "" {
		missingFields = append(missingFields, "courts.federal.api_token (PACER_API_TOKEN)")
	}

	if bc.Courts != nil && bc.Courts.Breaker != nil && bc.Courts.Breaker.FailureThreshold < 1 {
		missingFields = append(missingFields, "courts.breaker.failure_threshold (must be >= 1)")
	}

	if len(missingFields) > 0 {
		return fmt.Errorf("missing required configuration fields: %s", strings.Join(missingFields, ", "))
	}

	return nil
}
