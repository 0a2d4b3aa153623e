package conf

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/durationpb"
)

// requiredEnv satisfies the mandatory fields so tests can focus on the
// pieces they actually exercise.
func requiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("MYSQL_DSN", "user:pass@tcp(127.0.0.1:3306)/courtgate?parseTime=True")
	t.Setenv("PACER_API_TOKEN", "test-pacer-token")
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewBootstrapDefaults(t *testing.T) {
	requiredEnv(t)

	bc, err := NewBootstrap("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", bc.Server.Http.Addr)
	assert.Equal(t, 60*time.Second, bc.Server.Http.Timeout.AsDuration())

	assert.Equal(t, "mysql", bc.Data.Database.Driver)
	assert.Equal(t, "127.0.0.1:6379", bc.Data.Redis.Addr)

	assert.Equal(t, "https://pcl.uscourts.gov/pcl-public-api/rest", bc.Courts.Federal.BaseUrl)
	assert.Equal(t, []string{"CA", "NY", "TX", "FL", "IL"}, bc.Courts.State.Jurisdictions)
	assert.Equal(t, 5, bc.Courts.Breaker.FailureThreshold)
	assert.Equal(t, 5*time.Minute, bc.Courts.Breaker.ResetTimeout.AsDuration())
	assert.False(t, bc.Courts.Breaker.ResetOnSuccess)

	assert.False(t, bc.Fallback.CanScrape, "scraping must be off unless configured")
	assert.Empty(t, bc.Fallback.ScrapingAllowed)
	assert.True(t, bc.Fallback.CanExtractPdf)
	assert.Equal(t, 24*time.Hour, bc.Fallback.ManualEntryDeadline.AsDuration())

	assert.Equal(t, "info", bc.Log.Level)
	assert.Equal(t, "json", bc.Log.Format)
}

func TestNewBootstrapReadsConfigFile(t *testing.T) {
	requiredEnv(t)

	path := writeConfig(t, `
server:
  http:
    addr: ":9090"
    timeout: 30s
courts:
  state:
    jurisdictions: ["CA", "NY"]
  breaker:
    failure_threshold: 3
    reset_on_success: true
fallback:
  can_scrape: true
  scraping_allowed: ["ca", "ny"]
  scraping_targets:
    ca: "https://www.courts.ca.gov/search"
`)

	bc, err := NewBootstrap(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", bc.Server.Http.Addr)
	assert.Equal(t, 30*time.Second, bc.Server.Http.Timeout.AsDuration())
	assert.Equal(t, []string{"CA", "NY"}, bc.Courts.State.Jurisdictions)
	assert.Equal(t, 3, bc.Courts.Breaker.FailureThreshold)
	assert.True(t, bc.Courts.Breaker.ResetOnSuccess)
	assert.True(t, bc.Fallback.CanScrape)
	assert.Equal(t, []string{"ca", "ny"}, bc.Fallback.ScrapingAllowed)
	assert.Equal(t, "https://www.courts.ca.gov/search", bc.Fallback.ScrapingTargets["ca"])
}

func TestNewBootstrapEnvOverridesFile(t *testing.T) {
	requiredEnv(t)
	t.Setenv("COURTGATE_DATA_REDIS_ADDR", "redis.internal:6380")
	t.Setenv("COURTGATE_COURTS_WEBHOOK_URL", "https://hooks.internal/breaker")

	path := writeConfig(t, `
data:
  redis:
    addr: "127.0.0.1:6379"
`)

	bc, err := NewBootstrap(path)
	require.NoError(t, err)

	assert.Equal(t, "redis.internal:6380", bc.Data.Redis.Addr)
	assert.Equal(t, "https://hooks.internal/breaker", bc.Courts.Webhook.Url)
	assert.Equal(t, "test-pacer-token", bc.Courts.Federal.ApiToken)
}

func TestNewBootstrapMissingConfigFile(t *testing.T) {
	requiredEnv(t)

	_, err := NewBootstrap(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestValidateMissingRequiredFields(t *testing.T) {
	bc := &Bootstrap{
		Data:   &Data{Database: &Data_Database{Driver: "mysql"}},
		Courts: &Courts{Federal: &Courts_Federal{}, Breaker: &Courts_Breaker{FailureThreshold: 5}},
	}

	err := Validate(bc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "data.database.source (MYSQL_DSN)")
	assert.Contains(t, err.Error(), "courts.federal.api_token (PACER_API_TOKEN)")
}

func TestValidateBreakerThreshold(t *testing.T) {
	bc := &Bootstrap{
		Data: &Data{Database: &Data_Database{Source: "dsn"}},
		Courts: &Courts{
			Federal: &Courts_Federal{ApiToken: "tok"},
			Breaker: &Courts_Breaker{FailureThreshold: 0, ResetTimeout: durationpb.New(time.Minute)},
		},
	}

	err := Validate(bc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failure_threshold")
}

func TestValidateAccepts(t *testing.T) {
	bc := &Bootstrap{
		Data: &Data{Database: &Data_Database{Source: "dsn"}},
		Courts: &Courts{
			Federal: &Courts_Federal{ApiToken: "tok"},
			Breaker: &Courts_Breaker{FailureThreshold: 5},
		},
	}
	assert.NoError(t, Validate(bc))
}
