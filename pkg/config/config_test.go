package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestFromViperDefaults(t *testing.T) {
	v := viper.New()
	setDefaults(v)

	cfg := fromViper(v)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, 70.0, cfg.Analytics.PassThreshold)
	assert.Equal(t, 5, cfg.Analytics.MaxWeakTopics)
	assert.Equal(t, 20, cfg.Analytics.AttemptFeedLimit)
	assert.Equal(t, 6, cfg.Dashboard.StudentCourseLimit)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Nil(t, cfg.CORS.AllowedOrigins)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "PGX")
	v.Set("ANALYTICS_PASS_THRESHOLD", 60.5)
	v.Set("DASHBOARD_CACHE_TTL", "not-a-duration")
	v.Set("ALLOWED_ORIGINS", "http://a.test, ,http://b.test")

	cfg := fromViper(v)

	assert.Equal(t, DriverPGX, cfg.Database.Driver)
	assert.Equal(t, 60.5, cfg.Analytics.PassThreshold)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORS.AllowedOrigins)
}

func TestFromViperUnknownDriverFallsBack(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	v.Set("DB_DRIVER", "mysql")

	assert.Equal(t, DriverPostgres, fromViper(v).Database.Driver)
}
