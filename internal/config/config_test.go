package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_DefaultsAndEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("ELIGIBILITY_MULTIPLIER", "12.5")
	t.Setenv("REDIS_DB", "3")

	c, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", c.AppPort)
	assert.Equal(t, "s3cret", c.JWTSecret)
	assert.Equal(t, 3, c.RedisDB)
	assert.Equal(t, 24*time.Hour, c.JWTTTL)
	assert.Equal(t, 365*24*time.Hour, c.LoanTerm())
	assert.Equal(t, 300*time.Second, c.IdempotencyTTL())
	require.NoError(t, c.Validate())
	assert.True(t, c.Multiplier().Equal(decimal.RequireFromString("12.5")))
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			AppPort: "8080", DBDriver: "sqlite", SQLitePath: "x.db",
			JWTSecret: "k", JWTTTL: time.Hour,
			EligibilityMultiplier: "10", LoanTermDays: 365, ReminderWindowDays: 7,
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "ok", mutate: func(c *Config) {}},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET"},
		{name: "bad driver", mutate: func(c *Config) { c.DBDriver = "oracle" }, wantErr: "DB_DRIVER"},
		{name: "bad multiplier", mutate: func(c *Config) { c.EligibilityMultiplier = "ten" }, wantErr: "ELIGIBILITY_MULTIPLIER"},
		{name: "zero multiplier", mutate: func(c *Config) { c.EligibilityMultiplier = "0" }, wantErr: "greater than 0"},
		{name: "zero term", mutate: func(c *Config) { c.LoanTermDays = 0 }, wantErr: "LOAN_TERM_DAYS"},
		{name: "mysql missing host", mutate: func(c *Config) { c.DBDriver = "mysql" }, wantErr: "MySQL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestMySQLDSN(t *testing.T) {
	c := &Config{MySQLUser: "u", MySQLPass: "p", MySQLHost: "db", MySQLPort: "3306", MySQLDB: "agro"}
	assert.Equal(t, "u:p@tcp(db:3306)/agro?multiStatements=true&parseTime=true&clientFoundRows=true&loc=UTC&charset=utf8mb4,utf8", c.MySQLDSN())
}
