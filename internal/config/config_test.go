package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleConfig = `
[server]
http_port = 9090

[database]
host = "db"
port = 6432
user = "svc"
password = "secret"
dbname = "appts"
sslmode = "require"

[ledger]
durable = "dynamodb"
timeout_ms = 1500

[auth]
jwt_secret = "s3cret"
admin_emails = ["admin@example.com"]

[[schedule.doctors]]
doctor_id = "doc9"
available_days = [0, 6]
time_slots = ["9:00 AM"]
slot_duration_minutes = 45
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, 15, cfg.Server.ShutdownTimeout, "unset keys keep defaults")
	assert.Equal(t, DurableDynamoDB, cfg.Ledger.Durable)
	assert.Equal(t, 1500*time.Millisecond, cfg.Ledger.Timeout())
	assert.Equal(t, []string{"admin@example.com"}, cfg.Auth.AdminEmails)
	require.Len(t, cfg.Schedule.Doctors, 1)
	assert.Equal(t, "doc9", cfg.Schedule.Doctors[0].DoctorID)
	assert.Equal(t, "postgres://svc:secret@db:6432/appts?sslmode=require", cfg.Database.DSN())
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	t.Setenv("APPT_SERVER_HTTP_PORT", "7070")
	t.Setenv("APPT_LEDGER_DURABLE", "none")
	t.Setenv("APPT_AUTH_ADMIN_EMAILS", "a@x.io,b@x.io")

	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.HTTPPort)
	assert.Equal(t, DurableNone, cfg.Ledger.Durable)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, cfg.Auth.AdminEmails)
	assert.Equal(t, "db", cfg.Database.Host, "fields without env vars keep file values")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "defaults with secret", mutate: func(c *Config) {}},
		{name: "unknown durable", mutate: func(c *Config) { c.Ledger.Durable = "mongo" }, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.Ledger.TimeoutMS = 0 }, wantErr: true},
		{name: "missing secret", mutate: func(c *Config) { c.Auth.JWTSecret = "" }, wantErr: true},
		{name: "missing secret allowed in dev", mutate: func(c *Config) {
			c.Auth.JWTSecret = ""
			c.Auth.AllowUnverified = true
		}},
		{name: "sendgrid without key", mutate: func(c *Config) { c.Email.Provider = EmailProviderSendGrid }, wantErr: true},
		{name: "ses without region", mutate: func(c *Config) { c.Email.Provider = EmailProviderSES }, wantErr: true},
		{name: "override without slots", mutate: func(c *Config) {
			c.Schedule.Doctors = []DoctorSchedule{{DoctorID: "doc1", AvailableDays: []int{1}}}
		}, wantErr: true},
		{name: "override with bad weekday", mutate: func(c *Config) {
			c.Schedule.Doctors = []DoctorSchedule{{DoctorID: "doc1", AvailableDays: []int{7}, TimeSlots: []string{"9:00 AM"}}}
		}, wantErr: true},
		{name: "duplicate override", mutate: func(c *Config) {
			d := DoctorSchedule{DoctorID: "doc1", TimeSlots: []string{"9:00 AM"}}
			c.Schedule.Doctors = []DoctorSchedule{d, d}
		}, wantErr: true},
		{name: "default schedule with empty label", mutate: func(c *Config) {
			c.Schedule.Default = DoctorSchedule{TimeSlots: []string{" "}}
		}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaults()
			cfg.Auth.JWTSecret = "secret"
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
