package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "donorhub/pkg/domain"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 720*time.Hour, cfg.Draw.Period)
	assert.Equal(t, 500, cfg.Draw.Threshold)
	assert.Equal(t, "donorhub.audit", cfg.Kafka.Topic)
	assert.Empty(t, cfg.Database.URL)
	assert.True(t, cfg.UsesDevSigningKey())
	assert.Equal(t, 5, cfg.Lockout.Attempts)
	assert.Equal(t, 15*time.Minute, cfg.Lockout.LockDuration)
}

func TestLoadFromEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DONORHUB_SERVER_ADDR", ":9090")
	t.Setenv("DONORHUB_DRAW_PERIOD", "1h")
	t.Setenv("DONORHUB_DRAW_THRESHOLD", "250")
	t.Setenv("DATABASE_URL", "postgres://localhost/donorhub")
	t.Setenv("DONORHUB_KAFKA_BROKERS", "a:9092,b:9092")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, time.Hour, cfg.Draw.Period)
	assert.Equal(t, 250, cfg.Draw.Threshold)
	assert.Equal(t, "postgres://localhost/donorhub", cfg.Database.URL)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.Kafka.Brokers)
}

func TestShortageSeeds(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("DONORHUB_LEDGER_SHORTAGE_TYPES", "o-, ab-")

	cfg, err := Load()
	require.NoError(t, err)
	seeds, err := cfg.ShortageSeeds()
	require.NoError(t, err)
	assert.Equal(t, []id.BloodType{id.BloodTypeONeg, id.BloodTypeABNeg}, seeds)

	t.Setenv("DONORHUB_LEDGER_SHORTAGE_TYPES", "Z+")
	_, err = Load()
	assert.ErrorContains(t, err, "ledger.shortage_types")
}

func TestValidate(t *testing.T) {
	valid := Config{
		Server: Server{Addr: ":8080", SessionTTL: time.Hour},
		Draw:   DrawConfig{Period: time.Hour, Threshold: 500},
	}
	require.NoError(t, valid.Validate())

	noPeriod := valid
	noPeriod.Draw.Period = 0
	assert.ErrorContains(t, noPeriod.Validate(), "draw.period")

	kafkaNoTopic := valid
	kafkaNoTopic.Kafka.Brokers = []string{"localhost:9092"}
	assert.ErrorContains(t, kafkaNoTopic.Validate(), "kafka.topic")

	lockoutNoWindow := valid
	lockoutNoWindow.Lockout = LockoutConfig{Attempts: 3, LockDuration: time.Minute}
	assert.ErrorContains(t, lockoutNoWindow.Validate(), "lockout.window")
}
