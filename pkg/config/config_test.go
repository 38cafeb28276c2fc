package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cr3t")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.Inventory.StrictTransitions)
	assert.Equal(t, "inventario_session", cfg.Session.CookieName)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestFromViper_SinSecretoFalla(t *testing.T) {
	_, err := fromViper(viper.New())
	assert.Error(t, err)
}

func TestFromViper_ValoresComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "x")
	v.Set("HTTP_PORT", "9090")
	v.Set("INVENTORY_STRICT_TRANSITIONS", "true")
	v.Set("DB_AUTO_MIGRATE", "false")
	v.Set("REDIS_DB", "no-numero")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Inventory.StrictTransitions)
	assert.False(t, cfg.DB.AutoMigrate)
	assert.Equal(t, 0, cfg.Redis.DB, "un entero inválido cae al valor por defecto")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "inv", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/inv?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://otro"
	assert.Equal(t, "postgres://otro", c.ConnectionString())
}

func TestFromViper_Pool(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "x")
	v.Set("DB_MAX_CONNS", "40")
	v.Set("DB_MAX_CONN_IDLE_TIME", "90s")
	v.Set("DB_MAX_CONN_LIFETIME", "media-hora")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, int32(40), cfg.DB.MaxConns)
	assert.Equal(t, int32(2), cfg.DB.MinConns)
	assert.Equal(t, 90*time.Second, cfg.DB.MaxConnIdleTime)
	assert.Equal(t, time.Hour, cfg.DB.MaxConnLifetime, "una duración inválida cae al valor por defecto")

	v.Set("DB_MIN_CONNS", "-1")
	_, err = fromViper(v)
	assert.Error(t, err)
}
