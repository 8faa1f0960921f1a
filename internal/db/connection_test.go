package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoolConfigDefaults(t *testing.T) {
	cfg, err := poolConfig("postgres://postgres@localhost:5432/postgres?sslmode=disable")
	require.NoError(t, err)

	assert.LessOrEqual(t, cfg.MaxConns, int32(maxConns))
	assert.Equal(t, applicationName, cfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, "localhost", cfg.ConnConfig.Host)
}

func TestPoolConfigKeepsExplicitSettings(t *testing.T) {
	cfg, err := poolConfig("postgres://postgres@localhost/postgres?application_name=reporting&pool_max_conns=2")
	require.NoError(t, err)

	assert.Equal(t, "reporting", cfg.ConnConfig.RuntimeParams["application_name"])
	assert.Equal(t, int32(2), cfg.MaxConns)
}

func TestPoolConfigRejectsGarbage(t *testing.T) {
	_, err := poolConfig("postgres://%zz")
	assert.ErrorContains(t, err, "failed to parse connection string")
}
