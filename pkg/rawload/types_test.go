package rawload_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/rawload/pkg/rawload"
)

func TestLoadConfig_Validate_Valid(t *testing.T) {
	cfg := rawload.LoadConfig{
		DataPath:         "./data",
		ConnectionString: "postgresql://analytics@localhost:5432/saas_analytics",
		DatabaseName:     "saas_analytics",
		Timeout:          time.Minute,
	}
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig_Validate_MissingFields(t *testing.T) {
	cfg := rawload.LoadConfig{}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, rawload.ErrInvalidConfig)
	assert.Contains(t, err.Error(), "DataPath")
	assert.Contains(t, err.Error(), "ConnectionString")
}

func TestLoadConfig_Validate_NegativeTimeout(t *testing.T) {
	cfg := rawload.LoadConfig{
		DataPath:         "./data",
		ConnectionString: "postgresql://localhost/db",
		Timeout:          -time.Second,
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, rawload.ErrInvalidConfig)
}

func TestLoadReport_TotalLoaded(t *testing.T) {
	r := rawload.LoadReport{
		Tables: []rawload.TableCount{
			{Table: rawload.TableUsers, Loaded: 10, Total: 10},
			{Table: rawload.TablePlans, Loaded: 3, Total: 3},
			{Table: rawload.TableSubscriptions, Loaded: 10, Total: 10},
			{Table: rawload.TableNPS, Loaded: 9, Total: 9},
		},
	}
	assert.Equal(t, int64(32), r.TotalLoaded())
}
