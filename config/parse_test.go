package config

import (
	"reflect"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPopulateNeuronConfig(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	setNeuronDefaultConfig()
	viper.Set("Port", "9090")
	viper.Set("DB.DSN", "postgres://neuron@localhost/neuron")
	viper.Set("GitHub.AppID", int64(12345))
	viper.Set("Kafka.SkipTLS", true)

	cfg, err := populateNeuronConfig(new(NeuronConfig))
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://neuron@localhost/neuron", cfg.DB.DSN)
	assert.Equal(t, int64(12345), cfg.GitHub.AppID)
	assert.True(t, cfg.Kafka.SkipTLS)
	assert.Equal(t, 60, cfg.LockTTLSeconds)
	assert.Equal(t, "check-runs", cfg.Kafka.Topic)
	assert.Equal(t, "local", cfg.GitStorage.Mode)
	assert.True(t, cfg.LogConfig.EnableConsole)
}

func TestRecursivelySet_RejectsNonPointer(t *testing.T) {
	tests := []struct {
		name string
		val  reflect.Value
	}{
		{"struct value", reflect.ValueOf(NeuronConfig{})},
		{"pointer to int", reflect.ValueOf(new(int))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := recursivelySet(tt.val, ""); err == nil {
				t.Errorf("recursivelySet() error = nil, want error")
			}
		})
	}
}

func TestRecursivelySet_TagsAndKinds(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	type target struct {
		Ratio   float64
		Renamed string `yaml:"other_name"`
		Kept    string
	}
	viper.Set("Ratio", 0.75)
	viper.Set("other_name", "from-tag")

	got := &target{Kept: "preset"}
	require.NoError(t, recursivelySet(reflect.ValueOf(got), ""))
	assert.Equal(t, 0.75, got.Ratio)
	assert.Equal(t, "from-tag", got.Renamed)
	assert.Equal(t, "preset", got.Kept)

	type unsupported struct {
		Hosts []string
	}
	err := recursivelySet(reflect.ValueOf(&unsupported{}), "")
	assert.EqualError(t, err, `unsupported config field "Hosts" of kind slice`)
}
