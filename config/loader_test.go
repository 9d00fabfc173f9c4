package config

import (
	"testing"

	"github.com/LambdaTest/neuron/pkg/lumber"
)

func validConfig() *NeuronConfig {
	return &NeuronConfig{
		LockTTLSeconds: 60,
		DB:             DB{DSN: "postgres://localhost/neuron"},
		Kafka:          Kafka{Address: "localhost:9092", Topic: "check-runs"},
		GitHub:         GitHub{Token: "ghp_x"},
		GitStorage:     GitStorage{Mode: "s3", Path: "bucket/prefix"},
	}
}

func TestValidateCfg(t *testing.T) {
	logger, err := lumber.NewLogger(lumber.LoggingConfig{ConsoleLevel: lumber.Debug}, true, lumber.InstanceLogrusLogger)
	if err != nil {
		t.Fatalf("Could not instantiate logger %s", err.Error())
	}
	tests := []struct {
		name    string
		mutate  func(cfg *NeuronConfig)
		wantErr bool
	}{
		{"valid", func(cfg *NeuronConfig) {}, false},
		{"app credentials", func(cfg *NeuronConfig) {
			cfg.GitHub = GitHub{AppID: 1, InstallationID: 2, PrivateKey: "pem"}
		}, false},
		{"missing dsn", func(cfg *NeuronConfig) { cfg.DB.DSN = "" }, true},
		{"missing kafka", func(cfg *NeuronConfig) { cfg.Kafka.Address = "" }, true},
		{"incomplete app credentials", func(cfg *NeuronConfig) { cfg.GitHub = GitHub{AppID: 1} }, true},
		{"zero ttl", func(cfg *NeuronConfig) { cfg.LockTTLSeconds = 0 }, true},
		{"bad storage mode", func(cfg *NeuronConfig) { cfg.GitStorage.Mode = "ftp" }, true},
		{"local skips remote settings", func(cfg *NeuronConfig) {
			cfg.Local = true
			cfg.DB = DB{}
			cfg.Kafka = Kafka{}
			cfg.GitHub = GitHub{}
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := ValidateCfg(cfg, logger); (err != nil) != tt.wantErr {
				t.Errorf("ValidateCfg() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
