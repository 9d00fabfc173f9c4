package config

import "github.com/LambdaTest/neuron/pkg/lumber"

// Model definition for configuration

// NeuronConfig is the application's configuration
type NeuronConfig struct {
	Config         string
	Port           string
	Env            string
	Verbose        bool
	Local          bool
	LogFile        string
	LogConfig      lumber.LoggingConfig
	DashboardURL   string
	LockTTLSeconds int
	DB             DB
	Kafka          Kafka
	GitHub         GitHub
	GitStorage     GitStorage
}

// DB holds the relational store settings.
type DB struct {
	DSN          string
	MaxOpenConns int
	MaxIdleConns int
}

// Kafka holds the work queue settings.
type Kafka struct {
	Address  string
	Topic    string
	Username string
	Password string
	// SkipTLS disables TLS towards the brokers, used against local brokers only.
	SkipTLS bool
}

// GitHub holds the credentials used for content fetch and commit statuses.
// Either Token or the AppID, InstallationID and PrivateKey triple is required.
type GitHub struct {
	Token          string
	AppID          int64
	InstallationID int64
	PrivateKey     string
	WebhookSecret  string
	BaseURL        string
}

// GitStorage tells workers where cloned content lives.
type GitStorage struct {
	Mode string
	Path string
}
