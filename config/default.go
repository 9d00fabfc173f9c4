package config

import (
	"github.com/spf13/viper"
)

func setNeuronDefaultConfig() {
	viper.SetDefault("LogConfig.EnableConsole", true)
	viper.SetDefault("LogConfig.ConsoleJSONFormat", false)
	viper.SetDefault("LogConfig.ConsoleLevel", "info")
	viper.SetDefault("LogConfig.EnableFile", false)
	viper.SetDefault("LogConfig.FileJSONFormat", true)
	viper.SetDefault("LogConfig.FileLevel", "debug")
	viper.SetDefault("LogConfig.FileLocation", "./neuron.log")
	viper.SetDefault("Env", "prod")
	viper.SetDefault("Port", "8080")
	viper.SetDefault("Verbose", false)
	viper.SetDefault("Local", false)
	viper.SetDefault("LockTTLSeconds", 60)
	viper.SetDefault("DB.MaxOpenConns", 20)
	viper.SetDefault("DB.MaxIdleConns", 5)
	viper.SetDefault("Kafka.Topic", "check-runs")
	viper.SetDefault("GitStorage.Mode", "local")
	viper.SetDefault("GitStorage.Path", "/var/lib/neuron/git")
}
