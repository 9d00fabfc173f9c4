package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/LambdaTest/neuron/pkg/global"
	"github.com/LambdaTest/neuron/pkg/lumber"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// GlobalNeuronConfig stores the config instance for global use
var GlobalNeuronConfig *NeuronConfig

// LoadNeuronConfig loads config from command instance to predefined config variables
func LoadNeuronConfig(cmd *cobra.Command) (*NeuronConfig, error) {
	err := viper.BindPFlags(cmd.Flags())
	if err != nil {
		return nil, err
	}

	// default viper configs
	viper.SetEnvPrefix("NEURON")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	// set default configs
	setNeuronDefaultConfig()

	if configFile, _ := cmd.Flags().GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(".neuron")
		viper.AddConfigPath("./")
		viper.AddConfigPath("$HOME/.neuron")
	}

	if err := viper.ReadInConfig(); err != nil {
		fmt.Println("Warning: No configuration file found. Proceeding with defaults")
	}

	return populateNeuronConfig(new(NeuronConfig))
}

// ValidateCfg checks the validity of the config
func ValidateCfg(cfg *NeuronConfig, logger lumber.Logger) error {
	if cfg.LockTTLSeconds <= 0 {
		return errors.New("LockTTLSeconds must be positive")
	}
	if !global.GitStorageModes[cfg.GitStorage.Mode] {
		return fmt.Errorf("unsupported GitStorage Mode %q", cfg.GitStorage.Mode)
	}
	if cfg.Local {
		logger.Debugf("local mode enabled, skipping database, kafka and github validation")
		return nil
	}
	if cfg.DB.DSN == "" {
		return errors.New("error finding DB DSN in configuration")
	}
	if cfg.Kafka.Address == "" || cfg.Kafka.Topic == "" {
		return errors.New("error finding Kafka Address or Topic in configuration")
	}
	if cfg.GitHub.Token == "" && (cfg.GitHub.AppID == 0 || cfg.GitHub.InstallationID == 0 || cfg.GitHub.PrivateKey == "") {
		return errors.New("error finding GitHub Token or App credentials in configuration")
	}
	if cfg.GitHub.WebhookSecret == "" {
		logger.Warnf("no GitHub WebhookSecret configured, webhook signatures will not be verified")
	}
	return nil
}
