package config

import (
	"fmt"
	"time"
)

// ServerConfig represents the configuration for the user-facing frontend
type ServerConfig struct {
	Frontend      string
	ListenAddress string
	ReadTimeout   time.Duration
	WriteTimeout  time.Duration
	MaxInputSize  int64
}

// PostfixConfig represents the configuration for the Postfix content filter
type PostfixConfig struct {
	ListenAddress    string
	Address          string
	Port             int
	Enabled          bool
	BlockPhishing    bool
	ModifySubject    bool
	SubjectPrefix    string
	StatusHeader     string
	ConfidenceHeader string
	ReasonHeader     string
}

// ModelConfig represents the configuration for the trained classifier
type ModelConfig struct {
	Path string
}

// DatasetConfig represents the configuration for the training data store
type DatasetConfig struct {
	Type        string
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
}

// TrainingConfig represents the configuration for model fitting
type TrainingConfig struct {
	NumTrees     int
	MaxDepth     int
	TestFraction float64
	Seed         int64
}

// GetServer returns the frontend configuration
func (c *Config) GetServer() (ServerConfig, error) {
	readTimeout, err := c.GetDuration("server.read_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server read timeout: %w", err)
	}
	writeTimeout, err := c.GetDuration("server.write_timeout")
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid server write timeout: %w", err)
	}

	return ServerConfig{
		Frontend:      c.GetString("server.frontend"),
		ListenAddress: c.GetString("server.listen_address"),
		ReadTimeout:   readTimeout,
		WriteTimeout:  writeTimeout,
		MaxInputSize:  c.GetInt64("server.max_input_size"),
	}, nil
}

// GetPostfix returns the Postfix content filter configuration
func (c *Config) GetPostfix() PostfixConfig {
	return PostfixConfig{
		ListenAddress:    c.GetString("postfix.listen_address"),
		Address:          c.GetString("postfix.address"),
		Port:             c.GetInt("postfix.port"),
		Enabled:          c.GetBool("postfix.enabled"),
		BlockPhishing:    c.GetBool("postfix.block_phishing"),
		ModifySubject:    c.GetBool("postfix.modify_subject"),
		SubjectPrefix:    c.GetString("postfix.subject_prefix"),
		StatusHeader:     c.GetString("postfix.headers.status"),
		ConfidenceHeader: c.GetString("postfix.headers.confidence"),
		ReasonHeader:     c.GetString("postfix.headers.reason"),
	}
}

// GetModel returns the classifier configuration
func (c *Config) GetModel() ModelConfig {
	return ModelConfig{
		Path: c.GetString("model.path"),
	}
}

// GetDataset returns the training data store configuration
func (c *Config) GetDataset() DatasetConfig {
	return DatasetConfig{
		Type:        c.GetString("dataset.type"),
		SQLitePath:  c.GetString("dataset.sqlite_path"),
		MySQLDSN:    c.GetString("dataset.mysql_dsn"),
		PostgresDSN: c.GetString("dataset.postgres_dsn"),
	}
}

// GetTraining returns the model fitting configuration
func (c *Config) GetTraining() TrainingConfig {
	return TrainingConfig{
		NumTrees:     c.GetInt("training.num_trees"),
		MaxDepth:     c.GetInt("training.max_depth"),
		TestFraction: c.GetFloat64("training.test_fraction"),
		Seed:         c.GetInt64("training.seed"),
	}
}
