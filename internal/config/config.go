package config

import (
	"github.com/spf13/viper"
)

// Config holds all runtime configuration for the API server and the
// clustering engine.
type Config struct {
	ServerAddress      string  `mapstructure:"SERVER_ADDRESS"`
	DBSource           string  `mapstructure:"DB_SOURCE"`
	ClusterRadius      float64 `mapstructure:"CLUSTER_RADIUS"`
	MinClusterSize     int     `mapstructure:"MIN_CLUSTER_SIZE"`
	MaxClusteringDelta float64 `mapstructure:"MAX_CLUSTERING_DELTA"`
}

// LoadConfig reads configuration from app.env in the given directory.
// Environment variables take precedence over the file, which is allowed
// to be missing entirely (useful in CI and containers).
func LoadConfig(path string) (Config, error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("app")
	viper.SetConfigType("env")

	viper.SetDefault("SERVER_ADDRESS", ":8080")
	viper.SetDefault("CLUSTER_RADIUS", 60.0)
	viper.SetDefault("MIN_CLUSTER_SIZE", 2)
	viper.SetDefault("MAX_CLUSTERING_DELTA", 0.01)

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return Config{}, err
		}
	}

	var c Config
	err := viper.Unmarshal(&c)
	return c, err
}
