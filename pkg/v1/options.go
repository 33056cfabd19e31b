package v1

import "go.uber.org/zap"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	dir        string
	configPath string
	logger     *zap.Logger
}

// WithDir sets the repository directory. Defaults to the working directory.
func WithDir(dir string) Option {
	return func(c *clientConfig) {
		c.dir = dir
	}
}

// WithConfigPath reads settings from path instead of <repo>/.relhooks.yaml.
func WithConfigPath(path string) Option {
	return func(c *clientConfig) {
		c.configPath = path
	}
}

// WithLogger routes hook output to logger. Hooks are silent by default.
func WithLogger(logger *zap.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
