package app

import (
	"github.com/uniedit/payrecon/internal/infra/config"
)

// LoadConfig loads application configuration. An empty file searches the
// default config paths.
func LoadConfig(file string) (*config.Config, error) {
	return config.LoadFrom(file)
}
