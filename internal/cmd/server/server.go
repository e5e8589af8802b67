// Package server parses bridge server flags and starts the serve loop.
package server

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/csdms/bmi-bridge/internal/bridge"
	"github.com/csdms/bmi-bridge/internal/model/heat"
	entrypoint "github.com/csdms/bmi-bridge/internal/platform/cmd"
)

// Config holds bridge server command configuration.
type Config struct {
	Port int    `env:"BMI_BRIDGE_PORT" envDefault:"55555"`
	Addr string `env:"BMI_BRIDGE_ADDR"`

	// ModelConfig, when set, initializes the model at startup so clients
	// can skip the Initialize call.
	ModelConfig string `env:"BMI_BRIDGE_MODEL_CONFIG"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.IntVar(&cfg.Port, "port", cfg.Port, "The bridge server port")
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "The bridge server listen address (overrides -port)")
	fs.StringVar(&cfg.ModelConfig, "model-config", cfg.ModelConfig, "Model configuration file to initialize with at startup")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the bridge server hosting the heat model.
func Run(ctx context.Context, cfg Config) error {
	model := heat.New()
	log.Printf("%s", model.ComponentName())

	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceServer, func(context.Context) error {
		addr := cfg.Addr
		if addr == "" {
			addr = fmt.Sprintf(":%d", cfg.Port)
		}
		server, err := bridge.NewWithAddr(addr, model)
		if err != nil {
			return err
		}
		if cfg.ModelConfig != "" {
			if err := server.Dispatcher().Initialize(ctx, cfg.ModelConfig); err != nil {
				return fmt.Errorf("initialize model from %s: %w", cfg.ModelConfig, err)
			}
		}
		return server.Serve(ctx)
	})
}
