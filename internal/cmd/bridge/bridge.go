// Package bridge parses bridge daemon flags and composes the entrypoint.
package bridge

import (
	"context"
	"flag"
	"fmt"
	"strings"

	server "github.com/louisbranch/passkey-bridge/internal/app/server"
	entrypoint "github.com/louisbranch/passkey-bridge/internal/platform/cmd"
)

// Config holds bridge command configuration.
type Config struct {
	HTTPAddr          string `env:"PASSKEY_BRIDGE_HTTP_ADDR"          envDefault:":8090"`
	GRPCAddr          string `env:"PASSKEY_BRIDGE_GRPC_ADDR"          envDefault:":8091"`
	DBPath            string `env:"PASSKEY_BRIDGE_DB_PATH"            envDefault:"data/bridge.db"`
	APKKeyHash        string `env:"PASSKEY_BRIDGE_APK_KEY_HASH"`
	AssociatedDomains string `env:"PASSKEY_BRIDGE_ASSOCIATED_DOMAINS"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}

	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "bridge HTTP listen address")
	fs.StringVar(&cfg.GRPCAddr, "grpc-addr", cfg.GRPCAddr, "health gRPC listen address (empty disables)")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "software authenticator sqlite path (empty keeps credentials in memory)")
	fs.StringVar(&cfg.APKKeyHash, "apk-key-hash", cfg.APKKeyHash, "android signing certificate fingerprint, base64url")
	fs.StringVar(&cfg.AssociatedDomains, "associated-domains", cfg.AssociatedDomains, "comma-separated associated web-credential domains for the ios adapter")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run builds the bridge daemon and serves until the context ends.
func Run(ctx context.Context, cfg Config) error {
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceBridge, func(context.Context) error {
		if err := server.Run(ctx, server.Config{
			HTTPAddr:          cfg.HTTPAddr,
			GRPCAddr:          cfg.GRPCAddr,
			DBPath:            cfg.DBPath,
			APKKeyHash:        cfg.APKKeyHash,
			AssociatedDomains: splitDomains(cfg.AssociatedDomains),
		}); err != nil {
			return fmt.Errorf("serve bridge: %w", err)
		}
		return nil
	})
}

func splitDomains(raw string) []string {
	var domains []string
	for _, domain := range strings.Split(raw, ",") {
		if domain = strings.TrimSpace(domain); domain != "" {
			domains = append(domains, domain)
		}
	}
	return domains
}
