package main

import (
	"context"
	"fmt"
	"os"

	"github.com/openloot/packtrace/internal/handlers/cli"
	"github.com/openloot/packtrace/internal/infra/blockchain/ethereum"
	"github.com/openloot/packtrace/internal/infra/catalog/rest"
	redisstorage "github.com/openloot/packtrace/internal/infra/storage/redis"
	"github.com/openloot/packtrace/internal/mintresolve"
	"github.com/openloot/packtrace/internal/pkg/logger"
	"github.com/openloot/packtrace/internal/pkg/telemetry"
	transporthttp "github.com/openloot/packtrace/internal/pkg/transport/http"
	"github.com/openloot/packtrace/internal/pkg/transport/jsonrpc"
	"github.com/openloot/packtrace/internal/pkg/validator"
	"github.com/openloot/packtrace/internal/purchase"

	"github.com/kelseyhightower/envconfig"
)

// config is the process configuration, loaded from the environment.
type config struct {
	ServiceName      string `envconfig:"SERVICE_NAME" default:"packtrace"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info"`
	TelemetryEnabled bool   `envconfig:"TELEMETRY_ENABLED" default:"false"`

	RPCEndpoint   string `envconfig:"ETH_RPC_ENDPOINT" required:"true" validate:"required,url"`
	WalletAddress string `envconfig:"WALLET_ADDRESS" required:"true" validate:"required"`
	PackContract  string `envconfig:"PACK_CONTRACT_ADDRESS" required:"true" validate:"required"`

	CatalogBaseURL string `envconfig:"CATALOG_BASE_URL" required:"true" validate:"required,url"`

	RedisAddr     string `envconfig:"REDIS_ADDR"`
	RedisUsername string `envconfig:"REDIS_USERNAME"`
	RedisPassword string `envconfig:"REDIS_PASSWORD"`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	PackItemCount int `envconfig:"PACK_ITEM_COUNT" default:"5" validate:"gt=0"`
}

func run(ctx context.Context) error {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		return err
	}
	if err := validator.Validate(cfg); err != nil {
		return err
	}

	if cfg.TelemetryEnabled {
		shutdown, err := telemetry.Init(ctx, cfg.ServiceName)
		if err != nil {
			return err
		}
		defer shutdown(ctx)
	}

	if err := logger.Init(logger.WithLevel(cfg.LogLevel)); err != nil {
		return err
	}
	defer logger.Sync()

	rpcConn := jsonrpc.NewClient(transporthttp.NewClient().StandardClient(), cfg.RPCEndpoint)
	chainClient := ethereum.NewClient(rpcConn, cfg.WalletAddress, cfg.PackContract)

	var catalog mintresolve.Catalog = rest.NewClient(transporthttp.NewClient(), cfg.CatalogBaseURL)

	opts := []purchase.Option{
		purchase.WithExpectedItemCount(cfg.PackItemCount),
	}

	if cfg.RedisAddr != "" {
		redisClient, err := redisstorage.NewClient(ctx, cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return err
		}
		defer redisClient.Close()

		catalog = redisstorage.NewCatalogCache(redisClient, catalog)
		opts = append(opts, purchase.WithJournal(redisClient))
	}

	resolver := mintresolve.New(catalog)
	svc := purchase.New(chainClient, resolver, cfg.WalletAddress, opts...)

	return cli.Run(ctx, svc)
}

func main() {
	if err := run(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "packtrace:", err)
		os.Exit(1)
	}
}
