package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	authservice "github.com/PeterRema/calendario-project/auth/service"
	authstorage "github.com/PeterRema/calendario-project/auth/storage"
	authpostgres "github.com/PeterRema/calendario-project/auth/storage/postgres"
	authsqlite "github.com/PeterRema/calendario-project/auth/storage/sqlite"
	"github.com/PeterRema/calendario-project/internal/config"
	"github.com/PeterRema/calendario-project/internal/logger"
	"github.com/PeterRema/calendario-project/internal/service"
	"github.com/PeterRema/calendario-project/internal/storage/sqlite"
	"github.com/PeterRema/calendario-project/internal/web"

	_ "github.com/mattn/go-sqlite3"
)

func main() {
	serverConfigPath := flag.String("server-config", "configs/server.toml", "path to the server config")
	authConfigPath := flag.String("auth-config", "configs/auth.toml", "path to the auth config")
	flag.Parse()
	if err := run(*serverConfigPath, *authConfigPath); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

func run(serverConfigPath string, authConfigPath string) error {
	cfg, err := config.New(serverConfigPath, authConfigPath)
	if err != nil {
		return err
	}
	log := logger.New(cfg.Server.Debug)
	ctx := context.Background()

	var users authstorage.AuthStorage
	switch cfg.Auth.StorageType {
	case "postgres":
		users, err = authpostgres.New(ctx, cfg.Auth)
	default:
		users, err = authsqlite.New(log, cfg.Auth)
	}
	if err != nil {
		return err
	}

	auth, err := authservice.New(ctx, cfg.Auth, users, log)
	if err != nil {
		return err
	}

	activityStorage, err := sqlite.New(cfg.Server.SqliteFile)
	if err != nil {
		return err
	}
	activities := service.New(activityStorage, auth)

	server, err := web.New(cfg.Server, auth, activities, log)
	if err != nil {
		return err
	}
	return server.Serve()
}
