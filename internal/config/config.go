package config

import (
	"errors"
	"os"

	authservice "github.com/PeterRema/calendario-project/auth/service"

	"github.com/BurntSushi/toml"
)

// PlaceholderSecret is the signing secret shipped in the example config.
// It is only accepted when environment is "dev".
const PlaceholderSecret = "dev-secret-change-me"

var ErrPlaceholderSecret = errors.New("refusing to start outside dev with the placeholder auth secret")

type Server struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Debug       bool   `toml:"debug_mode"`
	Environment string `toml:"environment"`
	SqliteFile  string `toml:"sqlite_file"`
}

type Config struct {
	Server Server
	Auth   authservice.Config
}

func New(serverPath string, authPath string) (Config, error) {
	var serverCfg Server
	_, err := toml.DecodeFile(serverPath, &serverCfg)
	if err != nil {
		return Config{}, err
	}

	var authCfg authservice.Config
	_, err = toml.DecodeFile(authPath, &authCfg)
	if err != nil {
		return Config{}, err
	}
	if secret := os.Getenv("CALENDARIO_AUTH_SECRET"); secret != "" {
		authCfg.Token = secret
	}

	if serverCfg.Environment != "dev" && authCfg.Token == PlaceholderSecret {
		return Config{}, ErrPlaceholderSecret
	}

	return Config{
		Server: serverCfg,
		Auth:   authCfg,
	}, nil
}
