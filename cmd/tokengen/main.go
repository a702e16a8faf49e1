package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	authservice "github.com/goserg/guildrating/internal/auth/service"
	"github.com/goserg/guildrating/internal/config"
	"github.com/goserg/guildrating/internal/normalize"
)

func main() {
	if err := run(); err != nil {
		fmt.Println(err.Error())
		os.Exit(1)
	}
}

// run prints a signed operator token for the web api.
func run() error {
	var serverConfigPath, botConfigPath, operator, roles string
	flag.StringVar(&serverConfigPath, "server-config", "configs/server.toml", "path to server configs")
	flag.StringVar(&botConfigPath, "bot-config", "configs/bot.toml", "path to bot configs")
	flag.StringVar(&operator, "operator", "", "operator id")
	flag.StringVar(&roles, "roles", "score_operator", "comma separated role list")
	flag.Parse()

	operator = strings.TrimSpace(operator)
	if operator == "" {
		return errors.New("operator is required")
	}
	roleList := normalize.Names(strings.Split(roles, ","))
	if len(roleList) == 0 {
		return errors.New("at least one role is required")
	}

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf(".env: %w", err)
	}
	cfg, err := config.Load(serverConfigPath, botConfigPath)
	if err != nil {
		return err
	}
	auth, err := authservice.New(cfg.Server.Auth)
	if err != nil {
		return err
	}
	token, expiresAt, err := auth.Issue(operator, roleList)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "token for %s %v expires at %s\n", operator, roleList, expiresAt.Format(time.RFC3339))
	fmt.Println(token)
	return nil
}
