//go:build mage

package main

import (
	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	jetOutput                 = "gen"
	jetBotOutput              = "bot/gen"
	sqliteRatingsFileLocation = "rating.sqlite"
	sqliteBotFileLocation     = "bot.sqlite"
	serverBin                 = "./bin/server"
	tokengenBin               = "./bin/tokengen"
)

const (
	toolsDir     = "tools/"
	toolsModfile = toolsDir + "go.mod"
	toolsBinDir  = toolsDir + "bin/"
	lintTool     = toolsBinDir + "golangci-lint"
	jetTool      = toolsBinDir + "jet"
)

func goModDownload() error {
	return sh.Run("go", "mod", "download")
}

// Build builds server and tokengen binaries
func Build() error {
	mg.Deps(goModDownload)
	if err := sh.RunWith(map[string]string{"CGO_ENABLED": "1"}, "go", "build", "-o", serverBin, "./cmd"); err != nil {
		return err
	}
	return sh.Run("go", "build", "-o", tokengenBin, "./cmd/tokengen")
}

// Run starts server, migrations are applied on startup
func Run() error {
	mg.Deps(Build)
	return sh.Run(serverBin, "-server-config", "configs/server.toml", "-bot-config", "configs/bot.toml")
}

// GenJet regenerates jet models from migrated databases, run the server once first
func GenJet() error {
	mg.Deps(buildJetTool)
	if err := sh.Run(jetTool, "-source", "sqlite", "-dsn", sqliteRatingsFileLocation, "-path", jetOutput); err != nil {
		return err
	}
	return sh.Run(jetTool, "-source", "sqlite", "-dsn", sqliteBotFileLocation, "-path", jetBotOutput)
}

func buildJetTool() error {
	return sh.RunWith(map[string]string{
		"CGO_ENABLED": "1",
	}, "go", "build", "-modfile", toolsModfile, "-o", jetTool, "github.com/go-jet/jet/v2/cmd/jet")
}

func Lint() error {
	mg.Deps(buildLintTool)
	return sh.Run(lintTool, "run", "./...")
}

func buildLintTool() error {
	return sh.Run(
		"go", "build",
		"-modfile", toolsModfile,
		"-o", lintTool,
		"github.com/golangci/golangci-lint/cmd/golangci-lint",
	)
}

// Test runs unit tests
func Test() error {
	return sh.RunWith(map[string]string{"CGO_ENABLED": "1"}, "go", "test", "-race", "./...")
}
