package main

import (
	"os"

	"ymcacal/internal/cli"
	appLog "ymcacal/internal/log"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		appLog.Error("run failed", err)
		os.Exit(1)
	}
}
