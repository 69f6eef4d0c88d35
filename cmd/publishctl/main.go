// Package main provides the publishctl command line tool.
package main

import (
	"os"

	"github.com/festy23/trip_publisher/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
