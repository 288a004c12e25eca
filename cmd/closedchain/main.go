// Package main is the closedchain command itself.
package main

import (
	"log"
	"os"

	"go.viam.com/dualarm/cli"
)

func main() {
	if err := cli.NewApp(os.Stdout, os.Stderr).Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
