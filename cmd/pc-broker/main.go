package main

import (
	"fmt"
	"os"

	"github.com/lihungbin/PlanetaryComputer/util"
)

func main() {
	util.SetupLogging(os.Getenv(util.LOG_LEVEL))
	err := createCliApp().Run(os.Args)
	if err != nil {
		util.LogAlert(&(util.BasicLogContext{}), fmt.Sprintf("Error executing CLI app: %v", err))
		os.Exit(1)
	}
}
