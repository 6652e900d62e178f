package main

import (
	"github.com/joho/godotenv"

	"github.com/briankim1512/SlideSearch/cmd"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	_ = godotenv.Load()
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
