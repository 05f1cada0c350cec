package main

import (
	"log"

	"github.com/anoixa/snapi/cmd"
	"github.com/anoixa/snapi/config"
)

func main() {
	log.Printf("snapi %s (%s)", config.Version, config.CommitHash)
	cmd.Execute()
}
