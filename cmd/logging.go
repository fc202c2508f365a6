package cmd

import (
	"github.com/df07/bounce/pkg/log"
	"github.com/urfave/cli"
)

var logger = log.New("bounce")

// setupLogging applies -v, -vv and --log-level; an explicit level wins over the flags
func setupLogging(ctx *cli.Context) error {
	if ctx.GlobalBool("v") {
		log.SetLevel(log.Info)
	}

	if ctx.GlobalBool("vv") {
		log.SetLevel(log.Debug)
	}

	if name := ctx.GlobalString("log-level"); name != "" {
		level, err := log.ParseLevel(name)
		if err != nil {
			return err
		}
		log.SetLevel(level)
	}
	return nil
}
