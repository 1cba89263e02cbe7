package main

import (
	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Sample   SampleCmd        `cmd:"" help:"Ingest one propensity vector and draw events from it"`
	Validate ValidateCmd      `cmd:"" help:"Run statistical validation ensembles from a config file"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("gillespie"),
		kong.Description("Direct-method event sampler for stochastic simulation"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
