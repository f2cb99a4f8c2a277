package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/etnz/watchbook/cmd"
	"github.com/google/subcommands"
	"github.com/joho/godotenv"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// a .env next to the catalog is a convenient place for API keys
	godotenv.Load()

	// Shell completion: returns immediately unless invoked by the shell.
	completer := &complete.Command{
		Sub: map[string]*complete.Command{
			"daily":      {Flags: map[string]complete.Predictor{"d": predict.Nothing, "c": predict.Nothing, "class": predict.Nothing, "plain": predict.Nothing, "o": predict.Files("*")}},
			"update":     {Flags: map[string]complete.Predictor{"c": predict.Nothing, "from": predict.Nothing, "to": predict.Nothing, "quotes": predict.Files("*.yaml")}},
			"reconcile":  {Flags: map[string]complete.Predictor{"c": predict.Nothing, "f": predict.Files("*"), "url": predict.Nothing, "selector": predict.Nothing}},
			"duplicates": {},
			"annotate":   {Flags: map[string]complete.Predictor{"model": predict.Nothing}},
		},
		Flags: map[string]complete.Predictor{
			"catalog-file": predict.Files("*.json"),
			"store":        predict.Files("*.db"),
		},
	}
	completer.Complete("wb")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))

	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
