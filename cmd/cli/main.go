package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/ticketbox/internal/client/cli"
	"github.com/dmitrijs2005/ticketbox/internal/client/config"
)

func main() {

	global, command := cli.SplitArgs(os.Args[1:], config.GlobalFlags)

	cfg, err := config.LoadConfig(global)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := cli.NewApp(cfg, os.Stdout)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background(), command); err != nil {
		log.Fatalf("%v", err)
	}

}
