package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/nuudash/internal/buildinfo"
	"github.com/dmitrijs2005/nuudash/internal/server"
	"github.com/dmitrijs2005/nuudash/internal/server/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(ctx); err != nil {
		os.Exit(1)
	}

}
