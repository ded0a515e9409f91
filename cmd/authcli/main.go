package main

import (
	"context"

	"github.com/tickpulse/tickpulse/internal/authcli"
)

func main() {

	ctx := context.Background()
	cfg := authcli.LoadConfig()
	app := authcli.NewApp(cfg)

	app.Run(ctx)

}
