package main

import (
	"condo/config"
	"condo/internal/logs"
	"condo/server"
)

func main() {
	cfg := config.MustLoad()
	app := &server.App{}
	app.Initialize(cfg)
	if err := app.Run(); err != nil {
		logs.Logger.Fatal(err)
	}
}
