package main

import (
	"github.com/Raimguhinov/briefing-go/internal/app"
	"github.com/Raimguhinov/briefing-go/internal/config"
)

func main() {
	cfg := config.GetConfig()

	app.Run(cfg)
}
