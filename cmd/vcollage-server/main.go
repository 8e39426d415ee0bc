package main

import (
	"flag"

	"github.com/sirupsen/logrus"

	"github.com/menta2k/vcollage/internal/appserver"
	"github.com/menta2k/vcollage/internal/config"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "config file (default ./config/config.yaml or ~/.config/vcollage/config.yaml)")
	flag.Parse()

	logrus.SetFormatter(new(logrus.JSONFormatter))

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatalf("error loading config: %s", err.Error())
	}
	if err := cfg.Log.SetupLogger(); err != nil {
		logrus.Fatalf("error configuring logger: %s", err.Error())
	}

	if err := appserver.NewServer(cfg); err != nil {
		logrus.Fatalf("error occurred while running http server: %s", err.Error())
	}
}
