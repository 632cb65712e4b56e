package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/readmeforge/readmeforge/internal/config"
	"github.com/readmeforge/readmeforge/internal/server"
)

func main() {
	cfg := config.Load()

	logrus.SetFormatter(&logrus.JSONFormatter{})
	if lvl, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(lvl)
	}

	srv := server.New(cfg)

	if err := srv.Start(); err != nil {
		logrus.WithError(err).Error("server failed")
		os.Exit(1)
	}
}
