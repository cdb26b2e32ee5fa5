package main

import (
	"os"

	"fxbalance/internal/app"

	"github.com/sirupsen/logrus"
)

func main() {
	if err := app.Run(); err != nil {
		logrus.WithError(err).Error("Service exited with error")
		os.Exit(1)
	}
}
