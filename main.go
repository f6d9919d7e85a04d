package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/kunnath/EDEKA-Analytics/cmd"
	"github.com/kunnath/EDEKA-Analytics/pkg/util"
)

func main() {
	logger := util.InitZapLog()
	zap.ReplaceGlobals(logger)
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)
	command := cmd.NewRootCommand()
	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
