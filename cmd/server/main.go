package main

import (
	"github.com/stylemetry/engine/internal/server"
	"github.com/stylemetry/engine/internal/util"
	"github.com/stylemetry/engine/pkg/logger"
)

func main() {
	util.LoadEnv()

	debug := util.GetEnvBool("DEBUG", false)
	logger.Init(logger.Options{Debug: debug})

	server.Init()
}
