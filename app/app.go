package app

import (
	"github.com/formbench/formbench/client"
	"github.com/formbench/formbench/config"
)

type App struct {
	*client.Client
	config.Config
}
