package main

import (
	"errors"
	"net/http"
	"time"

	"github.com/formbench/formbench/app"
	"github.com/formbench/formbench/client"
	"github.com/formbench/formbench/config"
	"github.com/formbench/formbench/log"
	"github.com/formbench/formbench/routes"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		log.Fatal("main.config:", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	session, err := client.LoadSession(cfg.CredentialsFile)
	if err != nil {
		log.Fatal("main.session:", err)
	}

	app := app.App{
		Client: client.New(cfg.APIBaseURL, session, cfg.RequestTimeout),
		Config: cfg,
	}

	handler := routes.Wire(app)

	err = runServer(cfg, handler)
	if !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("main.server:", err)
	}
}

func runServer(cfg config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	log.Info("Listening on " + cfg.Url())
	return srv.ListenAndServe()
}
