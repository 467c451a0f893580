// Command reparafacil is a terminal client for ReparaFácil. The session
// (token, user and avatar references) is kept in the configured preference
// store between runs.
//
//	reparafacil login -email ana@example.com -password secret1
//	reparafacil services create -tipo Lavadora -descripcion "No centrifuga bien" -direccion "Av. 742"
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/grupo8/reparafacil/internal/pkg/config"
	"github.com/grupo8/reparafacil/pkg/logger"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  true,
		Service: "reparafacil",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	prefs, closePrefs, err := openPreferences(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Store.Backend).Msg("open session store")
	}

	a, err := newApp(ctx, cfg, prefs, os.Stdout, log)
	if err != nil {
		closePrefs()
		log.Fatal().Err(err).Msg("init client")
	}
	code := a.run(ctx, os.Args[1:])
	closePrefs()
	os.Exit(code)
}
