package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lynkr/lynkr-server/cache"
	"github.com/lynkr/lynkr-server/internal/config"
	linkrepo "github.com/lynkr/lynkr-server/links/repogorm"
	"github.com/lynkr/lynkr-server/mailer"
	"github.com/lynkr/lynkr-server/server"
	userrepo "github.com/lynkr/lynkr-server/users/repogorm"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Fatal().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	// Missing .env is fine; the environment may be set by the host.
	_ = godotenv.Load()

	c := config.New()
	configureLogging(c)
	if err := config.Validate(c); err != nil {
		return fmt.Errorf("config.Validate: %w", err)
	}

	displayAppname(c.GetAppName())

	deps, err := buildDependencies(c)
	if err != nil {
		return err
	}

	srv, err := server.New(c, deps)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

func buildDependencies(c config.Config) (server.Dependencies, error) {
	db, err := gorm.Open(sqlite.Open(c.GetDatabasePath()), &gorm.Config{})
	if err != nil {
		return server.Dependencies{}, fmt.Errorf("gorm.Open: %w", err)
	}

	userRepo, err := userrepo.New(db)
	if err != nil {
		return server.Dependencies{}, fmt.Errorf("userrepo.New: %w", err)
	}
	linkRepo, err := linkrepo.New(db)
	if err != nil {
		return server.Dependencies{}, fmt.Errorf("linkrepo.New: %w", err)
	}

	return server.Dependencies{
		Users: userRepo,
		Links: linkRepo,
		Store: cache.NewInMemoryStore(),
		Mail:  buildMailer(c),
	}, nil
}

func buildMailer(c config.Config) mailer.Mailer {
	if c.GetSmtpHost() == "" {
		log.Warn().Msg("SMTP not configured, outgoing mail will be logged only")
		return mailer.LogMailer{}
	}
	smtpMailer, err := mailer.NewSMTPMailer(c)
	if err != nil {
		log.Warn().Err(err).Msg("SMTP mailer unavailable, outgoing mail will be logged only")
		return mailer.LogMailer{}
	}
	return smtpMailer
}

func configureLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) error {
	log.Info().Str("addr", server.Addr).Msg("Server listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
