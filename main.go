package main

import (
	"context"
	"embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/typoteka/internal/config"
	"github.com/debemdeboas/typoteka/internal/db"
	"github.com/debemdeboas/typoteka/internal/logger"
	"github.com/debemdeboas/typoteka/internal/metrics"
	"github.com/debemdeboas/typoteka/internal/render"
	"github.com/debemdeboas/typoteka/internal/repository"
	"github.com/debemdeboas/typoteka/internal/server"
	"github.com/debemdeboas/typoteka/internal/submission"
	"github.com/debemdeboas/typoteka/internal/theme"
	"github.com/debemdeboas/typoteka/internal/upload"
)

//go:embed static/* templates/*
var content embed.FS

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	flags := flag.NewFlagSet("typoteka", flag.ContinueOnError)
	configPath := flags.String("config", "config.yaml", "path to the YAML config file")
	port := flags.String("server", "", "port to listen on, overrides the config")
	version := flags.Bool("version", false, "print the version and exit")
	if err := flags.Parse(args); err != nil {
		return err
	}

	if *version {
		fmt.Fprintln(stdout, logger.Version())
		return nil
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("error loading .env file: %w", err)
	}

	if err := config.LoadConfig(*configPath); err != nil {
		return err
	}
	cfg := config.AppConfig
	if *port != "" {
		cfg.Server.Port = *port
	}

	l := logger.New(cfg.Logging.Level)
	setLoggers(l)

	gateway, closeGateway, err := newGateway(cfg.Storage)
	if err != nil {
		return err
	}
	defer closeGateway()

	validator, err := upload.NewValidator(cfg.Upload.Dir, cfg.Upload.AllowedTypes)
	if err != nil {
		return fmt.Errorf("upload directory: %w", err)
	}
	store, pictureDir, err := newPictureStore(ctx, cfg.Images, validator.Dir())
	if err != nil {
		return err
	}

	metrics.Init()
	ingestor := submission.NewIngestor(validator, store, gateway, cfg.Upload.MaxBytes)
	ingestor.OnPicture = metrics.ObserveUpload

	srv, err := server.NewServer(server.Options{
		Gateway:    gateway,
		Ingestor:   ingestor,
		Content:    content,
		PictureDir: pictureDir,
		Logger:     l,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errCh := make(chan error, 1)
	go func() {
		l.Info().Str("addr", httpServer.Addr).Str("storage", cfg.Storage.Backend).Str("images", cfg.Images.Backend).Msg("Listening")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	l.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

func setLoggers(l zerolog.Logger) {
	config.SetLogger(l.With().Str("component", "config").Logger())
	db.SetLogger(l.With().Str("component", "db").Logger())
	repository.SetLogger(l.With().Str("component", "repository").Logger())
	upload.SetLogger(l.With().Str("component", "upload").Logger())
	render.SetLogger(l.With().Str("component", "render").Logger())
	theme.SetLogger(l.With().Str("component", "theme").Logger())
}

// newGateway opens the configured article store. The returned func releases it.
func newGateway(cfg config.StorageConfig) (repository.Gateway, func(), error) {
	switch strings.ToLower(cfg.Backend) {
	case "mock":
		return repository.NewMockArticleRepository(cfg.MocksFile), func() {}, nil
	case "sqlite", "":
		sqlite := db.NewSQLite(cfg.DatabasePath)
		if err := sqlite.InitDb(); err != nil {
			return nil, nil, fmt.Errorf(config.ErrInitializeDatabaseFmt, err)
		}
		return repository.NewDBArticleRepository(sqlite), func() { _ = sqlite.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// newPictureStore returns the store for accepted pictures and, for local storage,
// the directory the site serves them from.
func newPictureStore(ctx context.Context, cfg config.ImagesConfig, dir string) (upload.Store, string, error) {
	switch strings.ToLower(cfg.Backend) {
	case "s3":
		if cfg.Bucket == "" {
			return nil, "", errors.New("images.bucket is required for the s3 backend")
		}
		client, err := upload.NewS3Client(ctx,
			os.Getenv("S3_ACCESS_KEY_ID"),
			os.Getenv("S3_SECRET_ACCESS_KEY"),
			cfg.Region,
			cfg.Endpoint,
		)
		if err != nil {
			return nil, "", err
		}
		return upload.NewS3Store(client, cfg.Bucket), "", nil
	case "fs", "":
		store, err := upload.NewFSStore(dir)
		if err != nil {
			return nil, "", err
		}
		return store, dir, nil
	default:
		return nil, "", fmt.Errorf("unknown images backend %q", cfg.Backend)
	}
}
