package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kathrine0/sitefeed/app/api"
	"github.com/kathrine0/sitefeed/app/cfg"
	"github.com/kathrine0/sitefeed/app/content"
	"github.com/kathrine0/sitefeed/app/database"
	"github.com/kathrine0/sitefeed/app/feed"
	"github.com/kathrine0/sitefeed/app/site"
	"github.com/kathrine0/sitefeed/app/sitemap"
	"github.com/kathrine0/sitefeed/app/tasks"
)

type app struct {
	cfg     *cfg.Cfg
	site    *site.Site
	db      *database.DB
	repo    *database.EntryRepository
	syncer  *tasks.Syncer
	builder *tasks.Builder
	feed    *feed.Assembler
}

func main() {
	appCfg, err := cfg.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if appCfg == nil {
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	a, err := newApp(appCfg)
	if err != nil {
		slog.Error("Failed to initialize", "error", err)
		os.Exit(1)
	}
	defer a.db.Close()

	switch appCfg.Command {
	case cfg.CommandBuild:
		err = a.build(context.Background())
	case cfg.CommandServe:
		err = a.serve()
	default:
		err = fmt.Errorf("unknown command %q", appCfg.Command)
	}

	if err != nil {
		slog.Error("Command failed", "command", appCfg.Command, "error", err)
		a.db.Close()
		os.Exit(1)
	}
}

func newApp(appCfg *cfg.Cfg) (*app, error) {
	slog.Debug("Starting sitefeed", "version", appCfg.Version, "command", appCfg.Command)

	s, err := site.Load(appCfg.SiteFile)
	if err != nil {
		return nil, err
	}

	db, err := database.NewConnection(appCfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open content store: %w", err)
	}

	registry := content.DefaultRegistry()
	repo := database.NewEntryRepository(db, registry)

	var renderer feed.Renderer
	if appCfg.FeedContent {
		renderer = content.NewMarkdown()
	}
	assembler := feed.NewAssembler(repo, renderer, appCfg.FeedMaxItems)

	builder := tasks.NewBuilder(
		s,
		assembler,
		feed.NewGenerator(appCfg.FeedPath, appCfg.Version),
		feed.NewValidator(),
		sitemap.NewGenerator(repo),
		tasks.BuilderOptions{
			OutDir:          appCfg.OutDir,
			FeedPath:        appCfg.FeedPath,
			FeedCollections: appCfg.FeedCollections,
			PageCollections: s.PageCollections(registry.Names()),
		},
	)

	return &app{
		cfg:     appCfg,
		site:    s,
		db:      db,
		repo:    repo,
		syncer:  tasks.NewSyncer(content.NewLoader(appCfg.ContentDir, registry), repo),
		builder: builder,
		feed:    assembler,
	}, nil
}

func (a *app) build(ctx context.Context) error {
	if _, err := a.syncer.Run(ctx); err != nil {
		return err
	}

	_, err := a.builder.Run(ctx)
	return err
}

func (a *app) serve() error {
	if err := a.build(context.Background()); err != nil {
		return err
	}

	syncTask := func() tasks.TaskInterface {
		return tasks.NewSyncContentTask(a.syncer, a.builder, false)
	}
	rebuildTask := func() tasks.TaskInterface {
		return tasks.NewSyncContentTask(a.syncer, a.builder, true)
	}

	slog.Info("Starting background scheduler", "workers", a.cfg.WorkerCount, "interval", a.cfg.SchedulerInterval)
	scheduler := tasks.NewScheduler(syncTask, time.Duration(a.cfg.SchedulerInterval)*time.Second, a.cfg.WorkerCount)
	scheduler.Start()
	defer scheduler.Stop()

	handler := api.NewHandler(a.repo, a.feed, a.site.FeedMetadata(), a.cfg.FeedCollections, scheduler, rebuildTask, a.cfg.Version)
	server := api.NewServer(handler, a.cfg.OutDir, a.cfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:         ":" + a.cfg.Port,
		Handler:      server,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Preview server listening", "url", fmt.Sprintf("http://localhost:%s/", a.cfg.Port), "feed", a.cfg.FeedPath)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var serveErr error
	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case serveErr = <-serverErrChan:
	}

	slog.Info("Shutting down preview server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	return serveErr
}
