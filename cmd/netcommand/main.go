package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"netcommand/internal/command"
	"netcommand/internal/driver"
	_ "netcommand/internal/driver/all"
	"netcommand/internal/handler"
	"netcommand/internal/hub"
	"netcommand/internal/repository/sqlite"
	"netcommand/internal/service"
	"netcommand/internal/session"
	"netcommand/internal/watcher"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, errUsage) {
			return
		}
		log.Fatalf("%v", err)
	}

	if opts.listDrivers {
		fmt.Println(strings.Join(driver.Supported(), "\n"))
		return
	}

	if err := run(opts); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(opts *options) error {
	cfg, path, err := opts.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Finalize(func(name string) error {
		_, err := driver.Lookup(name)
		return err
	}); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	if opts.saveConfig != "" {
		if err := cfg.Save(opts.saveConfig); err != nil {
			return fmt.Errorf("save config: %w", err)
		}
		log.Printf("Config written to %s", opts.saveConfig)
		return nil
	}

	log.Println("Starting netcommand...")
	if path != "" {
		log.Printf("Config loaded: %s", path)
	}
	for _, line := range strings.Split(cfg.Summary(), "\n") {
		log.Println(line)
	}

	// Device session and command table
	factory, err := driver.Lookup(cfg.Device.Driver)
	if err != nil {
		return err
	}
	mgr := session.NewManager(cfg.DriverConfig(), factory)
	facade, err := command.NewFacade(mgr, command.DefaultOperations())
	if err != nil {
		return err
	}

	// Request history
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer repo.Close()
	log.Printf("Database opened: %s", cfg.Database.Path)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect event bus to SSE hub
	eventBus := service.NewEventBus()
	sseHub := hub.New()
	go sseHub.Run(ctx)

	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	defer eventBus.Unsubscribe(eventChan)
	go func() {
		for {
			select {
			case event := <-eventChan:
				sseHub.Broadcast(string(event.Type), event.Payload)
			case <-ctx.Done():
				return
			}
		}
	}()

	systemSvc := service.NewSystemService(service.SystemInfo{
		Name:        cfg.Plugin.Name,
		Version:     cfg.Plugin.Version,
		Description: cfg.Plugin.Description,
		Driver:      cfg.Device.Driver,
		Device:      cfg.Device.Hostname,
	}, facade)
	requestSvc := service.NewRequestService(repo, facade, eventBus)

	if _, err := requestSvc.Prune(ctx, cfg.History.Retention.Duration()); err != nil {
		log.Printf("Failed to prune request history: %v", err)
	}

	mux := handler.NewRouter(
		handler.NewCommandHandler(systemSvc, requestSvc),
		handler.NewRequestHandler(requestSvc),
		sseHub,
	)
	server := &http.Server{
		Addr: cfg.Plugin.Addr(),
		Handler: handler.Chain(mux,
			handler.Recover,
			handler.CORS,
			handler.Logger,
		),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	if cfg.Plugin.SSL {
		tlsConfig, err := serverTLSConfig(cfg.Plugin)
		if err != nil {
			return err
		}
		certs, err := newCertReloader(cfg.Plugin.CertFile, cfg.Plugin.KeyFile)
		if err != nil {
			return err
		}
		tlsConfig.GetCertificate = certs.GetCertificate
		server.TLSConfig = tlsConfig

		certWatcher := watcher.New([]string{cfg.Plugin.CertFile, cfg.Plugin.KeyFile}, certs.onChange)
		go func() {
			if err := certWatcher.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("Certificate watcher stopped: %v", err)
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("%s listening on %s (%d commands)", cfg.Plugin.Name, cfg.Plugin.Addr(), len(facade.Operations()))
		var err error
		if cfg.Plugin.SSL {
			err = server.ListenAndServeTLS("", "")
		} else {
			err = server.ListenAndServe()
		}
		if !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
	}

	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	// Best effort: a session left open by a requester is torn down here
	if err := mgr.Close(); err != nil {
		log.Printf("Session close error: %v", err)
	}

	log.Println("Server stopped")
	return serveErr
}
