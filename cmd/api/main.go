package main

import (
	"context"
	"net"
	"net/http"

	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/robinjoseph08/golib/signals"
	"github.com/technetbooks/technet/pkg/config"
	"github.com/technetbooks/technet/pkg/server"
	"github.com/technetbooks/technet/pkg/store"
	"github.com/technetbooks/technet/pkg/version"
)

func main() {
	ctx := context.Background()
	log := logger.New()

	log.Info("starting technet", logger.Data{"version": version.Version})

	cfg, err := config.New()
	if err != nil {
		log.Err(err).Fatal("config error")
	}

	db, err := store.New(cfg)
	if err != nil {
		log.Err(err).Fatal("store error")
	}
	log.Info("store connected", logger.Data{"database": cfg.MongoDatabase})

	srv, err := server.New(cfg, db)
	if err != nil {
		log.Err(err).Fatal("server error")
	}

	graceful := signals.Setup()

	go func() {
		lc := net.ListenConfig{}
		listener, err := lc.Listen(ctx, "tcp", srv.Addr)
		if err != nil {
			log.Err(err).Fatal("failed to bind port")
		}

		actualPort := listener.Addr().(*net.TCPAddr).Port
		log.Info("server started", logger.Data{"port": actualPort})

		err = srv.Serve(listener)
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Err(err).Fatal("server stopped")
		}
		log.Info("server stopped")
	}()

	<-graceful
	log.Info("starting graceful shutdown")

	err = srv.Shutdown(ctx)
	if err != nil {
		log.Err(err).Error("server shutdown error")
	}
	log.Info("server shutdown")

	err = db.Close(ctx)
	if err != nil {
		log.Err(err).Error("store close error")
	}
	log.Info("store closed")
}
