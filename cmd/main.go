package main

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/duccv/service-kit/config"
	"github.com/duccv/service-kit/internal/greeting"
	"github.com/duccv/service-kit/internal/registry"
	"github.com/duccv/service-kit/pkg/logger"
	"github.com/duccv/service-kit/pkg/server"
	"github.com/duccv/service-kit/pkg/serviceclient"

	_ "github.com/duccv/service-kit/docs"
)

//	@title			SERVICE KIT APIs
//	@version		1.0
//	@description	Remote service invocation over HTTP.
//	@contact.name	DucCV
//	@BasePath		/api

// @securityDefinitions.apikey	BearerAuth
// @in							header
// @name						Authorization
// @description				JWT authorization header
func main() {
	env := config.GetEnv()

	zapLogger := logger.GetLogger(env.LoggerConfig)
	zap.ReplaceGlobals(zapLogger)
	defer logger.Sync()

	reg := registry.New()
	if err := greeting.Register(reg, greeting.Impl{}); err != nil {
		zap.L().Fatal("Registering greeting service failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	clients, err := server.NewClients(ctx, env, prometheus.DefaultRegisterer)
	if err != nil {
		zap.L().Fatal("Creating service clients failed", zap.Error(err))
	}
	defer clients.Close()

	go selfCheck(ctx, clients)

	if err := server.Run(ctx, env, reg); err != nil {
		zap.L().Error("Server stopped", zap.Error(err))
	}
}

// selfCheck greets this instance through the configured greeting client once
// the servers had time to start.
func selfCheck(ctx context.Context, clients *server.Clients) {
	select {
	case <-time.After(time.Second):
	case <-ctx.Done():
		return
	}

	c, err := serviceclient.Create(clients.Factory, greeting.Name, greeting.NewStub)
	if err != nil {
		zap.L().Info("Self check skipped", zap.Error(err))
		return
	}

	ctx = logger.ContextWithCorrelationID(ctx, "self-check")
	c.SetErrorHandler(func(err error) {
		logger.FromContext(ctx).Warn("Self check failed", zap.Error(err))
	})
	err = serviceclient.Call(ctx, c, c.Get().Hello("self-check"), func(msg string) {
		logger.FromContext(ctx).Info("Self check succeeded", zap.String("reply", msg))
	})
	if err != nil {
		zap.L().Error("Self check misused the client", zap.Error(err))
	}
}
