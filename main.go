package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gagliardetto/solana-go/rpc"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/krispycake/solmint/config"
	"github.com/krispycake/solmint/gateway"
	"github.com/krispycake/solmint/handlers"
	"github.com/krispycake/solmint/history"
	"github.com/krispycake/solmint/services"
	"github.com/krispycake/solmint/wallet"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rpcClient := rpc.New(cfg.RPCURL)
	gw := gateway.NewSolanaGateway(rpcClient, logger, cfg.PollInterval)

	provider, err := wallet.NewKeypairProvider(cfg.WalletKey, rpcClient)
	if err != nil {
		logger.Fatal("failed to initialize signing provider", zap.Error(err))
	}

	session := wallet.NewSession()
	reconciler := wallet.NewReconciler(logger, gw, session, cfg.RefreshInterval)
	go reconciler.Run(ctx)
	go wallet.WatchIdentity(ctx, logger, provider, session, reconciler)

	hist := history.NewStore()
	svc := services.NewOperationService(logger, gw, provider, session, hist, reconciler, cfg.ConfirmTimeout)

	operationHandler := handlers.NewOperationHandler(svc)
	walletHandler := handlers.NewWalletHandler(svc)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.URLFormat)

	r.Route("/wallet", func(r chi.Router) {
		r.Post("/connect", walletHandler.Connect)
		r.Post("/disconnect", walletHandler.Disconnect)
		r.Get("/", walletHandler.Get)
	})

	r.Route("/operations", func(r chi.Router) {
		r.Post("/create-asset", operationHandler.CreateAsset)
		r.Post("/mint", operationHandler.MintSupply)
		r.Post("/transfer", operationHandler.TransferHoldings)
		r.Get("/", operationHandler.History)
	})

	r.Post("/assets", operationHandler.TrackAsset)

	server := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		<-ctx.Done()
		// Let in-flight confirmation trackers settle before shutdown.
		svc.Wait()
		_ = server.Shutdown(context.Background())
	}()

	logger.Info("solmint listening", zap.String("addr", cfg.HTTPAddr), zap.String("rpc", cfg.RPCURL))
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server exited", zap.Error(err))
	}
}
