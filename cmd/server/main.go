package main

import (
	"context"
	"flag"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"google.golang.org/grpc"

	pb "campus-scheduler/api/schedule/v1"
	"campus-scheduler/internal/account"
	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/config"
	"campus-scheduler/internal/gateway"
	"campus-scheduler/internal/handler"
	"campus-scheduler/internal/jobs"
	"campus-scheduler/internal/middleware"
	"campus-scheduler/internal/store"
)

func main() {
	cfgPath := flag.String("config", "config/config.yaml", "path to config file")
	flag.Parse()

	_ = godotenv.Load()
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	st, closeStore, err := store.Open(context.Background(), cfg.Database)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer closeStore()

	accounts := account.New(st, account.Options{
		Secret:     cfg.Auth.JWTSecret,
		AccessTTL:  cfg.Auth.AccessTTL,
		RefreshTTL: cfg.Auth.RefreshTTL,
	})
	bk := booking.New(st, booking.Options{
		RequireAvailability: cfg.Booking.RequireAvailability,
		Location:            cfg.Booking.Location,
		SlotCacheTTL:        cfg.CacheTTL(),
	})
	h := handler.New(accounts, bk)

	// grpc server
	rl := middleware.NewRateLimiter(cfg.Server.RateLimitPerSec, cfg.Server.RateLimitBurst)
	defer rl.Close()
	srv := grpc.NewServer(
		grpc.ForceServerCodec(pb.Codec{}),
		grpc.ChainUnaryInterceptor(
			middleware.RateLimit(rl),
			middleware.Auth(cfg.Auth.JWTSecret),
		),
	)
	pb.RegisterScheduleServiceServer(srv, h)

	lis, err := net.Listen("tcp", ":"+cfg.Server.GRPCPort)
	if err != nil {
		log.Fatalf("listen: %v", err)
	}
	go func() {
		log.Printf("grpc on :%s", cfg.Server.GRPCPort)
		if err := srv.Serve(lis); err != nil {
			log.Printf("grpc: %v", err)
		}
	}()

	// http gateway
	httpSrv := &http.Server{
		Addr: ":" + cfg.Server.WebPort,
		Handler: gateway.NewRouter(gateway.Config{
			Accounts:     accounts,
			Booking:      bk,
			Secret:       cfg.Auth.JWTSecret,
			Limiter:      rl,
			Ping:         st.Ping,
			SecureCookie: cfg.Server.SecureCookie,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("http on :%s", cfg.Server.WebPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("http: %v", err)
		}
	}()

	ctx, stop := context.WithCancel(context.Background())
	jobDone := jobs.StartCompletionJob(ctx, cfg.Jobs, bk)

	// graceful shutdown
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
	<-ch
	log.Println("shutting down")
	stop()
	<-jobDone

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http shutdown: %v", err)
	}
	srv.GracefulStop()
}
