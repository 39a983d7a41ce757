// cmd/server/main.go
package main

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"

	"github.com/pascal-fortunati/uno-server/internal/config"
	"github.com/pascal-fortunati/uno-server/internal/handlers"
	"github.com/pascal-fortunati/uno-server/internal/middleware"
	"github.com/pascal-fortunati/uno-server/internal/room"
)

func main() {
	cfg := config.FromEnv()

	logger := logrus.New()
	logger.SetLevel(cfg.LogLevel)

	r := room.New(logger, cfg.BotDelay)

	mux := http.NewServeMux()
	mux.HandleFunc("/", handlers.PingHandler)
	mux.Handle("/ws", middleware.LogMiddleware(logger)(http.HandlerFunc(
		handlers.RoomWSHandler(logger, r),
	)))

	server := &http.Server{Handler: mux}

	l, err := net.Listen("tcp", fmt.Sprintf(":%s", cfg.Port))
	if err != nil {
		logger.Fatalf("failed to listen: %v", err)
	}
	logger.Infof("UNO server listening on %s", l.Addr())

	errc := make(chan error, 1)
	go func() {
		errc <- server.Serve(l)
	}()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	select {
	case err := <-errc:
		logger.Errorf("failed to serve: %v", err)
	case sig := <-sigs:
		logger.Infof("terminating: %v", sig)
	}
}
