package server

import (
	"context"
	"fmt"
	"net"

	"github.com/MKhiriev/go-recipe-keeper/internal/config"
	myGRPC "github.com/MKhiriev/go-recipe-keeper/internal/handler/grpc"
	"github.com/MKhiriev/go-recipe-keeper/internal/logger"

	"google.golang.org/grpc"
)

type grpcServer struct {
	handler *myGRPC.Handler

	address string
	server  *grpc.Server

	// watchCtx bounds the health status refresh loop of handler.
	watchCtx  context.Context
	stopWatch context.CancelFunc

	logger *logger.Logger
}

func newGRPCServer(handler *myGRPC.Handler, cfg config.Server, logger *logger.Logger) *grpcServer {
	server := grpc.NewServer()
	handler.Register(server)

	watchCtx, stopWatch := context.WithCancel(context.Background())

	return &grpcServer{
		handler:   handler,
		address:   cfg.GRPCAddress,
		server:    server,
		watchCtx:  watchCtx,
		stopWatch: stopWatch,
		logger:    logger,
	}
}

func (g *grpcServer) RunServer() error {
	lis, err := net.Listen("tcp", g.address)
	if err != nil {
		return fmt.Errorf("gRPC listen on %s: %w", g.address, err)
	}

	return g.serve(lis)
}

func (g *grpcServer) serve(lis net.Listener) error {
	go g.handler.Watch(g.watchCtx)

	g.logger.Info().Str("address", lis.Addr().String()).Msg("gRPC server listening")
	if err := g.server.Serve(lis); err != nil {
		return fmt.Errorf("gRPC server Serve: %w", err)
	}
	return nil
}

func (g *grpcServer) Shutdown() {
	g.logger.Info().Msg("gRPC server Shutdown")
	g.stopWatch()
	g.server.GracefulStop()
}
