package grpcserver

import (
	"context"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"kuralhub/internal/browse"
	"kuralhub/internal/catalog"
)

type Server struct {
	State  *browse.State
	Logger *zap.Logger
}

func NewServer(state *browse.State, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{State: state, Logger: logger}
}

// New builds a grpc.Server with request logging and the service registered.
func New(svc *Server, opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(LoggingInterceptor(svc.Logger)))
	s := grpc.NewServer(opts...)
	RegisterKuralServiceServer(s, svc)
	return s
}

func (s *Server) Filter(ctx context.Context, req *FilterRequest) (*FilterResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	snap := s.State.Snapshot()
	if err := readyErr(snap); err != nil {
		return nil, err
	}

	f := browse.FromParams(snap.Hierarchy, req.Query, req.Division, req.Section, req.Chapter)
	res, err := s.State.Apply(f)
	if err != nil {
		return nil, status.Error(codes.Unavailable, err.Error())
	}
	return &FilterResponse{
		Filter:   res.Filter,
		Kurals:   res.Kurals,
		Chapters: res.Chapters,
		Groups:   res.Groups,
		Options:  res.Options,
	}, nil
}

func (s *Server) Options(ctx context.Context, req *OptionsRequest) (*OptionsResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	snap := s.State.Snapshot()
	if err := readyErr(snap); err != nil {
		return nil, err
	}

	f := browse.FromParams(snap.Hierarchy, "", req.Division, req.Section, "")
	if req.Level == "" {
		all := snap.Hierarchy.Options(f)
		return &OptionsResponse{Options: &all}, nil
	}

	level, err := catalog.ParseLevel(req.Level)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "level must be one of: division, section, chapter")
	}
	return &OptionsResponse{
		Level:  string(level),
		Values: snap.Hierarchy.OptionsFor(level, f.Division, f.Section),
	}, nil
}

func (s *Server) Stats(ctx context.Context, _ *StatsRequest) (*StatsResponse, error) {
	snap := s.State.Snapshot()
	resp := &StatsResponse{Status: string(snap.Status), Source: snap.Source}
	if snap.Status == browse.StatusReady {
		resp.TotalKurals = snap.Stats.TotalKurals
		resp.TotalChapters = snap.Stats.TotalChapters
		resp.LoadedAt = snap.LoadedAt
	}
	return resp, nil
}

func readyErr(snap browse.Snapshot) error {
	switch snap.Status {
	case browse.StatusReady:
		return nil
	case browse.StatusFailed:
		return status.Error(codes.Unavailable, "dataset failed to load")
	default:
		return status.Error(codes.Unavailable, "dataset loading")
	}
}

// LoggingInterceptor logs every unary call with its status code and latency.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("grpc",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("latency", time.Since(start)),
		)
		return resp, err
	}
}
