package grpcserver

import (
	"context"

	"google.golang.org/grpc"
)

const (
	ServiceName = "kuralhub.KuralService"

	filterMethod  = "/" + ServiceName + "/Filter"
	optionsMethod = "/" + ServiceName + "/Options"
	statsMethod   = "/" + ServiceName + "/Stats"
)

// KuralServiceServer is implemented by Server.
type KuralServiceServer interface {
	Filter(context.Context, *FilterRequest) (*FilterResponse, error)
	Options(context.Context, *OptionsRequest) (*OptionsResponse, error)
	Stats(context.Context, *StatsRequest) (*StatsResponse, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*KuralServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Filter", Handler: filterHandler},
		{MethodName: "Options", Handler: optionsHandler},
		{MethodName: "Stats", Handler: statsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "kuralhub/kural_service",
}

func RegisterKuralServiceServer(s grpc.ServiceRegistrar, srv KuralServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func filterHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(FilterRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KuralServiceServer).Filter(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: filterMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(KuralServiceServer).Filter(ctx, req.(*FilterRequest))
	})
}

func optionsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(OptionsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KuralServiceServer).Options(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: optionsMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(KuralServiceServer).Options(ctx, req.(*OptionsRequest))
	})
}

func statsHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(StatsRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(KuralServiceServer).Stats(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: statsMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(KuralServiceServer).Stats(ctx, req.(*StatsRequest))
	})
}
