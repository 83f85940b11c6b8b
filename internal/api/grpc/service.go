// Package grpc exposes the wish service as wishmachine.v1.ManifestService.
// Messages are google.protobuf.Struct values shaped like the HTTP JSON bodies.
package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"

	gogrpc "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/xtding233/wishmachine/internal/wish"
)

const (
	ServiceName            = "wishmachine.v1.ManifestService"
	SimulateFullMethodName = "/" + ServiceName + "/Simulate"
	LayoutFullMethodName   = "/" + ServiceName + "/Layout"
)

// ManifestServiceServer is the server API for ManifestService.
type ManifestServiceServer interface {
	// Simulate takes {wish?, intensity?, profile?, seed?} and returns the simulation result.
	Simulate(context.Context, *structpb.Struct) (*structpb.Struct, error)
	// Layout takes {profile?} and returns the binning contract.
	Layout(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ManifestServiceDesc describes ManifestService for grpc.Server.RegisterService.
var ManifestServiceDesc = gogrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ManifestServiceServer)(nil),
	Methods: []gogrpc.MethodDesc{
		{MethodName: "Simulate", Handler: unaryHandler(SimulateFullMethodName, ManifestServiceServer.Simulate)},
		{MethodName: "Layout", Handler: unaryHandler(LayoutFullMethodName, ManifestServiceServer.Layout)},
	},
	Streams:  []gogrpc.StreamDesc{},
	Metadata: "wishmachine/v1/manifest.proto",
}

type unaryMethod func(ManifestServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func unaryHandler(fullMethod string, call unaryMethod) gogrpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor gogrpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(ManifestServiceServer), ctx, in)
		}
		info := &gogrpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(ManifestServiceServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// RegisterManifestServiceServer registers srv on s.
func RegisterManifestServiceServer(s gogrpc.ServiceRegistrar, srv ManifestServiceServer) {
	s.RegisterService(&ManifestServiceDesc, srv)
}

// ManifestClient calls ManifestService.
type ManifestClient struct {
	cc gogrpc.ClientConnInterface
}

func NewManifestClient(cc gogrpc.ClientConnInterface) *ManifestClient {
	return &ManifestClient{cc: cc}
}

func (c *ManifestClient) Simulate(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, SimulateFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ManifestClient) Layout(ctx context.Context, in *structpb.Struct, opts ...gogrpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, LayoutFullMethodName, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// Service implements ManifestServiceServer on top of wish.Service.
type Service struct {
	svc *wish.Service
}

func NewService(svc *wish.Service) *Service {
	return &Service{svc: svc}
}

func (s *Service) Simulate(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	req, err := decodeRequest(in)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	resp, err := s.svc.Simulate(ctx, req)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct(resp)
}

func (s *Service) Layout(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	name, err := stringField(in, "profile")
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	if name == "" {
		name = s.svc.DefaultProfile()
	}
	layout, err := s.svc.Layout(name)
	if err != nil {
		return nil, toStatus(err)
	}
	geo := layout.Geometry()
	return toStruct(map[string]any{
		"profile":      name,
		"layout":       layout,
		"bucket_width": geo.BucketWidth,
		"positions":    geo.Positions,
	})
}

func stringField(in *structpb.Struct, key string) (string, error) {
	v, ok := in.GetFields()[key]
	if !ok {
		return "", nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return "", nil
	}
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	return sv.StringValue, nil
}

func decodeRequest(in *structpb.Struct) (wish.Request, error) {
	req := wish.Request{Intensity: wish.DefaultIntensity}
	var err error
	if req.Wish, err = stringField(in, "wish"); err != nil {
		return req, err
	}
	if req.Profile, err = stringField(in, "profile"); err != nil {
		return req, err
	}

	if v, ok := in.GetFields()["intensity"]; ok {
		n, isNum := v.GetKind().(*structpb.Value_NumberValue)
		if !isNum || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
			return req, errors.New("intensity must be an integer between 1 and 100")
		}
		req.Intensity = int(n.NumberValue)
	}

	// seeds travel as strings; a double cannot hold every uint64
	seed, err := stringField(in, "seed")
	if err != nil {
		return req, err
	}
	if seed != "" {
		v, err := strconv.ParseUint(seed, 10, 64)
		if err != nil {
			return req, errors.New("seed must be an unsigned 64-bit integer string")
		}
		req.Seed = &v
	}
	return req, nil
}

// toStruct converts v through its JSON form so both transports share one shape.
func toStruct(v any) (*structpb.Struct, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(b, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, wish.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, wish.ErrUnknownProfile):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "simulation timed out")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "simulation canceled")
	default:
		return status.Error(codes.Internal, "an error occurred processing your wish")
	}
}
