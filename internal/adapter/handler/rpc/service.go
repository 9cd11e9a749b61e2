package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "vending.v1.VendingMachine"

	InstantiateFullMethod = "/" + ServiceName + "/Instantiate"
	GetItemFullMethod     = "/" + ServiceName + "/GetItem"
	RefillFullMethod      = "/" + ServiceName + "/Refill"
	ItemsCountFullMethod  = "/" + ServiceName + "/ItemsCount"

	// SenderMetadataKey carries the caller identity of a request.
	SenderMetadataKey = "x-sender"
)

type VendingMachineServer interface {
	Instantiate(context.Context, *InstantiateRequest) (*ExecuteResponse, error)
	GetItem(context.Context, *GetItemRequest) (*ExecuteResponse, error)
	Refill(context.Context, *RefillRequest) (*ExecuteResponse, error)
	ItemsCount(context.Context, *ItemsCountRequest) (*ItemsCountResponse, error)
}

// UnimplementedVendingMachineServer can be embedded to keep servers
// compiling when methods are added.
type UnimplementedVendingMachineServer struct{}

func (UnimplementedVendingMachineServer) Instantiate(context.Context, *InstantiateRequest) (*ExecuteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Instantiate not implemented")
}

func (UnimplementedVendingMachineServer) GetItem(context.Context, *GetItemRequest) (*ExecuteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetItem not implemented")
}

func (UnimplementedVendingMachineServer) Refill(context.Context, *RefillRequest) (*ExecuteResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refill not implemented")
}

func (UnimplementedVendingMachineServer) ItemsCount(context.Context, *ItemsCountRequest) (*ItemsCountResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ItemsCount not implemented")
}

func RegisterVendingMachineServer(s grpc.ServiceRegistrar, srv VendingMachineServer) {
	s.RegisterService(&serviceDesc, srv)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VendingMachineServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Instantiate", Handler: instantiateHandler},
		{MethodName: "GetItem", Handler: getItemHandler},
		{MethodName: "Refill", Handler: refillHandler},
		{MethodName: "ItemsCount", Handler: itemsCountHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "vending/v1/vending.json",
}

func instantiateHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InstantiateRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VendingMachineServer).Instantiate(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: InstantiateFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(VendingMachineServer).Instantiate(ctx, req.(*InstantiateRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func getItemHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetItemRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VendingMachineServer).GetItem(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetItemFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(VendingMachineServer).GetItem(ctx, req.(*GetItemRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func refillHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(RefillRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VendingMachineServer).Refill(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: RefillFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(VendingMachineServer).Refill(ctx, req.(*RefillRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func itemsCountHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(ItemsCountRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(VendingMachineServer).ItemsCount(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ItemsCountFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(VendingMachineServer).ItemsCount(ctx, req.(*ItemsCountRequest))
	}
	return interceptor(ctx, in, info, handler)
}

type VendingMachineClient interface {
	Instantiate(ctx context.Context, in *InstantiateRequest, opts ...grpc.CallOption) (*ExecuteResponse, error)
	GetItem(ctx context.Context, in *GetItemRequest, opts ...grpc.CallOption) (*ExecuteResponse, error)
	Refill(ctx context.Context, in *RefillRequest, opts ...grpc.CallOption) (*ExecuteResponse, error)
	ItemsCount(ctx context.Context, in *ItemsCountRequest, opts ...grpc.CallOption) (*ItemsCountResponse, error)
}

type vendingMachineClient struct {
	cc grpc.ClientConnInterface
}

func NewVendingMachineClient(cc grpc.ClientConnInterface) VendingMachineClient {
	return &vendingMachineClient{cc: cc}
}

func (c *vendingMachineClient) Instantiate(ctx context.Context, in *InstantiateRequest, opts ...grpc.CallOption) (*ExecuteResponse, error) {
	out := new(ExecuteResponse)
	if err := c.cc.Invoke(ctx, InstantiateFullMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *vendingMachineClient) GetItem(ctx context.Context, in *GetItemRequest, opts ...grpc.CallOption) (*ExecuteResponse, error) {
	out := new(ExecuteResponse)
	if err := c.cc.Invoke(ctx, GetItemFullMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *vendingMachineClient) Refill(ctx context.Context, in *RefillRequest, opts ...grpc.CallOption) (*ExecuteResponse, error) {
	out := new(ExecuteResponse)
	if err := c.cc.Invoke(ctx, RefillFullMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *vendingMachineClient) ItemsCount(ctx context.Context, in *ItemsCountRequest, opts ...grpc.CallOption) (*ItemsCountResponse, error) {
	out := new(ItemsCountResponse)
	if err := c.cc.Invoke(ctx, ItemsCountFullMethod, in, out, withCodec(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func withCodec(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}

// WithSender attaches the caller identity to an outgoing request.
func WithSender(ctx context.Context, sender string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, SenderMetadataKey, sender)
}

// SenderFromContext returns the caller identity of an incoming request.
func SenderFromContext(ctx context.Context) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	values := md.Get(SenderMetadataKey)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
