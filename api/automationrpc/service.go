package automationrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName = "automation.AutomationRPC"

	AutomationRPC_SubmitJob_FullMethodName = "/automation.AutomationRPC/SubmitJob"
	AutomationRPC_GetJob_FullMethodName    = "/automation.AutomationRPC/GetJob"
	AutomationRPC_GetRecord_FullMethodName = "/automation.AutomationRPC/GetRecord"
)

// AutomationRPCClient 工作受理服務的用戶端
type AutomationRPCClient interface {
	SubmitJob(ctx context.Context, in *SubmitJobRequest, opts ...grpc.CallOption) (*SubmitJobResponse, error)
	GetJob(ctx context.Context, in *GetJobRequest, opts ...grpc.CallOption) (*GetJobResponse, error)
	GetRecord(ctx context.Context, in *GetRecordRequest, opts ...grpc.CallOption) (*GetRecordResponse, error)
}

type automationRPCClient struct {
	cc grpc.ClientConnInterface
}

func NewAutomationRPCClient(cc grpc.ClientConnInterface) AutomationRPCClient {
	return &automationRPCClient{cc}
}

func (c *automationRPCClient) SubmitJob(ctx context.Context, in *SubmitJobRequest, opts ...grpc.CallOption) (*SubmitJobResponse, error) {
	out := new(SubmitJobResponse)
	if err := c.cc.Invoke(ctx, AutomationRPC_SubmitJob_FullMethodName, in, out, append([]grpc.CallOption{CallOption()}, opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *automationRPCClient) GetJob(ctx context.Context, in *GetJobRequest, opts ...grpc.CallOption) (*GetJobResponse, error) {
	out := new(GetJobResponse)
	if err := c.cc.Invoke(ctx, AutomationRPC_GetJob_FullMethodName, in, out, append([]grpc.CallOption{CallOption()}, opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *automationRPCClient) GetRecord(ctx context.Context, in *GetRecordRequest, opts ...grpc.CallOption) (*GetRecordResponse, error) {
	out := new(GetRecordResponse)
	if err := c.cc.Invoke(ctx, AutomationRPC_GetRecord_FullMethodName, in, out, append([]grpc.CallOption{CallOption()}, opts...)...); err != nil {
		return nil, err
	}
	return out, nil
}

// AutomationRPCServer 工作受理服務
type AutomationRPCServer interface {
	SubmitJob(context.Context, *SubmitJobRequest) (*SubmitJobResponse, error)
	GetJob(context.Context, *GetJobRequest) (*GetJobResponse, error)
	GetRecord(context.Context, *GetRecordRequest) (*GetRecordResponse, error)
}

// UnimplementedAutomationRPCServer 嵌入後未實作的方法回傳 Unimplemented
type UnimplementedAutomationRPCServer struct{}

func (UnimplementedAutomationRPCServer) SubmitJob(context.Context, *SubmitJobRequest) (*SubmitJobResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitJob not implemented")
}

func (UnimplementedAutomationRPCServer) GetJob(context.Context, *GetJobRequest) (*GetJobResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetJob not implemented")
}

func (UnimplementedAutomationRPCServer) GetRecord(context.Context, *GetRecordRequest) (*GetRecordResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetRecord not implemented")
}

func RegisterAutomationRPCServer(s grpc.ServiceRegistrar, srv AutomationRPCServer) {
	s.RegisterService(&AutomationRPC_ServiceDesc, srv)
}

func _AutomationRPC_SubmitJob_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SubmitJobRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AutomationRPCServer).SubmitJob(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AutomationRPC_SubmitJob_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AutomationRPCServer).SubmitJob(ctx, req.(*SubmitJobRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AutomationRPC_GetJob_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetJobRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AutomationRPCServer).GetJob(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AutomationRPC_GetJob_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AutomationRPCServer).GetJob(ctx, req.(*GetJobRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _AutomationRPC_GetRecord_Handler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetRecordRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(AutomationRPCServer).GetRecord(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AutomationRPC_GetRecord_FullMethodName}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(AutomationRPCServer).GetRecord(ctx, req.(*GetRecordRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// AutomationRPC_ServiceDesc 手寫的服務描述 (訊息以 JSON codec 傳輸)
var AutomationRPC_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AutomationRPCServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SubmitJob", Handler: _AutomationRPC_SubmitJob_Handler},
		{MethodName: "GetJob", Handler: _AutomationRPC_GetJob_Handler},
		{MethodName: "GetRecord", Handler: _AutomationRPC_GetRecord_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "automationrpc",
}
