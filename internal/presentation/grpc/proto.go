package grpc

// proto.go defines the gRPC server interface for lendtrack.v1.LoanService.
// This file serves as a stand-in for buf-generated code. Once `buf generate`
// is run, replace this file with the generated package.

import (
	"context"

	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// LoanServiceServer is the server API for LoanService.
type LoanServiceServer interface {
	CreateLoan(context.Context, *CreateLoanRequest) (*LoanMsg, error)
	GetLoan(context.Context, *GetLoanRequest) (*LoanMsg, error)
	RecordPayment(context.Context, *RecordPaymentRequest) (*PaymentMsg, error)
	RolloverCycles(context.Context, *RolloverCyclesRequest) (*RolloverCyclesResponse, error)
	mustEmbedUnimplementedLoanServiceServer()
}

// UnimplementedLoanServiceServer provides forward-compatible default implementations.
type UnimplementedLoanServiceServer struct{}

func (UnimplementedLoanServiceServer) CreateLoan(context.Context, *CreateLoanRequest) (*LoanMsg, error) {
	return nil, status.Errorf(codes.Unimplemented, "method CreateLoan not implemented")
}
func (UnimplementedLoanServiceServer) GetLoan(context.Context, *GetLoanRequest) (*LoanMsg, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLoan not implemented")
}
func (UnimplementedLoanServiceServer) RecordPayment(context.Context, *RecordPaymentRequest) (*PaymentMsg, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RecordPayment not implemented")
}
func (UnimplementedLoanServiceServer) RolloverCycles(context.Context, *RolloverCyclesRequest) (*RolloverCyclesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method RolloverCycles not implemented")
}
func (UnimplementedLoanServiceServer) mustEmbedUnimplementedLoanServiceServer() {}

// RegisterLoanServiceServer registers the LoanServiceServer with the gRPC server.
func RegisterLoanServiceServer(s *grpclib.Server, srv LoanServiceServer) {
	s.RegisterService(&_LoanService_serviceDesc, srv)
}

var _LoanService_serviceDesc = grpclib.ServiceDesc{
	ServiceName: "lendtrack.v1.LoanService",
	HandlerType: (*LoanServiceServer)(nil),
	Methods: []grpclib.MethodDesc{
		{MethodName: "CreateLoan", Handler: _LoanService_CreateLoan_Handler},
		{MethodName: "GetLoan", Handler: _LoanService_GetLoan_Handler},
		{MethodName: "RecordPayment", Handler: _LoanService_RecordPayment_Handler},
		{MethodName: "RolloverCycles", Handler: _LoanService_RolloverCycles_Handler},
	},
	Streams: []grpclib.StreamDesc{},
}

func _LoanService_CreateLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(CreateLoanRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(LoanServiceServer).CreateLoan(ctx, req)
}

func _LoanService_GetLoan_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(GetLoanRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(LoanServiceServer).GetLoan(ctx, req)
}

func _LoanService_RecordPayment_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(RecordPaymentRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(LoanServiceServer).RecordPayment(ctx, req)
}

func _LoanService_RolloverCycles_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, _ grpclib.UnaryServerInterceptor) (interface{}, error) {
	req := new(RolloverCyclesRequest)
	if err := dec(req); err != nil {
		return nil, err
	}
	return srv.(LoanServiceServer).RolloverCycles(ctx, req)
}
