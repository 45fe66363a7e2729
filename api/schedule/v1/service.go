// Package schedulev1 is the appointment.v1.ScheduleService gRPC contract:
// messages, service descriptor and client.
package schedulev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "appointment.v1.ScheduleService"

type ScheduleServiceServer interface {
	Register(context.Context, *RegisterRequest) (*AuthResponse, error)
	Login(context.Context, *LoginRequest) (*AuthResponse, error)
	Refresh(context.Context, *RefreshRequest) (*AuthResponse, error)
	AddAvailability(context.Context, *AddAvailabilityRequest) (*AddAvailabilityResponse, error)
	GetAvailability(context.Context, *GetAvailabilityRequest) (*GetAvailabilityResponse, error)
	BookAppointment(context.Context, *BookAppointmentRequest) (*AppointmentResponse, error)
	BookWardenAppointment(context.Context, *BookWardenAppointmentRequest) (*AppointmentResponse, error)
	CancelAppointment(context.Context, *CancelAppointmentRequest) (*AppointmentResponse, error)
	GetAppointment(context.Context, *GetAppointmentRequest) (*AppointmentResponse, error)
	ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error)
}

// UnimplementedScheduleServiceServer answers Unimplemented for every method.
type UnimplementedScheduleServiceServer struct{}

func (UnimplementedScheduleServiceServer) Register(context.Context, *RegisterRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Register not implemented")
}
func (UnimplementedScheduleServiceServer) Login(context.Context, *LoginRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedScheduleServiceServer) Refresh(context.Context, *RefreshRequest) (*AuthResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Refresh not implemented")
}
func (UnimplementedScheduleServiceServer) AddAvailability(context.Context, *AddAvailabilityRequest) (*AddAvailabilityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method AddAvailability not implemented")
}
func (UnimplementedScheduleServiceServer) GetAvailability(context.Context, *GetAvailabilityRequest) (*GetAvailabilityResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAvailability not implemented")
}
func (UnimplementedScheduleServiceServer) BookAppointment(context.Context, *BookAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method BookAppointment not implemented")
}
func (UnimplementedScheduleServiceServer) BookWardenAppointment(context.Context, *BookWardenAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method BookWardenAppointment not implemented")
}
func (UnimplementedScheduleServiceServer) CancelAppointment(context.Context, *CancelAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CancelAppointment not implemented")
}
func (UnimplementedScheduleServiceServer) GetAppointment(context.Context, *GetAppointmentRequest) (*AppointmentResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAppointment not implemented")
}
func (UnimplementedScheduleServiceServer) ListAppointments(context.Context, *ListAppointmentsRequest) (*ListAppointmentsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListAppointments not implemented")
}

func RegisterScheduleServiceServer(s grpc.ServiceRegistrar, srv ScheduleServiceServer) {
	s.RegisterService(&ScheduleService_ServiceDesc, srv)
}

func fullMethod(name string) string {
	return "/" + ServiceName + "/" + name
}

func unary[Req, Resp any](name string, call func(ScheduleServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(ScheduleServiceServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

var ScheduleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ScheduleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Register", ScheduleServiceServer.Register),
		unary("Login", ScheduleServiceServer.Login),
		unary("Refresh", ScheduleServiceServer.Refresh),
		unary("AddAvailability", ScheduleServiceServer.AddAvailability),
		unary("GetAvailability", ScheduleServiceServer.GetAvailability),
		unary("BookAppointment", ScheduleServiceServer.BookAppointment),
		unary("BookWardenAppointment", ScheduleServiceServer.BookWardenAppointment),
		unary("CancelAppointment", ScheduleServiceServer.CancelAppointment),
		unary("GetAppointment", ScheduleServiceServer.GetAppointment),
		unary("ListAppointments", ScheduleServiceServer.ListAppointments),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "appointment/v1/schedule.proto",
}
