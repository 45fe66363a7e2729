package schedulev1

import (
	"context"

	"google.golang.org/grpc"
)

type ScheduleServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewScheduleServiceClient(cc grpc.ClientConnInterface) *ScheduleServiceClient {
	return &ScheduleServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := cc.Invoke(ctx, fullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ScheduleServiceClient) Register(ctx context.Context, in *RegisterRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Register", in, opts)
}

func (c *ScheduleServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Login", in, opts)
}

func (c *ScheduleServiceClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*AuthResponse, error) {
	return invoke[AuthResponse](ctx, c.cc, "Refresh", in, opts)
}

func (c *ScheduleServiceClient) AddAvailability(ctx context.Context, in *AddAvailabilityRequest, opts ...grpc.CallOption) (*AddAvailabilityResponse, error) {
	return invoke[AddAvailabilityResponse](ctx, c.cc, "AddAvailability", in, opts)
}

func (c *ScheduleServiceClient) GetAvailability(ctx context.Context, in *GetAvailabilityRequest, opts ...grpc.CallOption) (*GetAvailabilityResponse, error) {
	return invoke[GetAvailabilityResponse](ctx, c.cc, "GetAvailability", in, opts)
}

func (c *ScheduleServiceClient) BookAppointment(ctx context.Context, in *BookAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "BookAppointment", in, opts)
}

func (c *ScheduleServiceClient) BookWardenAppointment(ctx context.Context, in *BookWardenAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "BookWardenAppointment", in, opts)
}

func (c *ScheduleServiceClient) CancelAppointment(ctx context.Context, in *CancelAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "CancelAppointment", in, opts)
}

func (c *ScheduleServiceClient) GetAppointment(ctx context.Context, in *GetAppointmentRequest, opts ...grpc.CallOption) (*AppointmentResponse, error) {
	return invoke[AppointmentResponse](ctx, c.cc, "GetAppointment", in, opts)
}

func (c *ScheduleServiceClient) ListAppointments(ctx context.Context, in *ListAppointmentsRequest, opts ...grpc.CallOption) (*ListAppointmentsResponse, error) {
	return invoke[ListAppointmentsResponse](ctx, c.cc, "ListAppointments", in, opts)
}
