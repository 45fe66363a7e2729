package handler

import (
	"context"

	"google.golang.org/protobuf/types/known/timestamppb"

	pb "campus-scheduler/api/schedule/v1"
	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/model"
)

func (h *Handler) AddAvailability(ctx context.Context, req *pb.AddAvailabilityRequest) (*pb.AddAvailabilityResponse, error) {
	who, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	slot, err := h.booking.AddAvailability(ctx, who, booking.SlotRequest{
		ProfessorID: req.ProfessorId,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Day:         req.Day,
	})
	if err != nil {
		return nil, rejectionError("add availability", err)
	}
	return &pb.AddAvailabilityResponse{Slot: slotToProto(slot)}, nil
}

func (h *Handler) GetAvailability(ctx context.Context, req *pb.GetAvailabilityRequest) (*pb.GetAvailabilityResponse, error) {
	slots, err := h.booking.ViewAvailability(ctx, req.ProfessorId)
	if err != nil {
		return nil, rejectionError("get availability", err)
	}
	out := make([]*pb.AvailabilitySlot, len(slots))
	for i := range slots {
		out[i] = slotToProto(&slots[i])
	}
	return &pb.GetAvailabilityResponse{Slots: out}, nil
}

func (h *Handler) BookAppointment(ctx context.Context, req *pb.BookAppointmentRequest) (*pb.AppointmentResponse, error) {
	who, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	apt, err := h.booking.Book(ctx, who, booking.Request{
		StudentID:   req.StudentId,
		ProfessorID: req.ProfessorId,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Day:         req.Day,
	})
	if err != nil {
		return nil, rejectionError("book appointment", err)
	}
	return &pb.AppointmentResponse{Appointment: toProto(apt)}, nil
}

func (h *Handler) BookWardenAppointment(ctx context.Context, req *pb.BookWardenAppointmentRequest) (*pb.AppointmentResponse, error) {
	who, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	apt, err := h.booking.BookWarden(ctx, who, booking.WardenRequest{
		Participants: req.Participants,
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Day:          req.Day,
	})
	if err != nil {
		return nil, rejectionError("book warden appointment", err)
	}
	return &pb.AppointmentResponse{Appointment: toProto(apt)}, nil
}

func (h *Handler) CancelAppointment(ctx context.Context, req *pb.CancelAppointmentRequest) (*pb.AppointmentResponse, error) {
	who, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	apt, err := h.booking.Cancel(ctx, who, req.Id)
	if err != nil {
		return nil, rejectionError("cancel appointment", err)
	}
	return &pb.AppointmentResponse{Appointment: toProto(apt)}, nil
}

// GetAppointment answers NotFound to callers who are not participants.
func (h *Handler) GetAppointment(ctx context.Context, req *pb.GetAppointmentRequest) (*pb.AppointmentResponse, error) {
	who, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	apt, err := h.booking.GetAppointment(ctx, who, req.Id)
	if err != nil {
		return nil, rejectionError("get appointment", err)
	}
	return &pb.AppointmentResponse{Appointment: toProto(apt)}, nil
}

func (h *Handler) ListAppointments(ctx context.Context, req *pb.ListAppointmentsRequest) (*pb.ListAppointmentsResponse, error) {
	who, err := actor(ctx)
	if err != nil {
		return nil, err
	}
	apts, err := h.booking.ListAppointments(ctx, who, model.Status(req.Status))
	if err != nil {
		return nil, rejectionError("list appointments", err)
	}
	out := make([]*pb.Appointment, len(apts))
	for i := range apts {
		out[i] = toProto(&apts[i])
	}
	return &pb.ListAppointmentsResponse{Appointments: out}, nil
}

func toProto(a *model.Appointment) *pb.Appointment {
	p := &pb.Appointment{
		Id:           a.ID,
		Kind:         string(a.Kind),
		ProfessorId:  a.ProfessorID,
		StudentId:    a.StudentID,
		Participants: a.Participants,
		InitiatorId:  a.InitiatorID,
		Date:         a.Date,
		StartTime:    a.Start.String(),
		EndTime:      a.End.String(),
		Day:          a.Day,
		Status:       string(a.Status),
	}
	if !a.CreatedAt.IsZero() {
		p.CreatedAt = timestamppb.New(a.CreatedAt)
	}
	if !a.UpdatedAt.IsZero() {
		p.UpdatedAt = timestamppb.New(a.UpdatedAt)
	}
	return p
}

func slotToProto(s *model.AvailabilitySlot) *pb.AvailabilitySlot {
	p := &pb.AvailabilitySlot{
		Id:          s.ID,
		ProfessorId: s.ProfessorID,
		Date:        s.Date,
		StartTime:   s.Start.String(),
		EndTime:     s.End.String(),
		Day:         s.Day,
	}
	if !s.CreatedAt.IsZero() {
		p.CreatedAt = timestamppb.New(s.CreatedAt)
	}
	return p
}
