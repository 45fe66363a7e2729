package handler_test

import (
	"context"
	"fmt"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"gorm.io/gorm/logger"

	pb "campus-scheduler/api/schedule/v1"
	"campus-scheduler/internal/account"
	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/handler"
	"campus-scheduler/internal/middleware"
	"campus-scheduler/internal/model"
	"campus-scheduler/internal/store/gormstore"
)

const secret = "handler-test-secret"

var fixedNow = time.Date(2025, 12, 1, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) *handler.Handler {
	t.Helper()
	st, err := gormstore.Open(gormstore.Config{
		Driver:   gormstore.DriverSQLite,
		DSN:      gormstore.MemoryDSN(),
		LogLevel: logger.Silent,
	})
	if err != nil {
		t.Fatalf("db: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	accounts := account.New(st, account.Options{Secret: secret})
	bk := booking.New(st, booking.Options{
		RequireAvailability: true,
		Now:                 func() time.Time { return fixedNow },
	})
	return handler.New(accounts, bk)
}

func authedCtx(uid string, role model.Role) context.Context {
	return middleware.WithIdentity(context.Background(), uid, role)
}

func registerUser(t *testing.T, h *handler.Handler, role model.Role) *pb.AuthResponse {
	t.Helper()
	email := fmt.Sprintf("test-%s@college.edu", uuid.New().String()[:8])
	resp, err := h.Register(context.Background(), &pb.RegisterRequest{
		Name:     "Test " + string(role),
		Email:    email,
		Password: "password123",
		Role:     string(role),
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return resp
}

func addSlot(t *testing.T, h *handler.Handler, prof *pb.AuthResponse) {
	t.Helper()
	_, err := h.AddAvailability(authedCtx(prof.UserId, model.RoleProfessor), &pb.AddAvailabilityRequest{
		Date:      "2025-12-20",
		StartTime: "10:00 AM",
		EndTime:   "12:00 PM",
	})
	if err != nil {
		t.Fatalf("add availability: %v", err)
	}
}

func TestRegisterAndLogin(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	resp, err := h.Register(ctx, &pb.RegisterRequest{
		Name: "Jane Smith", Email: "Jane@College.edu", Password: "password123", Role: "student",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if resp.Token == "" || resp.RefreshToken == "" {
		t.Fatal("expected token pair")
	}
	if resp.Email != "jane@college.edu" || resp.Role != "student" {
		t.Errorf("got %s/%s", resp.Email, resp.Role)
	}

	_, err = h.Register(ctx, &pb.RegisterRequest{
		Name: "Jane Again", Email: "jane@college.edu", Password: "password123", Role: "student",
	})
	if status.Code(err) != codes.AlreadyExists {
		t.Errorf("duplicate email: got %v", status.Code(err))
	}

	_, err = h.Register(ctx, &pb.RegisterRequest{Name: "x", Email: "nope", Password: "short", Role: "dean"})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("bad input: got %v", status.Code(err))
	}
	if info := handler.ErrorInfo(err); info == nil || info.Metadata["fields"] != "email,password,role" {
		t.Errorf("error info: %+v", info)
	}

	if _, err := h.Login(ctx, &pb.LoginRequest{Email: "jane@college.edu", Password: "password123"}); err != nil {
		t.Errorf("login: %v", err)
	}
	_, err = h.Login(ctx, &pb.LoginRequest{Email: "jane@college.edu", Password: "wrong-password"})
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("wrong password: got %v", status.Code(err))
	}
	_, err = h.Login(ctx, &pb.LoginRequest{Email: "jane@college.edu"})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("missing password: got %v", status.Code(err))
	}
}

func TestRefreshRotation(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	first := registerUser(t, h, model.RoleStudent)

	second, err := h.Refresh(ctx, &pb.RefreshRequest{RefreshToken: first.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if second.RefreshToken == first.RefreshToken {
		t.Error("refresh token was not rotated")
	}

	// replaying the old token revokes the family
	_, err = h.Refresh(ctx, &pb.RefreshRequest{RefreshToken: first.RefreshToken})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("replay: got %v", status.Code(err))
	}
	_, err = h.Refresh(ctx, &pb.RefreshRequest{RefreshToken: second.RefreshToken})
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("after revoke: got %v", status.Code(err))
	}
}

func TestBookingFlow(t *testing.T) {
	h := setup(t)
	prof := registerUser(t, h, model.RoleProfessor)
	stu := registerUser(t, h, model.RoleStudent)
	addSlot(t, h, prof)
	sctx := authedCtx(stu.UserId, model.RoleStudent)

	av, err := h.GetAvailability(sctx, &pb.GetAvailabilityRequest{ProfessorId: prof.UserId})
	if err != nil {
		t.Fatalf("get availability: %v", err)
	}
	if len(av.Slots) != 1 || av.Slots[0].StartTime != "10:00 AM" || av.Slots[0].Day != "Saturday" {
		t.Fatalf("slots: %+v", av.Slots)
	}

	booked, err := h.BookAppointment(sctx, &pb.BookAppointmentRequest{
		StudentId:   stu.UserId,
		ProfessorId: prof.UserId,
		Date:        "2025-12-20",
		StartTime:   "10:00 AM",
		EndTime:     "10:30 AM",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	apt := booked.Appointment
	if apt.Status != "booked" || apt.Kind != "professor-student" || apt.InitiatorId != stu.UserId {
		t.Errorf("appointment: %+v", apt)
	}
	if len(apt.Participants) != 2 || apt.CreatedAt == nil {
		t.Errorf("appointment: %+v", apt)
	}

	got, err := h.GetAppointment(authedCtx(prof.UserId, model.RoleProfessor), &pb.GetAppointmentRequest{Id: apt.Id})
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Appointment.Id != apt.Id {
		t.Errorf("got %s, want %s", got.Appointment.Id, apt.Id)
	}

	outsider := registerUser(t, h, model.RoleStudent)
	_, err = h.GetAppointment(authedCtx(outsider.UserId, model.RoleStudent), &pb.GetAppointmentRequest{Id: apt.Id})
	if status.Code(err) != codes.NotFound {
		t.Errorf("outsider get: got %v", status.Code(err))
	}
	_, err = h.CancelAppointment(authedCtx(outsider.UserId, model.RoleStudent), &pb.CancelAppointmentRequest{Id: apt.Id})
	if status.Code(err) != codes.PermissionDenied {
		t.Errorf("outsider cancel: got %v", status.Code(err))
	}

	list, err := h.ListAppointments(sctx, &pb.ListAppointmentsRequest{Status: "booked"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Appointments) != 1 {
		t.Fatalf("listed %d appointments", len(list.Appointments))
	}

	canceled, err := h.CancelAppointment(sctx, &pb.CancelAppointmentRequest{Id: apt.Id})
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if canceled.Appointment.Status != "canceled" {
		t.Errorf("status = %s", canceled.Appointment.Status)
	}

	list, err = h.ListAppointments(sctx, &pb.ListAppointmentsRequest{Status: "booked"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Appointments) != 0 {
		t.Errorf("booked after cancel: %d", len(list.Appointments))
	}
}

func TestBookingErrors(t *testing.T) {
	h := setup(t)
	prof := registerUser(t, h, model.RoleProfessor)
	stu := registerUser(t, h, model.RoleStudent)
	other := registerUser(t, h, model.RoleStudent)
	addSlot(t, h, prof)
	sctx := authedCtx(stu.UserId, model.RoleStudent)

	if _, err := h.BookAppointment(sctx, &pb.BookAppointmentRequest{
		StudentId: stu.UserId, ProfessorId: prof.UserId, Date: "2025-12-20", StartTime: "10:00 AM", EndTime: "11:00 AM",
	}); err != nil {
		t.Fatalf("seed booking: %v", err)
	}

	tests := []struct {
		name   string
		ctx    context.Context
		req    *pb.BookAppointmentRequest
		code   codes.Code
		reason string
	}{
		{"missing fields", sctx, &pb.BookAppointmentRequest{StudentId: stu.UserId}, codes.InvalidArgument, "MissingFields"},
		{"bad time", sctx, &pb.BookAppointmentRequest{StudentId: stu.UserId, ProfessorId: prof.UserId, Date: "2025-12-20", StartTime: "25:00", EndTime: "11:00 AM"}, codes.InvalidArgument, "InvalidFormat"},
		{"past date", sctx, &pb.BookAppointmentRequest{StudentId: stu.UserId, ProfessorId: prof.UserId, Date: "2025-11-20", StartTime: "10:00 AM", EndTime: "11:00 AM"}, codes.InvalidArgument, "PastDate"},
		{"end before start", sctx, &pb.BookAppointmentRequest{StudentId: stu.UserId, ProfessorId: prof.UserId, Date: "2025-12-20", StartTime: "11:00 AM", EndTime: "10:00 AM"}, codes.InvalidArgument, "InvalidTimeOrder"},
		{"unknown professor", sctx, &pb.BookAppointmentRequest{StudentId: stu.UserId, ProfessorId: uuid.NewString(), Date: "2025-12-20", StartTime: "10:00 AM", EndTime: "11:00 AM"}, codes.NotFound, "ParticipantNotFound"},
		{"booking for someone else", authedCtx(other.UserId, model.RoleStudent), &pb.BookAppointmentRequest{StudentId: stu.UserId, ProfessorId: prof.UserId, Date: "2025-12-20", StartTime: "11:00 AM", EndTime: "11:30 AM"}, codes.PermissionDenied, "Forbidden"},
		{"outside availability", sctx, &pb.BookAppointmentRequest{StudentId: stu.UserId, ProfessorId: prof.UserId, Date: "2025-12-20", StartTime: "1:00 PM", EndTime: "2:00 PM"}, codes.FailedPrecondition, "OutsideAvailability"},
		{"overlap", authedCtx(other.UserId, model.RoleStudent), &pb.BookAppointmentRequest{StudentId: other.UserId, ProfessorId: prof.UserId, Date: "2025-12-20", StartTime: "10:30 AM", EndTime: "11:30 AM"}, codes.AlreadyExists, "SlotOverlap"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.BookAppointment(tt.ctx, tt.req)
			if status.Code(err) != tt.code {
				t.Fatalf("got %v, want %v (%v)", status.Code(err), tt.code, err)
			}
			info := handler.ErrorInfo(err)
			if info == nil || info.Reason != tt.reason {
				t.Errorf("error info: %+v, want reason %s", info, tt.reason)
			}
		})
	}

	_, err := h.BookAppointment(context.Background(), &pb.BookAppointmentRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Errorf("no identity: got %v", status.Code(err))
	}
}

func TestAvailabilityErrors(t *testing.T) {
	h := setup(t)
	prof := registerUser(t, h, model.RoleProfessor)
	stu := registerUser(t, h, model.RoleStudent)
	addSlot(t, h, prof)
	pctx := authedCtx(prof.UserId, model.RoleProfessor)

	_, err := h.AddAvailability(pctx, &pb.AddAvailabilityRequest{Date: "2025-12-20", StartTime: "10:00 AM", EndTime: "12:00 PM"})
	if status.Code(err) != codes.AlreadyExists {
		t.Errorf("duplicate slot: got %v", status.Code(err))
	}
	_, err = h.AddAvailability(authedCtx(stu.UserId, model.RoleStudent), &pb.AddAvailabilityRequest{
		ProfessorId: prof.UserId, Date: "2025-12-21", StartTime: "10:00 AM", EndTime: "12:00 PM",
	})
	if status.Code(err) != codes.PermissionDenied {
		t.Errorf("student adding slot: got %v", status.Code(err))
	}
	_, err = h.GetAvailability(pctx, &pb.GetAvailabilityRequest{ProfessorId: stu.UserId})
	if status.Code(err) != codes.NotFound {
		t.Errorf("availability of a student: got %v", status.Code(err))
	}
}

func TestWardenBooking(t *testing.T) {
	h := setup(t)
	w1 := registerUser(t, h, model.RoleWarden)
	w2 := registerUser(t, h, model.RoleWarden)
	stu := registerUser(t, h, model.RoleStudent)
	wctx := authedCtx(w1.UserId, model.RoleWarden)

	resp, err := h.BookWardenAppointment(wctx, &pb.BookWardenAppointmentRequest{
		Participants: []string{w1.UserId, w2.UserId},
		Date:         "2025-12-22",
		StartTime:    "2:00 PM",
		EndTime:      "3:00 PM",
	})
	if err != nil {
		t.Fatalf("warden booking: %v", err)
	}
	if resp.Appointment.Kind != "warden-warden" || resp.Appointment.ProfessorId != "" {
		t.Errorf("appointment: %+v", resp.Appointment)
	}

	_, err = h.BookWardenAppointment(wctx, &pb.BookWardenAppointmentRequest{
		Participants: []string{w1.UserId, stu.UserId},
		Date:         "2025-12-23",
		StartTime:    "2:00 PM",
		EndTime:      "3:00 PM",
	})
	if status.Code(err) != codes.InvalidArgument {
		t.Errorf("student participant: got %v", status.Code(err))
	}
}

func TestConcurrentBooking(t *testing.T) {
	h := setup(t)
	prof := registerUser(t, h, model.RoleProfessor)
	addSlot(t, h, prof)

	const n = 10
	students := make([]*pb.AuthResponse, n)
	for i := range students {
		students[i] = registerUser(t, h, model.RoleStudent)
	}

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for _, s := range students {
		wg.Add(1)
		go func(s *pb.AuthResponse) {
			defer wg.Done()
			_, err := h.BookAppointment(authedCtx(s.UserId, model.RoleStudent), &pb.BookAppointmentRequest{
				StudentId:   s.UserId,
				ProfessorId: prof.UserId,
				Date:        "2025-12-20",
				StartTime:   "11:00 AM",
				EndTime:     "11:30 AM",
			})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case status.Code(err) == codes.AlreadyExists:
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(s)
	}
	wg.Wait()

	t.Logf("successes=%d conflicts=%d", successes, conflicts)
	if successes != 1 {
		t.Errorf("expected exactly 1 booking, got %d", successes)
	}
	if conflicts != n-1 {
		t.Errorf("expected %d conflicts, got %d", n-1, conflicts)
	}
}

// TestOverWire drives the full server stack: JSON codec, interceptors and
// status details.
func TestOverWire(t *testing.T) {
	h := setup(t)

	lis := bufconn.Listen(1 << 20)
	rl := middleware.NewRateLimiter(1000, 1000)
	t.Cleanup(rl.Close)
	srv := grpc.NewServer(
		grpc.ForceServerCodec(pb.Codec{}),
		grpc.ChainUnaryInterceptor(middleware.RateLimit(rl), middleware.Auth(secret)),
	)
	pb.RegisterScheduleServiceServer(srv, h)
	go srv.Serve(lis)
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	client := pb.NewScheduleServiceClient(conn)
	ctx := context.Background()

	_, err = client.ListAppointments(ctx, &pb.ListAppointmentsRequest{})
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("no token: got %v", status.Code(err))
	}

	prof, err := client.Register(ctx, &pb.RegisterRequest{Name: "John Doe", Email: "doe@college.edu", Password: "password123", Role: "professor"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	stu, err := client.Register(ctx, &pb.RegisterRequest{Name: "Jane Smith", Email: "smith@college.edu", Password: "password123", Role: "student"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if prof.ExpiresAt == nil || !prof.ExpiresAt.AsTime().After(time.Now()) {
		t.Errorf("expires_at: %v", prof.ExpiresAt)
	}

	pctx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+prof.Token)
	sctx := metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+stu.Token)

	if _, err := client.AddAvailability(pctx, &pb.AddAvailabilityRequest{Date: "2025-12-20", StartTime: "10:00 AM", EndTime: "12:00 PM"}); err != nil {
		t.Fatalf("add availability: %v", err)
	}
	booked, err := client.BookAppointment(sctx, &pb.BookAppointmentRequest{
		StudentId: stu.UserId, ProfessorId: prof.UserId, Date: "2025-12-20", StartTime: "10:00 AM", EndTime: "10:30 AM",
	})
	if err != nil {
		t.Fatalf("book: %v", err)
	}
	if booked.Appointment.StartTime != "10:00 AM" || booked.Appointment.Day != "Saturday" {
		t.Errorf("appointment: %+v", booked.Appointment)
	}

	_, err = client.BookAppointment(sctx, &pb.BookAppointmentRequest{StudentId: stu.UserId})
	if status.Code(err) != codes.InvalidArgument {
		t.Fatalf("missing fields: got %v", status.Code(err))
	}
	info := handler.ErrorInfo(err)
	if info == nil || info.Reason != "MissingFields" || info.Metadata["fields"] != "professorId,startTime,endTime,date" {
		t.Errorf("error info over the wire: %+v", info)
	}

	list, err := client.ListAppointments(pctx, &pb.ListAppointmentsRequest{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list.Appointments) != 1 {
		t.Errorf("professor sees %d appointments", len(list.Appointments))
	}
}
