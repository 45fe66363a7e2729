package handler

import (
	"errors"
	"log"
	"strings"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"campus-scheduler/internal/booking"
)

const errorDomain = "campus-scheduler"

var reasonCodes = map[booking.Reason]codes.Code{
	booking.MissingFields:         codes.InvalidArgument,
	booking.InvalidFormat:         codes.InvalidArgument,
	booking.PastDate:              codes.InvalidArgument,
	booking.InvalidTimeOrder:      codes.InvalidArgument,
	booking.InvalidParticipants:   codes.InvalidArgument,
	booking.ParticipantNotFound:   codes.NotFound,
	booking.NotFound:              codes.NotFound,
	booking.Forbidden:             codes.PermissionDenied,
	booking.SlotOverlap:           codes.AlreadyExists,
	booking.DuplicateSlot:         codes.AlreadyExists,
	booking.OutsideAvailability:   codes.FailedPrecondition,
	booking.InvalidTransition:     codes.FailedPrecondition,
	booking.InfrastructureFailure: codes.Unavailable,
}

// rejectionError turns a booking error into a status carrying ErrorInfo.
func rejectionError(method string, err error) error {
	var rej *booking.Rejection
	if !errors.As(err, &rej) {
		log.Printf("%s: %v", method, err)
		return status.Error(codes.Internal, "internal error")
	}
	if rej.Reason == booking.InfrastructureFailure {
		log.Printf("%s: %v", method, rej.Err)
	}

	code, ok := reasonCodes[rej.Reason]
	if !ok {
		code = codes.Internal
	}
	md := map[string]string{}
	if len(rej.Fields) > 0 {
		md["fields"] = strings.Join(rej.Fields, ",")
	}
	if rej.Party != "" {
		md["party"] = rej.Party
	}
	return withInfo(status.New(code, rej.Message), string(rej.Reason), md)
}

func withInfo(st *status.Status, reason string, md map[string]string) error {
	detailed, err := st.WithDetails(&errdetails.ErrorInfo{
		Reason:   reason,
		Domain:   errorDomain,
		Metadata: md,
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// ErrorInfo extracts the details attached by rejectionError.
func ErrorInfo(err error) *errdetails.ErrorInfo {
	st, ok := status.FromError(err)
	if !ok {
		return nil
	}
	for _, d := range st.Details() {
		if info, ok := d.(*errdetails.ErrorInfo); ok {
			return info
		}
	}
	return nil
}
