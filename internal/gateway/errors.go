package gateway

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-scheduler/internal/booking"
)

var reasonStatus = map[booking.Reason]int{
	booking.MissingFields:         http.StatusBadRequest,
	booking.InvalidFormat:         http.StatusBadRequest,
	booking.PastDate:              http.StatusBadRequest,
	booking.InvalidTimeOrder:      http.StatusBadRequest,
	booking.InvalidParticipants:   http.StatusBadRequest,
	booking.ParticipantNotFound:   http.StatusNotFound,
	booking.NotFound:              http.StatusNotFound,
	booking.Forbidden:             http.StatusForbidden,
	booking.SlotOverlap:           http.StatusConflict,
	booking.DuplicateSlot:         http.StatusConflict,
	booking.OutsideAvailability:   http.StatusUnprocessableEntity,
	booking.InvalidTransition:     http.StatusUnprocessableEntity,
	booking.InfrastructureFailure: http.StatusServiceUnavailable,
}

type errorBody struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Fields  []string `json:"fields,omitempty"`
	Party   string   `json:"party,omitempty"`
}

func fail(c *gin.Context, err error) {
	var rej *booking.Rejection
	if !errors.As(err, &rej) {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, errorBody{Error: "Internal", Message: "internal error"})
		return
	}
	if rej.Reason == booking.InfrastructureFailure {
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), rej.Err)
	}
	code, ok := reasonStatus[rej.Reason]
	if !ok {
		code = http.StatusInternalServerError
	}
	c.AbortWithStatusJSON(code, errorBody{
		Error:   string(rej.Reason),
		Message: rej.Message,
		Fields:  rej.Fields,
		Party:   rej.Party,
	})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorBody{Error: string(booking.InvalidFormat), Message: msg})
}
