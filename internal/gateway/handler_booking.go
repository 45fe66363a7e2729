package gateway

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-scheduler/internal/booking"
	"campus-scheduler/internal/model"
)

type slotBody struct {
	ProfessorID string `json:"professorId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Day         string `json:"day"`
}

type bookBody struct {
	StudentID   string `json:"studentId"`
	ProfessorID string `json:"professorId"`
	Date        string `json:"date"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
	Day         string `json:"day"`
}

type wardenBody struct {
	Participants []string `json:"participants"`
	Date         string   `json:"date"`
	StartTime    string   `json:"startTime"`
	EndTime      string   `json:"endTime"`
	Day          string   `json:"day"`
}

type slotResponse struct {
	ID          string    `json:"id"`
	ProfessorID string    `json:"professorId"`
	Date        string    `json:"date"`
	StartTime   string    `json:"startTime"`
	EndTime     string    `json:"endTime"`
	Day         string    `json:"day"`
	CreatedAt   time.Time `json:"createdAt"`
}

type appointmentResponse struct {
	ID           string    `json:"id"`
	Kind         string    `json:"kind"`
	ProfessorID  string    `json:"professorId,omitempty"`
	StudentID    string    `json:"studentId,omitempty"`
	Participants []string  `json:"participants"`
	InitiatorID  string    `json:"initiatorId"`
	Date         string    `json:"date"`
	StartTime    string    `json:"startTime"`
	EndTime      string    `json:"endTime"`
	Day          string    `json:"day"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func toSlot(s model.AvailabilitySlot) slotResponse {
	return slotResponse{
		ID:          s.ID,
		ProfessorID: s.ProfessorID,
		Date:        s.Date,
		StartTime:   s.Start.String(),
		EndTime:     s.End.String(),
		Day:         s.Day,
		CreatedAt:   s.CreatedAt,
	}
}

func toSlots(in []model.AvailabilitySlot) []slotResponse {
	out := make([]slotResponse, 0, len(in))
	for _, s := range in {
		out = append(out, toSlot(s))
	}
	return out
}

func toAppointment(a *model.Appointment) appointmentResponse {
	return appointmentResponse{
		ID:           a.ID,
		Kind:         string(a.Kind),
		ProfessorID:  a.ProfessorID,
		StudentID:    a.StudentID,
		Participants: a.Participants,
		InitiatorID:  a.InitiatorID,
		Date:         a.Date,
		StartTime:    a.Start.String(),
		EndTime:      a.End.String(),
		Day:          a.Day,
		Status:       string(a.Status),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// POST /api/professor/availability
func (h *Handler) AddAvailability(c *gin.Context) {
	var body slotBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request")
		return
	}
	slot, err := h.booking.AddAvailability(c.Request.Context(), actor(c), booking.SlotRequest(body))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Availability added successfully.", "availability": toSlot(*slot)})
}

// GET /api/professor/availability/:professorId
func (h *Handler) GetAvailability(c *gin.Context) {
	slots, err := h.booking.GetAvailability(c.Request.Context(), c.Param("professorId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toSlots(slots))
}

// GET /api/student/availability?professorId=
func (h *Handler) ViewAvailability(c *gin.Context) {
	slots, err := h.booking.ViewAvailability(c.Request.Context(), c.Query("professorId"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toSlots(slots))
}

// POST /api/student/book
func (h *Handler) BookAppointment(c *gin.Context) {
	var body bookBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request")
		return
	}
	apt, err := h.booking.Book(c.Request.Context(), actor(c), booking.Request(body))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment booked successfully.", "appointment": toAppointment(apt)})
}

// POST /api/warden/book
func (h *Handler) BookWardenAppointment(c *gin.Context) {
	var body wardenBody
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, "invalid request")
		return
	}
	apt, err := h.booking.BookWarden(c.Request.Context(), actor(c), booking.WardenRequest(body))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Appointment booked successfully.", "appointment": toAppointment(apt)})
}

// PUT /api/professor/cancel-appointment/:appointmentId and
// PUT /api/appointments/:id/cancel
func (h *Handler) CancelAppointment(c *gin.Context) {
	id := c.Param("appointmentId")
	if id == "" {
		id = c.Param("id")
	}
	apt, err := h.booking.Cancel(c.Request.Context(), actor(c), id)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Appointment canceled successfully.", "appointment": toAppointment(apt)})
}

func (h *Handler) GetAppointment(c *gin.Context) {
	apt, err := h.booking.GetAppointment(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toAppointment(apt))
}

// GET /api/student/appointments and GET /api/appointments, optional ?status=
func (h *Handler) ListAppointments(c *gin.Context) {
	apts, err := h.booking.ListAppointments(c.Request.Context(), actor(c), model.Status(c.Query("status")))
	if err != nil {
		fail(c, err)
		return
	}
	out := make([]appointmentResponse, 0, len(apts))
	for i := range apts {
		out = append(out, toAppointment(&apts[i]))
	}
	c.JSON(http.StatusOK, out)
}
