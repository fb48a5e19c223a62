package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/gdg-garage/flight-booking-api/internal/auth"
	"github.com/gdg-garage/flight-booking-api/internal/booking"
	"github.com/gdg-garage/flight-booking-api/internal/models"
	"github.com/gdg-garage/flight-booking-api/internal/session"
	"github.com/gdg-garage/flight-booking-api/internal/store"
)

type BookingHandler struct {
	store    *store.Store
	manager  *booking.Manager
	sessions session.Store
	auth     *auth.AuthHandler
}

func NewBookingHandler(s *store.Store, manager *booking.Manager, sessions session.Store, authHandler *auth.AuthHandler) *BookingHandler {
	return &BookingHandler{store: s, manager: manager, sessions: sessions, auth: authHandler}
}

func (h *BookingHandler) customer(ctx context.Context) (*models.Customer, error) {
	c, err := h.auth.Customer(ctx)
	if errors.Is(err, auth.ErrNotLoggedIn) {
		return nil, huma.Error401Unauthorized("Log in or register to continue")
	}
	if err != nil {
		return nil, apiError(err, "Failed to load customer")
	}
	return c, nil
}

func (h *BookingHandler) pending(ctx context.Context) (*session.Data, error) {
	d := auth.SessionFrom(ctx)
	if d == nil || d.Pending == nil {
		return nil, huma.Error404NotFound("Booking not available")
	}
	return d, nil
}

type ConfirmOutput struct {
	Body struct {
		Customer auth.CustomerBody `json:"customer"`
		Booking  PendingView       `json:"booking"`
	}
}

// HandleReview shows the pending booking the customer is about to confirm.
func (h *BookingHandler) HandleReview(ctx context.Context, _ *struct{}) (*ConfirmOutput, error) {
	d, err := h.pending(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.customer(ctx)
	if err != nil {
		return nil, err
	}

	depart, err := h.store.FindSchedule(ctx, d.Pending.DepartFlightID)
	if err != nil {
		return nil, apiError(err, "Selected flight not found")
	}
	var ret *models.Schedule
	if d.Pending.ReturnFlightID != nil {
		if ret, err = h.store.FindSchedule(ctx, *d.Pending.ReturnFlightID); err != nil {
			return nil, apiError(err, "Selected flight not found")
		}
	}

	view, err := pendingView(d.Pending, depart, ret)
	if err != nil {
		return nil, apiError(err, "Failed to render booking")
	}
	res := &ConfirmOutput{}
	res.Body.Customer = auth.NewCustomerBody(c)
	res.Body.Booking = view
	return res, nil
}

type BookedOutput struct {
	Status   int
	Location string `header:"Location"`
	Body     struct {
		Ref string `json:"ref"`
	}
}

// HandleConfirm commits the pending booking at the quoted prices.
func (h *BookingHandler) HandleConfirm(ctx context.Context, _ *struct{}) (*BookedOutput, error) {
	d, err := h.pending(ctx)
	if err != nil {
		return nil, err
	}
	c, err := h.customer(ctx)
	if err != nil {
		return nil, err
	}

	b, err := h.manager.Commit(ctx, d.Pending, c)
	if err != nil {
		return nil, apiError(err, "Failed to book flight")
	}

	d.ClearBooking()
	d.BookedRef = b.Ref
	if err := h.sessions.Save(ctx, d); err != nil {
		return nil, apiError(err, "Failed to save session")
	}

	res := &BookedOutput{Status: http.StatusCreated, Location: "/invoice?ref=" + b.Ref}
	res.Body.Ref = b.Ref
	return res, nil
}

type BookingsOutput struct {
	Body struct {
		Customer     auth.CustomerBody `json:"customer"`
		Bookings     []BookingView     `json:"bookings"`
		BookedRef    string            `json:"booked_ref,omitempty" doc:"Set once, right after a booking is confirmed"`
		CancelledRef string            `json:"cancelled_ref,omitempty" doc:"Set once, right after a booking is cancelled"`
	}
}

func (h *BookingHandler) HandleBookings(ctx context.Context, _ *struct{}) (*BookingsOutput, error) {
	c, err := h.customer(ctx)
	if err != nil {
		return nil, err
	}

	list, err := h.store.CustomerBookings(ctx, c.ID)
	if err != nil {
		return nil, apiError(err, "Failed to list bookings")
	}

	res := &BookingsOutput{}
	res.Body.Customer = auth.NewCustomerBody(c)
	res.Body.Bookings = make([]BookingView, 0, len(list))
	for i := range list {
		v, err := bookingView(&list[i])
		if err != nil {
			return nil, apiError(err, "Failed to render booking")
		}
		res.Body.Bookings = append(res.Body.Bookings, v)
	}

	if d := auth.SessionFrom(ctx); d != nil && (d.BookedRef != "" || d.CancelledRef != "") {
		res.Body.BookedRef, res.Body.CancelledRef = d.BookedRef, d.CancelledRef
		d.BookedRef, d.CancelledRef = "", ""
		if err := h.sessions.Save(ctx, d); err != nil {
			return nil, apiError(err, "Failed to save session")
		}
	}
	return res, nil
}

type CancelInput struct {
	Body struct {
		Ref string `json:"ref" minLength:"6" maxLength:"6"`
	}
}

// ownBooking loads ref and hides bookings of other customers behind the
// same not found answer.
func (h *BookingHandler) ownBooking(ctx context.Context, ref string, c *models.Customer, msg string) (*models.Booking, error) {
	b, err := h.store.FindBooking(ctx, ref)
	if err != nil {
		return nil, apiError(err, msg)
	}
	if b.CustomerID != c.ID {
		return nil, huma.Error404NotFound(msg)
	}
	return b, nil
}

func (h *BookingHandler) HandleCancel(ctx context.Context, input *CancelInput) (*MessageOutput, error) {
	c, err := h.customer(ctx)
	if err != nil {
		return nil, err
	}
	b, err := h.ownBooking(ctx, input.Body.Ref, c, "Error in trying to cancel booking.")
	if err != nil {
		return nil, err
	}

	if err := h.manager.Cancel(ctx, b); err != nil {
		return nil, apiError(err, "Error in trying to cancel booking.")
	}

	if d := auth.SessionFrom(ctx); d != nil {
		d.CancelledRef = b.Ref
		if err := h.sessions.Save(ctx, d); err != nil {
			return nil, apiError(err, "Failed to save session")
		}
	}

	res := &MessageOutput{}
	res.Body.Message = "Booking " + b.Ref + " cancelled"
	return res, nil
}

type InvoiceInput struct {
	Ref string `query:"ref"`
}

type InvoiceOutput struct {
	Body struct {
		Customer auth.CustomerBody `json:"customer"`
		Booking  BookingView       `json:"booking"`
	}
}

func (h *BookingHandler) HandleInvoice(ctx context.Context, input *InvoiceInput) (*InvoiceOutput, error) {
	c, err := h.customer(ctx)
	if err != nil {
		return nil, err
	}
	if input.Ref == "" {
		return nil, huma.Error400BadRequest("Missing `ref` query parameter.")
	}
	b, err := h.ownBooking(ctx, input.Ref, c, "Invalid booking reference.")
	if err != nil {
		return nil, err
	}

	v, err := bookingView(b)
	if err != nil {
		return nil, apiError(err, "Failed to render booking")
	}
	res := &InvoiceOutput{}
	res.Body.Customer = auth.NewCustomerBody(c)
	res.Body.Booking = v
	return res, nil
}

type MessageOutput = auth.MessageOutput
