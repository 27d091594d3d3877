package grpc

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"salonbook/backend/internal/auth"
	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/service/bookings"
)

type BookingsServer struct {
	svc bookingsService
	log *zap.Logger
}

type bookingsService interface {
	CreateBooking(ctx context.Context, in bookings.CreateInput) (domain.Booking, error)
	UpdateStatus(ctx context.Context, actor auth.Actor, bookingID uuid.UUID, status string) (domain.Booking, error)
	ListSalonBookings(ctx context.Context, actor auth.Actor, salonID uuid.UUID) ([]bookings.BookingDetails, error)
	ListBookingsByDay(ctx context.Context, actor auth.Actor, salonID uuid.UUID, day string) ([]bookings.BookingDetails, error)
}

var _ BookingsServiceServer = (*BookingsServer)(nil)

func NewBookingsServer(svc bookingsService, log *zap.Logger) *BookingsServer {
	if log == nil {
		log = zap.NewNop()
	}
	return &BookingsServer{
		svc: svc,
		log: log.With(zap.String("component", "grpc.bookings")),
	}
}

func (s *BookingsServer) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*CreateBookingResponse, error) {
	log := s.log.With(zap.String("rpc", "CreateBooking"))

	if req == nil {
		log.Warn("invalid request", zap.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	actor := actorFrom(ctx)

	salonID, err := parseID("salon_id", req.SalonID)
	if err != nil {
		return nil, s.statusError(log, err)
	}
	staffID, err := parseID("staff_member_id", req.StaffMemberID)
	if err != nil {
		return nil, s.statusError(log, err)
	}
	serviceIDs := make([]uuid.UUID, 0, len(req.ServiceIDs))
	for _, raw := range req.ServiceIDs {
		id, err := parseID("service_ids", raw)
		if err != nil {
			return nil, s.statusError(log, err)
		}
		serviceIDs = append(serviceIDs, id)
	}

	b, err := s.svc.CreateBooking(ctx, bookings.CreateInput{
		Actor:         actor,
		SalonID:       salonID,
		Day:           req.Day,
		Time:          req.Time,
		ServiceIDs:    serviceIDs,
		StaffMemberID: staffID,
	})
	if err != nil {
		return nil, s.statusError(log.With(
			zap.String("user_id", actor.UserID),
			zap.String("salon_id", req.SalonID),
			zap.String("day", req.Day),
			zap.String("time", req.Time),
		), err)
	}

	return &CreateBookingResponse{Booking: toWireBooking(b, nil)}, nil
}

func (s *BookingsServer) UpdateBookingStatus(ctx context.Context, req *UpdateBookingStatusRequest) (*UpdateBookingStatusResponse, error) {
	log := s.log.With(zap.String("rpc", "UpdateBookingStatus"))

	if req == nil {
		log.Warn("invalid request", zap.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	id, err := parseID("booking_id", req.BookingID)
	if err != nil {
		return nil, s.statusError(log, err)
	}

	actor := actorFrom(ctx)
	b, err := s.svc.UpdateStatus(ctx, actor, id, req.Status)
	if err != nil {
		return nil, s.statusError(log.With(
			zap.String("booking_id", id.String()),
			zap.String("actor_id", actor.UserID),
			zap.String("status", req.Status),
		), err)
	}

	return &UpdateBookingStatusResponse{Booking: toWireBooking(b, nil)}, nil
}

func (s *BookingsServer) ListSalonBookings(ctx context.Context, req *ListSalonBookingsRequest) (*ListBookingsResponse, error) {
	log := s.log.With(zap.String("rpc", "ListSalonBookings"))

	if req == nil {
		log.Warn("invalid request", zap.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	salonID, err := parseID("salon_id", req.SalonID)
	if err != nil {
		return nil, s.statusError(log, err)
	}

	rows, err := s.svc.ListSalonBookings(ctx, actorFrom(ctx), salonID)
	if err != nil {
		return nil, s.statusError(log.With(zap.String("salon_id", req.SalonID)), err)
	}

	log.Debug("bookings listed", zap.String("salon_id", req.SalonID), zap.Int("count", len(rows)))
	return &ListBookingsResponse{Bookings: toWireBookings(rows)}, nil
}

func (s *BookingsServer) ListBookingsByDay(ctx context.Context, req *ListBookingsByDayRequest) (*ListBookingsResponse, error) {
	log := s.log.With(zap.String("rpc", "ListBookingsByDay"))

	if req == nil {
		log.Warn("invalid request", zap.String("reason", "nil_request"))
		return nil, status.Error(codes.InvalidArgument, "request is required")
	}
	salonID, err := parseID("salon_id", req.SalonID)
	if err != nil {
		return nil, s.statusError(log, err)
	}

	rows, err := s.svc.ListBookingsByDay(ctx, actorFrom(ctx), salonID, req.Day)
	if err != nil {
		return nil, s.statusError(log.With(zap.String("salon_id", req.SalonID), zap.String("day", req.Day)), err)
	}

	log.Debug("bookings listed",
		zap.String("salon_id", req.SalonID),
		zap.String("day", req.Day),
		zap.Int("count", len(rows)),
	)
	return &ListBookingsResponse{Bookings: toWireBookings(rows)}, nil
}

func actorFrom(ctx context.Context) auth.Actor {
	a, _ := auth.ActorFrom(ctx)
	return a
}

func parseID(field, raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, domain.MalformedInput(field + " is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.MalformedInput(field + " must be a UUID")
	}
	return id, nil
}

func toWireBookings(rows []bookings.BookingDetails) []*Booking {
	out := make([]*Booking, 0, len(rows))
	for _, r := range rows {
		out = append(out, toWireBooking(r.Booking, r.ServiceNames))
	}
	return out
}

func toWireBooking(b domain.Booking, serviceNames []string) *Booking {
	ids := make([]string, 0, len(b.ServiceIDs))
	for _, id := range b.ServiceIDs {
		ids = append(ids, id.String())
	}
	return &Booking{
		ID:            b.ID.String(),
		SalonID:       b.SalonID.String(),
		StaffMemberID: b.StaffMemberID.String(),
		UserID:        b.UserID,
		ServiceIDs:    ids,
		ServiceNames:  serviceNames,
		Day:           domain.FormatDay(b.Day),
		StartTime:     domain.FormatClock(b.StartTime),
		EndTime:       domain.FormatClock(b.EndTime),
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
