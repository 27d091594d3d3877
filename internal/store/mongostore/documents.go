package mongostore

import (
	"time"

	"github.com/google/uuid"

	"salonbook/backend/internal/domain"
)

type serviceDoc struct {
	ID              string `bson:"id"`
	Name            string `bson:"name"`
	Description     string `bson:"description,omitempty"`
	PriceCents      int64  `bson:"priceCents"`
	DurationMinutes int    `bson:"durationMinutes"`
}

type hoursDoc struct {
	Start string `bson:"start"`
	End   string `bson:"end"`
}

type salonDoc struct {
	ID           string       `bson:"_id"`
	OwnerID      string       `bson:"ownerId"`
	Name         string       `bson:"name"`
	Email        string       `bson:"email,omitempty"`
	Phone        string       `bson:"phone,omitempty"`
	Address      string       `bson:"address,omitempty"`
	Services     []serviceDoc `bson:"services"`
	WorkingHours hoursDoc     `bson:"workingHours"`
	CreatedAt    time.Time    `bson:"createdAt"`
	UpdatedAt    time.Time    `bson:"updatedAt"`
}

type windowDoc struct {
	ID        string    `bson:"id"`
	BookingID string    `bson:"bookingId"`
	Start     time.Time `bson:"start"`
	End       time.Time `bson:"end"`
	CreatedAt time.Time `bson:"createdAt"`
}

// staffDoc embeds every reserved window so a reservation is a single
// guarded update on one document.
type staffDoc struct {
	ID              string      `bson:"_id"`
	SalonID         string      `bson:"salonId"`
	Name            string      `bson:"name"`
	Email           string      `bson:"email,omitempty"`
	Phone           string      `bson:"phone,omitempty"`
	ReservedWindows []windowDoc `bson:"reservedWindows"`
	CreatedAt       time.Time   `bson:"createdAt"`
	UpdatedAt       time.Time   `bson:"updatedAt"`
}

type bookingDoc struct {
	ID            string    `bson:"_id"`
	SalonID       string    `bson:"salonId"`
	StaffMemberID string    `bson:"staffMemberId"`
	UserID        string    `bson:"userId"`
	UserEmail     string    `bson:"userEmail,omitempty"`
	ServiceIDs    []string  `bson:"serviceIds"`
	Day           string    `bson:"day"`
	StartTime     time.Time `bson:"startTime"`
	EndTime       time.Time `bson:"endTime"`
	Status        string    `bson:"status"`
	CreatedAt     time.Time `bson:"createdAt"`
	UpdatedAt     time.Time `bson:"updatedAt"`
}

func salonToDoc(s domain.Salon) salonDoc {
	services := make([]serviceDoc, 0, len(s.Services))
	for _, svc := range s.Services {
		services = append(services, serviceDoc{
			ID:              svc.ID.String(),
			Name:            svc.Name,
			Description:     svc.Description,
			PriceCents:      svc.PriceCents,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	return salonDoc{
		ID:           s.ID.String(),
		OwnerID:      s.OwnerID,
		Name:         s.Name,
		Email:        s.Email,
		Phone:        s.Phone,
		Address:      s.Address,
		Services:     services,
		WorkingHours: hoursDoc{Start: s.WorkingHours.Start, End: s.WorkingHours.End},
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func (d salonDoc) toDomain() (domain.Salon, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Salon{}, err
	}
	services := make([]domain.Service, 0, len(d.Services))
	for _, svc := range d.Services {
		sid, err := uuid.Parse(svc.ID)
		if err != nil {
			return domain.Salon{}, err
		}
		services = append(services, domain.Service{
			ID:              sid,
			Name:            svc.Name,
			Description:     svc.Description,
			PriceCents:      svc.PriceCents,
			DurationMinutes: svc.DurationMinutes,
		})
	}
	return domain.Salon{
		ID:           id,
		OwnerID:      d.OwnerID,
		Name:         d.Name,
		Email:        d.Email,
		Phone:        d.Phone,
		Address:      d.Address,
		Services:     services,
		WorkingHours: domain.WorkingHours{Start: d.WorkingHours.Start, End: d.WorkingHours.End},
		CreatedAt:    d.CreatedAt.UTC(),
		UpdatedAt:    d.UpdatedAt.UTC(),
	}, nil
}

func staffToDoc(m domain.StaffMember) staffDoc {
	windows := make([]windowDoc, 0, len(m.Windows))
	for _, w := range m.Windows {
		windows = append(windows, windowDoc{
			ID:        w.ID.String(),
			BookingID: w.BookingID.String(),
			Start:     w.StartTime,
			End:       w.EndTime,
			CreatedAt: w.CreatedAt,
		})
	}
	return staffDoc{
		ID:              m.ID.String(),
		SalonID:         m.SalonID.String(),
		Name:            m.Name,
		Email:           m.Email,
		Phone:           m.Phone,
		ReservedWindows: windows,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}

func (d staffDoc) toDomain() (domain.StaffMember, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.StaffMember{}, err
	}
	salonID, err := uuid.Parse(d.SalonID)
	if err != nil {
		return domain.StaffMember{}, err
	}
	windows := make([]domain.ReservedWindow, 0, len(d.ReservedWindows))
	for _, w := range d.ReservedWindows {
		wid, _ := uuid.Parse(w.ID)
		bid, _ := uuid.Parse(w.BookingID)
		windows = append(windows, domain.ReservedWindow{
			ID:            wid,
			StaffMemberID: id,
			BookingID:     bid,
			StartTime:     w.Start.UTC(),
			EndTime:       w.End.UTC(),
			CreatedAt:     w.CreatedAt.UTC(),
		})
	}
	return domain.StaffMember{
		ID:        id,
		SalonID:   salonID,
		Name:      d.Name,
		Email:     d.Email,
		Phone:     d.Phone,
		Windows:   windows,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

func bookingToDoc(b domain.Booking) bookingDoc {
	serviceIDs := make([]string, 0, len(b.ServiceIDs))
	for _, id := range b.ServiceIDs {
		serviceIDs = append(serviceIDs, id.String())
	}
	return bookingDoc{
		ID:            b.ID.String(),
		SalonID:       b.SalonID.String(),
		StaffMemberID: b.StaffMemberID.String(),
		UserID:        b.UserID,
		UserEmail:     b.UserEmail,
		ServiceIDs:    serviceIDs,
		Day:           domain.FormatDay(b.Day),
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        string(b.Status),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func (d bookingDoc) toDomain() (domain.Booking, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Booking{}, err
	}
	salonID, err := uuid.Parse(d.SalonID)
	if err != nil {
		return domain.Booking{}, err
	}
	staffID, err := uuid.Parse(d.StaffMemberID)
	if err != nil {
		return domain.Booking{}, err
	}
	serviceIDs := make([]uuid.UUID, 0, len(d.ServiceIDs))
	for _, s := range d.ServiceIDs {
		sid, err := uuid.Parse(s)
		if err != nil {
			return domain.Booking{}, err
		}
		serviceIDs = append(serviceIDs, sid)
	}
	day, err := domain.ParseDay(d.Day)
	if err != nil {
		return domain.Booking{}, err
	}
	return domain.Booking{
		ID:            id,
		SalonID:       salonID,
		StaffMemberID: staffID,
		UserID:        d.UserID,
		UserEmail:     d.UserEmail,
		ServiceIDs:    serviceIDs,
		Day:           day,
		StartTime:     d.StartTime.UTC(),
		EndTime:       d.EndTime.UTC(),
		Status:        domain.BookingStatus(d.Status),
		CreatedAt:     d.CreatedAt.UTC(),
		UpdatedAt:     d.UpdatedAt.UTC(),
	}, nil
}
