// Package mongostore keeps salons, staff members and bookings in MongoDB.
// Reserved windows live inside the staff member document and are appended
// with a guarded $push inside a session transaction.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"salonbook/backend/internal/domain"
	"salonbook/backend/internal/store"
)

const (
	salonsCollection   = "salons"
	staffCollection    = "staff_members"
	bookingsCollection = "bookings"
)

type Store struct {
	client   *mongo.Client
	salons   *mongo.Collection
	staff    *mongo.Collection
	bookings *mongo.Collection
	now      func() time.Time
}

var _ store.Store = (*Store)(nil)

// Connect dials uri and pings the deployment. Transactions require a replica
// set or sharded cluster.
func Connect(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return New(client, database), nil
}

func New(client *mongo.Client, database string) *Store {
	db := client.Database(database)
	return &Store{
		client:   client,
		salons:   db.Collection(salonsCollection),
		staff:    db.Collection(staffCollection),
		bookings: db.Collection(bookingsCollection),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) EnsureIndexes(ctx context.Context) error {
	bookingIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "salonId", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("salon_start_unique"),
		},
		{
			Keys:    bson.D{{Key: "salonId", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("salon_created_idx"),
		},
		{
			Keys:    bson.D{{Key: "salonId", Value: 1}, {Key: "day", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index().SetName("salon_day_start_idx"),
		},
	}
	if _, err := s.bookings.Indexes().CreateMany(ctx, bookingIndexes); err != nil {
		return fmt.Errorf("failed to create booking indexes: %w", err)
	}

	staffIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "salonId", Value: 1}},
			Options: options.Index().SetName("salon_idx"),
		},
	}
	if _, err := s.staff.Indexes().CreateMany(ctx, staffIndexes); err != nil {
		return fmt.Errorf("failed to create staff indexes: %w", err)
	}
	return nil
}

// SaveSalon upserts a salon document.
func (s *Store) SaveSalon(ctx context.Context, salon domain.Salon) (domain.Salon, error) {
	now := s.now()
	if salon.ID == uuid.Nil {
		salon.ID = newID()
	}
	if salon.CreatedAt.IsZero() {
		salon.CreatedAt = now
	}
	salon.UpdatedAt = now
	doc := salonToDoc(salon)
	_, err := s.salons.ReplaceOne(ctx, bson.M{"_id": doc.ID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return domain.Salon{}, err
	}
	return salon, nil
}

// SaveStaffMember upserts a staff member. Reserved windows already stored
// for the member are preserved.
func (s *Store) SaveStaffMember(ctx context.Context, m domain.StaffMember) (domain.StaffMember, error) {
	now := s.now()
	if m.ID == uuid.Nil {
		m.ID = newID()
	}
	doc := staffToDoc(m)
	update := bson.M{
		"$set": bson.M{
			"salonId":   doc.SalonID,
			"name":      doc.Name,
			"email":     doc.Email,
			"phone":     doc.Phone,
			"updatedAt": now,
		},
		"$setOnInsert": bson.M{
			"reservedWindows": bson.A{},
			"createdAt":       now,
		},
	}
	_, err := s.staff.UpdateOne(ctx, bson.M{"_id": doc.ID}, update, options.Update().SetUpsert(true))
	if err != nil {
		return domain.StaffMember{}, err
	}
	return s.GetStaffMember(ctx, m.ID)
}

func (s *Store) GetSalon(ctx context.Context, salonID uuid.UUID) (domain.Salon, error) {
	var doc salonDoc
	if err := s.salons.FindOne(ctx, bson.M{"_id": salonID.String()}).Decode(&doc); err != nil {
		return domain.Salon{}, notFound(err)
	}
	return doc.toDomain()
}

func (s *Store) GetStaffMember(ctx context.Context, staffMemberID uuid.UUID) (domain.StaffMember, error) {
	return s.getStaffMember(ctx, staffMemberID)
}

func (s *Store) getStaffMember(ctx context.Context, staffMemberID uuid.UUID) (domain.StaffMember, error) {
	var doc staffDoc
	if err := s.staff.FindOne(ctx, bson.M{"_id": staffMemberID.String()}).Decode(&doc); err != nil {
		return domain.StaffMember{}, notFound(err)
	}
	return doc.toDomain()
}

func (s *Store) BookingExistsAt(ctx context.Context, salonID uuid.UUID, start time.Time) (bool, error) {
	n, err := s.bookings.CountDocuments(ctx, bson.M{"salonId": salonID.String(), "startTime": start}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *Store) GetBooking(ctx context.Context, bookingID uuid.UUID) (domain.Booking, error) {
	var doc bookingDoc
	if err := s.bookings.FindOne(ctx, bson.M{"_id": bookingID.String()}).Decode(&doc); err != nil {
		return domain.Booking{}, notFound(err)
	}
	return doc.toDomain()
}

func (s *Store) ListSalonBookings(ctx context.Context, salonID uuid.UUID) ([]domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	return s.findBookings(ctx, bson.M{"salonId": salonID.String()}, opts)
}

func (s *Store) ListSalonBookingsByDay(ctx context.Context, salonID uuid.UUID, day time.Time) ([]domain.Booking, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: 1}})
	return s.findBookings(ctx, bson.M{"salonId": salonID.String(), "day": domain.FormatDay(day)}, opts)
}

func (s *Store) findBookings(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]domain.Booking, error) {
	cursor, err := s.bookings.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []bookingDoc
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]domain.Booking, 0, len(docs))
	for _, d := range docs {
		b, err := d.toDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, nil
}

// ReserveBooking appends the window to the staff document only when no
// embedded window overlaps it, then inserts the booking, all in one
// transaction. Concurrent writers on the same staff document surface as
// transient write conflicts which WithTransaction retries.
func (s *Store) ReserveBooking(ctx context.Context, booking domain.Booking, policy domain.OverlapPolicy) (domain.Booking, error) {
	sess, err := s.client.StartSession()
	if err != nil {
		return domain.Booking{}, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := s.now()
	b := booking
	if b.ID == uuid.Nil {
		b.ID = newID()
	}
	b.Status = domain.StatusPending
	b.CreatedAt = now
	b.UpdatedAt = now

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		exists, err := s.BookingExistsAt(sc, b.SalonID, b.StartTime)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, store.ErrDuplicate
		}

		window := windowDoc{
			ID:        newID().String(),
			BookingID: b.ID.String(),
			Start:     b.StartTime,
			End:       b.EndTime,
			CreatedAt: now,
		}
		res, err := s.staff.UpdateOne(sc,
			reserveFilter(b.StaffMemberID, b.Window(), policy),
			bson.M{
				"$push": bson.M{"reservedWindows": window},
				"$set":  bson.M{"updatedAt": now},
			},
		)
		if err != nil {
			return nil, err
		}
		if res.MatchedCount == 0 {
			return nil, s.explainRejectedPush(sc, b, policy)
		}

		if _, err := s.bookings.InsertOne(sc, bookingToDoc(b)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return nil, store.ErrDuplicate
			}
			return nil, err
		}
		return nil, nil
	})
	if err != nil {
		return domain.Booking{}, err
	}
	return b, nil
}

// explainRejectedPush distinguishes a missing staff member from a conflict
// after the guarded $push matched nothing.
func (s *Store) explainRejectedPush(ctx context.Context, b domain.Booking, policy domain.OverlapPolicy) error {
	m, err := s.getStaffMember(ctx, b.StaffMemberID)
	if err != nil {
		return err
	}
	if w, ok := domain.FindConflict(m.ReservedWindows(), b.Window(), policy); ok {
		return &store.WindowConflictError{Existing: w}
	}
	return &store.WindowConflictError{}
}

func (s *Store) UpdateStatus(ctx context.Context, bookingID uuid.UUID, status domain.BookingStatus) (domain.Booking, error) {
	var doc bookingDoc
	err := s.bookings.FindOneAndUpdate(ctx,
		bson.M{"_id": bookingID.String(), "status": string(domain.StatusPending)},
		bson.M{"$set": bson.M{"status": string(status), "updatedAt": s.now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&doc)
	if err == nil {
		return doc.toDomain()
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return domain.Booking{}, err
	}
	if _, err := s.GetBooking(ctx, bookingID); err != nil {
		return domain.Booking{}, err
	}
	return domain.Booking{}, store.ErrStatusChanged
}

// reserveFilter matches the staff document only when none of its embedded
// windows overlaps w under policy.
func reserveFilter(staffMemberID uuid.UUID, w domain.Window, policy domain.OverlapPolicy) bson.M {
	startOp, endOp := "$lt", "$gt"
	if policy == domain.OverlapInclusive {
		startOp, endOp = "$lte", "$gte"
	}
	return bson.M{
		"_id": staffMemberID.String(),
		"reservedWindows": bson.M{
			"$not": bson.M{
				"$elemMatch": bson.M{
					"start": bson.M{startOp: w.End},
					"end":   bson.M{endOp: w.Start},
				},
			},
		},
	}
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func newID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
