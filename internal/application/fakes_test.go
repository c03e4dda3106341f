package application

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/hotel-yunuen/service-reservation/internal/adapter"
	"github.com/hotel-yunuen/service-reservation/internal/domain/booking"
	"github.com/hotel-yunuen/service-reservation/internal/domain/coupon"
	"github.com/hotel-yunuen/service-reservation/internal/domain/hotel"
	"github.com/hotel-yunuen/service-reservation/internal/domain/review"
	"github.com/hotel-yunuen/service-reservation/internal/domain/room"
	"github.com/hotel-yunuen/service-reservation/internal/domain/statistics"
	"github.com/hotel-yunuen/service-reservation/internal/platform/domain"
)

// --- bookings ---

type fakeBookingRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*booking.Booking
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{rows: map[uuid.UUID]*booking.Booking{}}
}

func cloneBooking(b *booking.Booking) *booking.Booking {
	return booking.Reconstitute(b.ID(), b.InvoiceID(), b.UserID(), b.UserEmail(), b.HotelID(), b.RoomID(),
		b.CouponID(), b.Stay(), b.BookedAt(), b.Adults(), b.Children(), b.SpecialRequests(),
		b.Prices(), b.Status(), b.Version(), b.CreatedAt(), b.UpdatedAt())
}

func (r *fakeBookingRepo) put(b *booking.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[b.ID()] = cloneBooking(b)
}

func (r *fakeBookingRepo) CreateExclusive(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.rows {
		if other.RoomID() == b.RoomID() && booking.IsBlocking(other.Status()) && other.Stay().Overlaps(b.Stay()) {
			return domain.NewConflictError("room already booked")
		}
	}
	r.rows[b.ID()] = cloneBooking(b)
	return nil
}

func (r *fakeBookingRepo) Update(_ context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cur, ok := r.rows[b.ID()]
	if !ok || cur.Version() != b.Version()-1 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	if booking.IsBlocking(b.Status()) {
		for id, other := range r.rows {
			if id != b.ID() && other.RoomID() == b.RoomID() && booking.IsBlocking(other.Status()) && other.Stay().Overlaps(b.Stay()) {
				return domain.NewConflictError("room already booked")
			}
		}
	}
	r.rows[b.ID()] = cloneBooking(b)
	return nil
}

func (r *fakeBookingRepo) FindByID(_ context.Context, id uuid.UUID) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.rows[id]
	if !ok {
		return nil, domain.NewNotFoundError("Booking", id.String())
	}
	return cloneBooking(b), nil
}

func (r *fakeBookingRepo) all() []*booking.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*booking.Booking, 0, len(r.rows))
	for _, b := range r.rows {
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out
}

func (r *fakeBookingRepo) List(_ context.Context, f booking.ListFilter) ([]*booking.Booking, int64, error) {
	var out []*booking.Booking
	for _, b := range r.all() {
		if f.UserID != nil && b.UserID() != *f.UserID {
			continue
		}
		if f.Status != "" && b.Status() != f.Status {
			continue
		}
		out = append(out, b)
	}
	total := int64(len(out))
	start := (f.Page - 1) * f.Limit
	if start > len(out) {
		start = len(out)
	}
	end := start + f.Limit
	if end > len(out) {
		end = len(out)
	}
	return out[start:end], total, nil
}

func (r *fakeBookingRepo) CountUpcoming(_ context.Context, userID uuid.UUID, today time.Time) (int64, error) {
	var n int64
	for _, b := range r.all() {
		if b.UserID() == userID && booking.IsBlocking(b.Status()) && !b.CheckIn().Before(today) {
			n++
		}
	}
	return n, nil
}

func (r *fakeBookingRepo) BlockingRanges(_ context.Context, roomID uuid.UUID, stay booking.DateRange) ([]booking.DateRange, error) {
	var out []booking.DateRange
	for _, b := range r.all() {
		if b.RoomID() == roomID && booking.IsBlocking(b.Status()) && b.Stay().Overlaps(stay) {
			out = append(out, b.Stay())
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) ActiveOn(_ context.Context, day time.Time) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range r.all() {
		if b.IsActiveOn(day) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) HasActiveOn(_ context.Context, roomID uuid.UUID, day time.Time) (bool, error) {
	for _, b := range r.all() {
		if b.RoomID() == roomID && b.IsActiveOn(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) HasFutureBlocking(_ context.Context, roomID uuid.UUID, day time.Time) (bool, error) {
	for _, b := range r.all() {
		if b.RoomID() == roomID && booking.IsBlocking(b.Status()) && b.CheckIn().After(day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeBookingRepo) FindPendingBookedBefore(_ context.Context, cutoff time.Time) ([]*booking.Booking, error) {
	var out []*booking.Booking
	for _, b := range r.all() {
		if b.Status() == booking.StatusPending && b.BookedAt().Before(cutoff) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBookingRepo) CountByHotel(_ context.Context, hotelID uuid.UUID) (booking.Counts, error) {
	var c booking.Counts
	for _, b := range r.all() {
		if b.HotelID() != hotelID {
			continue
		}
		c.Total++
		if booking.IsBlocking(b.Status()) {
			c.Completed++
		}
		if b.Status() == booking.StatusCancelled {
			c.Cancelled++
		}
	}
	return c, nil
}

// --- rooms ---

type fakeRoomRepo struct {
	mu    sync.Mutex
	rooms map[uuid.UUID]*room.Room
	types map[uuid.UUID]*room.RoomType
}

func newFakeRoomRepo() *fakeRoomRepo {
	return &fakeRoomRepo{rooms: map[uuid.UUID]*room.Room{}, types: map[uuid.UUID]*room.RoomType{}}
}

func (r *fakeRoomRepo) Save(_ context.Context, rm *room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, other := range r.rooms {
		if other.Number() == rm.Number() {
			return domain.NewConflictError("room number already exists")
		}
	}
	r.rooms[rm.ID()] = rm
	return nil
}

func (r *fakeRoomRepo) Update(_ context.Context, rm *room.Room) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rooms[rm.ID()] = room.ReconstituteRoom(rm.ID(), rm.RoomTypeID(), rm.Number(), rm.Floor(), rm.Status(), rm.Available(), rm.Notes(), rm.CreatedAt(), rm.UpdatedAt())
	return nil
}

func (r *fakeRoomRepo) FindByID(_ context.Context, id uuid.UUID) (*room.Room, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rm, ok := r.rooms[id]
	if !ok {
		return nil, domain.NewNotFoundError("Room", id.String())
	}
	return room.ReconstituteRoom(rm.ID(), rm.RoomTypeID(), rm.Number(), rm.Floor(), rm.Status(), rm.Available(), rm.Notes(), rm.CreatedAt(), rm.UpdatedAt()), nil
}

func (r *fakeRoomRepo) ListByType(ctx context.Context, roomTypeID uuid.UUID) ([]*room.Room, error) {
	var out []*room.Room
	for _, id := range r.roomIDs() {
		rm, _ := r.FindByID(ctx, id)
		if rm.RoomTypeID() == roomTypeID {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) ListByStatus(ctx context.Context, status room.Status) ([]*room.Room, error) {
	var out []*room.Room
	for _, id := range r.roomIDs() {
		rm, _ := r.FindByID(ctx, id)
		if rm.Status() == status {
			out = append(out, rm)
		}
	}
	return out, nil
}

func (r *fakeRoomRepo) roomIDs() []uuid.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, 0, len(r.rooms))
	for id := range r.rooms {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return r.rooms[ids[i]].Number() < r.rooms[ids[j]].Number() })
	return ids
}

func (r *fakeRoomRepo) CountAvailableByType(ctx context.Context, roomTypeID uuid.UUID) (int64, error) {
	rooms, _ := r.ListByType(ctx, roomTypeID)
	var n int64
	for _, rm := range rooms {
		if rm.Available() {
			n++
		}
	}
	return n, nil
}

func (r *fakeRoomRepo) HotelID(ctx context.Context, roomID uuid.UUID) (uuid.UUID, error) {
	rm, err := r.FindByID(ctx, roomID)
	if err != nil {
		return uuid.Nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.types[rm.RoomTypeID()].HotelID(), nil
}

// fakeRoomTypeRepo shares storage with fakeRoomRepo.
type fakeRoomTypeRepo struct{ *fakeRoomRepo }

func (r fakeRoomTypeRepo) Save(_ context.Context, t *room.RoomType) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[t.ID()] = t
	return nil
}

func (r fakeRoomTypeRepo) FindByID(_ context.Context, id uuid.UUID) (*room.RoomType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.types[id]
	if !ok {
		return nil, domain.NewNotFoundError("RoomType", id.String())
	}
	return t, nil
}

func (r fakeRoomTypeRepo) ListActive(_ context.Context, f room.RoomTypeFilter) ([]*room.RoomType, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*room.RoomType
	for _, t := range r.types {
		if !t.Active() || (f.HotelID != nil && t.HotelID() != *f.HotelID) || (f.Category != "" && t.Category() != f.Category) {
			continue
		}
		if (f.MinPriceCents > 0 && t.PricePerNightCents() < f.MinPriceCents) || (f.MaxPriceCents > 0 && t.PricePerNightCents() > f.MaxPriceCents) {
			continue
		}
		if f.MinCapacity > 0 && t.Capacity() < f.MinCapacity {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PricePerNightCents() < out[j].PricePerNightCents() })
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

// --- hotels ---

type fakeHotelRepo struct {
	mu     sync.Mutex
	hotels []*hotel.Hotel
}

func (r *fakeHotelRepo) Save(_ context.Context, h *hotel.Hotel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.hotels = append(r.hotels, h)
	return nil
}

func (r *fakeHotelRepo) FindByID(_ context.Context, id uuid.UUID) (*hotel.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.hotels {
		if h.ID() == id {
			return h, nil
		}
	}
	return nil, domain.NewNotFoundError("Hotel", id.String())
}

func (r *fakeHotelRepo) FindBySlug(_ context.Context, slug string) (*hotel.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, h := range r.hotels {
		if h.Slug() == slug {
			return h, nil
		}
	}
	return nil, domain.NewNotFoundError("Hotel", slug)
}

func (r *fakeHotelRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, err := r.FindBySlug(ctx, slug)
	return err == nil, nil
}

func (r *fakeHotelRepo) ListActive(_ context.Context) ([]*hotel.Hotel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*hotel.Hotel(nil), r.hotels...), nil
}

func (r *fakeHotelRepo) ListIDs(_ context.Context) ([]uuid.UUID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]uuid.UUID, len(r.hotels))
	for i, h := range r.hotels {
		ids[i] = h.ID()
	}
	return ids, nil
}

// --- coupons ---

type fakeCouponRepo struct {
	mu      sync.Mutex
	coupons map[uuid.UUID]*coupon.Coupon
}

func newFakeCouponRepo() *fakeCouponRepo {
	return &fakeCouponRepo{coupons: map[uuid.UUID]*coupon.Coupon{}}
}

func cloneCoupon(c *coupon.Coupon) *coupon.Coupon {
	return coupon.Reconstruct(c.ID(), c.Code(), c.DiscountType(), c.DiscountValue(), c.MinAmountCents(),
		c.MaxDiscountCents(), c.MaxUses(), c.TimesUsed(), c.ValidFrom(), c.ValidUntil(), c.Active(),
		c.CreatedBy(), c.CreatedAt(), c.UpdatedAt())
}

func (r *fakeCouponRepo) Save(_ context.Context, c *coupon.Coupon) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.coupons[c.ID()] = cloneCoupon(c)
	return nil
}

func (r *fakeCouponRepo) Update(ctx context.Context, c *coupon.Coupon) error { return r.Save(ctx, c) }

func (r *fakeCouponRepo) FindByCode(_ context.Context, code string) (*coupon.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.coupons {
		if c.Code() == code {
			return cloneCoupon(c), nil
		}
	}
	return nil, domain.NewNotFoundError("Coupon", code)
}

func (r *fakeCouponRepo) FindByID(_ context.Context, id uuid.UUID) (*coupon.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return nil, domain.NewNotFoundError("Coupon", id.String())
	}
	return cloneCoupon(c), nil
}

func (r *fakeCouponRepo) FindActive(_ context.Context, now time.Time) ([]*coupon.Coupon, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*coupon.Coupon
	for _, c := range r.coupons {
		if c.Active() && !now.Before(c.ValidFrom()) && !now.After(c.ValidUntil()) {
			out = append(out, cloneCoupon(c))
		}
	}
	return out, nil
}

func (r *fakeCouponRepo) IncrementUses(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return domain.NewNotFoundError("Coupon", id.String())
	}
	if c.MaxUses() > 0 && c.TimesUsed() >= c.MaxUses() {
		return domain.NewValidationError("coupon %s has reached its usage limit", id)
	}
	c.IncrementUses(c.UpdatedAt())
	return nil
}

func (r *fakeCouponRepo) ReleaseUse(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.coupons[id]
	if !ok {
		return domain.NewNotFoundError("Coupon", id.String())
	}
	c.ReleaseUse(c.UpdatedAt())
	return nil
}

// --- reviews ---

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews []*review.Review
	votes   map[[2]uuid.UUID]bool
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{votes: map[[2]uuid.UUID]bool{}}
}

func (r *fakeReviewRepo) Save(_ context.Context, rv *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reviews = append(r.reviews, rv)
	return nil
}

func (r *fakeReviewRepo) Update(_ context.Context, rv *review.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cur := range r.reviews {
		if cur.ID() == rv.ID() {
			r.reviews[i] = rv
			return nil
		}
	}
	return domain.NewNotFoundError("Review", rv.ID().String())
}

func (r *fakeReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*review.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.ID() == id {
			return rv, nil
		}
	}
	return nil, domain.NewNotFoundError("Review", id.String())
}

func (r *fakeReviewRepo) ExistsForBooking(_ context.Context, bookingID uuid.UUID) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rv := range r.reviews {
		if rv.BookingID() != nil && *rv.BookingID() == bookingID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeReviewRepo) active(hotelID *uuid.UUID) []*review.Review {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*review.Review
	for _, rv := range r.reviews {
		if rv.Active() && (hotelID == nil || rv.HotelID() == *hotelID) {
			out = append(out, rv)
		}
	}
	return out
}

func (r *fakeReviewRepo) ListActive(_ context.Context, page, limit int) ([]*review.Review, int64, error) {
	out := r.active(nil)
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) ListByHotel(_ context.Context, hotelID uuid.UUID, f review.HotelFilter) ([]*review.Review, int64, error) {
	var out []*review.Review
	for _, rv := range r.active(&hotelID) {
		if f.Rating == 0 || rv.Ratings().Overall == f.Rating {
			out = append(out, rv)
		}
	}
	if f.OrderBy == review.OrderRatingHigh {
		sort.SliceStable(out, func(i, j int) bool { return out[i].Ratings().Overall > out[j].Ratings().Overall })
	}
	return out, int64(len(out)), nil
}

func (r *fakeReviewRepo) Featured(_ context.Context, hotelID uuid.UUID, minRating, limit int) ([]*review.Review, error) {
	var out []*review.Review
	for _, rv := range r.active(&hotelID) {
		if rv.Ratings().Overall >= minRating && len(out) < limit {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *fakeReviewRepo) RatingDistribution(_ context.Context, hotelID uuid.UUID) (map[int]int64, error) {
	dist := map[int]int64{}
	for _, rv := range r.active(&hotelID) {
		dist[rv.Ratings().Overall]++
	}
	return dist, nil
}

func (r *fakeReviewRepo) ActiveSamples(_ context.Context, hotelID uuid.UUID) ([]review.RatingSample, error) {
	var out []review.RatingSample
	for _, rv := range r.active(&hotelID) {
		out = append(out, review.RatingSample{Ratings: rv.Ratings(), WouldRecommend: rv.WouldRecommend()})
	}
	return out, nil
}

func (r *fakeReviewRepo) ToggleHelpful(_ context.Context, reviewID, userID uuid.UUID) (int, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := [2]uuid.UUID{reviewID, userID}
	voted := !r.votes[key]
	if voted {
		r.votes[key] = true
	} else {
		delete(r.votes, key)
	}
	count := 0
	for k := range r.votes {
		if k[0] == reviewID {
			count++
		}
	}
	for _, rv := range r.reviews {
		if rv.ID() == reviewID {
			rv.SetHelpfulCount(count)
		}
	}
	return count, voted, nil
}

// --- statistics ---

type fakeStatsRepo struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*statistics.HotelStatistics
}

func newFakeStatsRepo() *fakeStatsRepo {
	return &fakeStatsRepo{rows: map[uuid.UUID]*statistics.HotelStatistics{}}
}

func (r *fakeStatsRepo) Upsert(_ context.Context, s *statistics.HotelStatistics) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *s
	r.rows[s.HotelID] = &cp
	return nil
}

func (r *fakeStatsRepo) FindByHotel(_ context.Context, hotelID uuid.UUID) (*statistics.HotelStatistics, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[hotelID]
	if !ok {
		return nil, domain.NewNotFoundError("HotelStatistics", hotelID.String())
	}
	cp := *s
	return &cp, nil
}

type fakeStatsCache struct {
	mu          sync.Mutex
	entries     map[uuid.UUID]*statistics.HotelStatistics
	invalidated int
	err         error
}

func newFakeStatsCache() *fakeStatsCache {
	return &fakeStatsCache{entries: map[uuid.UUID]*statistics.HotelStatistics{}}
}

func (c *fakeStatsCache) Get(_ context.Context, id uuid.UUID) (*statistics.HotelStatistics, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, false, c.err
	}
	s, ok := c.entries[id]
	return s, ok, nil
}

func (c *fakeStatsCache) Set(_ context.Context, s *statistics.HotelStatistics) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.entries[s.HotelID] = s
	return nil
}

func (c *fakeStatsCache) SetIfAbsent(_ context.Context, s *statistics.HotelStatistics) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return false, c.err
	}
	if _, ok := c.entries[s.HotelID]; ok {
		return false, nil
	}
	c.entries[s.HotelID] = s
	return true, nil
}

func (c *fakeStatsCache) Invalidate(_ context.Context, id uuid.UUID) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated++
	delete(c.entries, id)
	return c.err
}

// --- side effects ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) PublishBookingEvent(_ context.Context, eventType string, _ *booking.Booking) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, eventType)
	return nil
}

type recordingNotifier struct {
	mu            sync.Mutex
	confirmations []adapter.BookingConfirmation
	contacts      []adapter.ContactMessage
	err           error
}

func (n *recordingNotifier) SendBookingConfirmation(_ context.Context, m adapter.BookingConfirmation) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmations = append(n.confirmations, m)
	return n.err
}

func (n *recordingNotifier) SendContactMessage(_ context.Context, m adapter.ContactMessage) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contacts = append(n.contacts, m)
	return n.err
}

type fakeGateway struct {
	authorized []string
	captured   []string
	voided     []string
	captureErr error
}

func (g *fakeGateway) Authorize(_ context.Context, _ int64, _, _, reference string) (string, error) {
	id := "auth-" + reference
	g.authorized = append(g.authorized, id)
	return id, nil
}

func (g *fakeGateway) Capture(_ context.Context, id string) error {
	if g.captureErr != nil {
		return g.captureErr
	}
	g.captured = append(g.captured, id)
	return nil
}

func (g *fakeGateway) Void(_ context.Context, id string) error {
	g.voided = append(g.voided, id)
	return nil
}
