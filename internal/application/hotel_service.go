package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/domain/hotel"
	"github.com/hotel-yunuen/service-reservation/internal/domain/review"
	"github.com/hotel-yunuen/service-reservation/internal/domain/room"
	"github.com/hotel-yunuen/service-reservation/internal/domain/statistics"
)

// CreateHotelRequest is the DTO for registering a hotel.
type CreateHotelRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	Address      string `json:"address" binding:"required"`
	City         string `json:"city" binding:"required,max=100"`
	State        string `json:"state" binding:"required,max=100"`
	PostalCode   string `json:"postal_code" binding:"required,max=10"`
	Phone        string `json:"phone" binding:"required,max=20"`
	Email        string `json:"email" binding:"required,email"`
	Description  string `json:"description"`
	CheckInTime  string `json:"check_in_time" binding:"omitempty,clocktime"`
	CheckOutTime string `json:"check_out_time" binding:"omitempty,clocktime"`
}

// HotelDTO is the API representation of a hotel.
type HotelDTO struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Address      string    `json:"address"`
	City         string    `json:"city"`
	State        string    `json:"state"`
	PostalCode   string    `json:"postal_code"`
	Phone        string    `json:"phone"`
	Email        string    `json:"email"`
	Description  string    `json:"description"`
	CheckInTime  string    `json:"check_in_time"`
	CheckOutTime string    `json:"check_out_time"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// HomeDTO is the landing page summary.
type HomeDTO struct {
	Hotel             *HotelDTO                   `json:"hotel"`
	FeaturedRoomTypes []RoomTypeDTO               `json:"featured_room_types"`
	FeaturedReviews   []ReviewDTO                 `json:"featured_reviews"`
	Statistics        *statistics.HotelStatistics `json:"statistics,omitempty"`
}

// RateGroupDTO lists the room types of one category.
type RateGroupDTO struct {
	Category  room.Category `json:"category"`
	RoomTypes []RoomTypeDTO `json:"room_types"`
}

const (
	homeFeaturedRoomTypes = 6
	homeFeaturedReviews   = 3
	homeFeaturedMinRating = 4
)

// HotelService handles hotel registration and the public summary pages.
type HotelService struct {
	hotels    hotel.HotelRepository
	roomTypes room.RoomTypeRepository
	reviews   review.ReviewRepository
	stats     *StatisticsService
	now       Clock
	logger    *zap.Logger
}

// NewHotelService creates a HotelService.
func NewHotelService(
	hotels hotel.HotelRepository,
	roomTypes room.RoomTypeRepository,
	reviews review.ReviewRepository,
	stats *StatisticsService,
	now Clock,
	logger *zap.Logger,
) *HotelService {
	return &HotelService{
		hotels:    hotels,
		roomTypes: roomTypes,
		reviews:   reviews,
		stats:     stats,
		now:       now,
		logger:    logger,
	}
}

// CreateHotel registers a hotel. A clashing slug gets a short suffix.
func (s *HotelService) CreateHotel(ctx context.Context, req CreateHotelRequest) (*HotelDTO, error) {
	h, err := hotel.NewHotel(hotel.NewHotelParams{
		Name:         req.Name,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Phone:        req.Phone,
		Email:        req.Email,
		Description:  req.Description,
		CheckInTime:  req.CheckInTime,
		CheckOutTime: req.CheckOutTime,
	}, s.now())
	if err != nil {
		return nil, err
	}

	exists, err := s.hotels.SlugExists(ctx, h.Slug())
	if err != nil {
		return nil, err
	}
	if exists {
		h.WithSuffix(h.ID().String()[:8])
	}

	if err := s.hotels.Save(ctx, h); err != nil {
		return nil, err
	}
	s.logger.Info("hotel created", zap.String("hotel_id", h.ID().String()), zap.String("slug", h.Slug()))

	dto := toHotelDTO(h)
	return &dto, nil
}

// GetHotel returns a hotel by slug.
func (s *HotelService) GetHotel(ctx context.Context, slug string) (*HotelDTO, error) {
	h, err := s.hotels.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	dto := toHotelDTO(h)
	return &dto, nil
}

// ListHotels returns all active hotels.
func (s *HotelService) ListHotels(ctx context.Context) ([]HotelDTO, error) {
	hotels, err := s.hotels.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	dtos := make([]HotelDTO, len(hotels))
	for i, h := range hotels {
		dtos[i] = toHotelDTO(h)
	}
	return dtos, nil
}

// Home builds the landing summary of the first active hotel.
func (s *HotelService) Home(ctx context.Context) (*HomeDTO, error) {
	hotels, err := s.hotels.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	home := &HomeDTO{FeaturedRoomTypes: []RoomTypeDTO{}, FeaturedReviews: []ReviewDTO{}}
	if len(hotels) == 0 {
		return home, nil
	}

	h := hotels[0]
	hotelDTO := toHotelDTO(h)
	home.Hotel = &hotelDTO

	hotelID := h.ID()
	types, err := s.roomTypes.ListActive(ctx, room.RoomTypeFilter{HotelID: &hotelID, Limit: homeFeaturedRoomTypes})
	if err != nil {
		return nil, err
	}
	for _, t := range types {
		home.FeaturedRoomTypes = append(home.FeaturedRoomTypes, toRoomTypeDTO(t))
	}

	reviews, err := s.reviews.Featured(ctx, hotelID, homeFeaturedMinRating, homeFeaturedReviews)
	if err != nil {
		return nil, err
	}
	for _, r := range reviews {
		home.FeaturedReviews = append(home.FeaturedReviews, toReviewDTO(r))
	}

	st, err := s.stats.Get(ctx, hotelID)
	if err != nil {
		s.logger.Warn("home statistics unavailable", zap.Error(err))
	} else {
		home.Statistics = st
	}
	return home, nil
}

// Rates lists active room types grouped by category. Empty categories are omitted.
func (s *HotelService) Rates(ctx context.Context) ([]RateGroupDTO, error) {
	types, err := s.roomTypes.ListActive(ctx, room.RoomTypeFilter{})
	if err != nil {
		return nil, err
	}

	byCategory := make(map[room.Category][]RoomTypeDTO)
	for _, t := range types {
		byCategory[t.Category()] = append(byCategory[t.Category()], toRoomTypeDTO(t))
	}

	groups := make([]RateGroupDTO, 0, len(byCategory))
	for _, c := range room.Categories {
		if list, ok := byCategory[c]; ok {
			groups = append(groups, RateGroupDTO{Category: c, RoomTypes: list})
		}
	}
	return groups, nil
}

func toHotelDTO(h *hotel.Hotel) HotelDTO {
	return HotelDTO{
		ID:           h.ID(),
		Name:         h.Name(),
		Slug:         h.Slug(),
		Address:      h.Address(),
		City:         h.City(),
		State:        h.State(),
		PostalCode:   h.PostalCode(),
		Phone:        h.Phone(),
		Email:        h.Email(),
		Description:  h.Description(),
		CheckInTime:  h.CheckInTime(),
		CheckOutTime: h.CheckOutTime(),
		Active:       h.Active(),
		CreatedAt:    h.CreatedAt(),
	}
}
