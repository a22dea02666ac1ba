package analytics

import (
	"context"
	"log"
	"time"

	"shutterdesk/internal/caching"
	"shutterdesk/internal/repositories"

	"github.com/google/uuid"
)

const dashboardCacheTTL = 5 * time.Minute

// DashboardService aggregates per-user business stats for the dashboard.
// Results are cached briefly; entitlement decisions never read this cache.
type DashboardService struct {
	clientRepo  repositories.ClientRepository
	bookingRepo repositories.BookingRepository
	invoiceRepo repositories.InvoiceRepository
	cacheSvc    caching.CacheService
}

type DashboardStats struct {
	ClientCount       int       `json:"client_count"`
	BookingCount      int       `json:"booking_count"`
	UpcomingBookings  int       `json:"upcoming_bookings"`
	OutstandingAmount float64   `json:"outstanding_amount"`
	RevenueLast30Days float64   `json:"revenue_last_30_days"`
	GeneratedAt       time.Time `json:"generated_at"`
}

func NewDashboardService(clientRepo repositories.ClientRepository, bookingRepo repositories.BookingRepository, invoiceRepo repositories.InvoiceRepository, cacheSvc caching.CacheService) *DashboardService {
	return &DashboardService{
		clientRepo:  clientRepo,
		bookingRepo: bookingRepo,
		invoiceRepo: invoiceRepo,
		cacheSvc:    cacheSvc,
	}
}

func (s *DashboardService) GetStats(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	if s.cacheSvc != nil {
		if cached, err := s.cacheSvc.GetDashboard(ctx, userID); err == nil && cached != nil {
			return statsFromCache(cached), nil
		}
	}

	stats, err := s.calculate(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cacheSvc != nil {
		if err := s.cacheSvc.SetDashboard(ctx, userID, statsToCache(stats), dashboardCacheTTL); err != nil {
			log.Printf("Failed to cache dashboard stats for %s: %v", userID, err)
		}
	}

	return stats, nil
}

// Invalidate drops the user's cached entries after a write to any dashboard
// input. Handlers call this on every mutating client, booking, invoice, and
// payment path.
func (s *DashboardService) Invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cacheSvc == nil {
		return
	}
	if err := s.cacheSvc.InvalidateUserCache(ctx, userID); err != nil {
		log.Printf("Failed to invalidate cache for %s: %v", userID, err)
	}
}

func (s *DashboardService) calculate(ctx context.Context, userID uuid.UUID) (*DashboardStats, error) {
	clientCount, err := s.clientRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	bookingCount, err := s.bookingRepo.CountByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.bookingRepo.CountUpcoming(ctx, userID)
	if err != nil {
		return nil, err
	}

	outstanding, err := s.invoiceRepo.SumOutstanding(ctx, userID)
	if err != nil {
		return nil, err
	}

	revenue, err := s.invoiceRepo.SumPaidSince(ctx, userID, time.Now().AddDate(0, 0, -30))
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		ClientCount:       clientCount,
		BookingCount:      bookingCount,
		UpcomingBookings:  upcoming,
		OutstandingAmount: outstanding,
		RevenueLast30Days: revenue,
		GeneratedAt:       time.Now(),
	}, nil
}

func statsToCache(stats *DashboardStats) map[string]interface{} {
	return map[string]interface{}{
		"client_count":         stats.ClientCount,
		"booking_count":        stats.BookingCount,
		"upcoming_bookings":    stats.UpcomingBookings,
		"outstanding_amount":   stats.OutstandingAmount,
		"revenue_last_30_days": stats.RevenueLast30Days,
		"generated_at":         stats.GeneratedAt.Format(time.RFC3339),
	}
}

func statsFromCache(cached map[string]interface{}) *DashboardStats {
	stats := &DashboardStats{}
	if v, ok := cached["client_count"].(float64); ok {
		stats.ClientCount = int(v)
	}
	if v, ok := cached["booking_count"].(float64); ok {
		stats.BookingCount = int(v)
	}
	if v, ok := cached["upcoming_bookings"].(float64); ok {
		stats.UpcomingBookings = int(v)
	}
	if v, ok := cached["outstanding_amount"].(float64); ok {
		stats.OutstandingAmount = v
	}
	if v, ok := cached["revenue_last_30_days"].(float64); ok {
		stats.RevenueLast30Days = v
	}
	if v, ok := cached["generated_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			stats.GeneratedAt = t
		}
	}
	return stats
}
