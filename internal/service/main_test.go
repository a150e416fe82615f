package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"nativore/internal/cache"
	"nativore/internal/models"
	"nativore/internal/observability"
	"nativore/internal/policy"
	"nativore/internal/repository"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// listingRepoStub is a stub for repository.ListingRepository.
type listingRepoStub struct {
	createFn          func(context.Context, *models.Listing) error
	getByIDFn         func(context.Context, uint) (*models.Listing, error)
	listFn            func(context.Context, repository.ListingFilter) ([]models.Listing, error)
	searchByNameFn    func(context.Context, string) ([]models.ListingSummary, error)
	citiesFn          func(context.Context) ([]models.CityCount, error)
	cuisinesFn        func(context.Context) ([]models.CuisineCount, error)
	inScopeFn         func(context.Context, repository.AnalysisScope) ([]models.Listing, error)
	updateFn          func(context.Context, *models.Listing, []string) error
	softDeleteFn      func(context.Context, uint) error
	recomputeFn       func(context.Context, uint) error
	recomputeAllFn    func(context.Context) (int64, error)
	inScopeCalls      int
	recomputeCalls    int
	lastUpdateColumns []string
}

func (s *listingRepoStub) Create(ctx context.Context, l *models.Listing) error {
	return s.createFn(ctx, l)
}
func (s *listingRepoStub) GetByID(ctx context.Context, id uint) (*models.Listing, error) {
	return s.getByIDFn(ctx, id)
}
func (s *listingRepoStub) List(ctx context.Context, f repository.ListingFilter) ([]models.Listing, error) {
	return s.listFn(ctx, f)
}
func (s *listingRepoStub) SearchByName(ctx context.Context, q string) ([]models.ListingSummary, error) {
	return s.searchByNameFn(ctx, q)
}
func (s *listingRepoStub) Cities(ctx context.Context) ([]models.CityCount, error) {
	return s.citiesFn(ctx)
}
func (s *listingRepoStub) Cuisines(ctx context.Context) ([]models.CuisineCount, error) {
	return s.cuisinesFn(ctx)
}
func (s *listingRepoStub) InScope(ctx context.Context, scope repository.AnalysisScope) ([]models.Listing, error) {
	s.inScopeCalls++
	return s.inScopeFn(ctx, scope)
}
func (s *listingRepoStub) Update(ctx context.Context, l *models.Listing, cols []string) error {
	s.lastUpdateColumns = cols
	return s.updateFn(ctx, l, cols)
}
func (s *listingRepoStub) SoftDelete(ctx context.Context, id uint) error {
	return s.softDeleteFn(ctx, id)
}
func (s *listingRepoStub) RecomputeRating(ctx context.Context, id uint) error {
	s.recomputeCalls++
	return s.recomputeFn(ctx, id)
}
func (s *listingRepoStub) RecomputeAllRatings(ctx context.Context) (int64, error) {
	return s.recomputeAllFn(ctx)
}

func noopListingRepo() *listingRepoStub {
	return &listingRepoStub{
		createFn: func(_ context.Context, l *models.Listing) error { l.ID = 1; return nil },
		getByIDFn: func(_ context.Context, id uint) (*models.Listing, error) {
			return &models.Listing{ID: id, Name: "Murugan Idli Shop", City: "Madurai", Area: "Anna Nagar",
				Cuisine: "South Indian", AvgPrice: 250, SpendingIndex: 1.2, IsActive: true}, nil
		},
		listFn:         func(_ context.Context, _ repository.ListingFilter) ([]models.Listing, error) { return nil, nil },
		searchByNameFn: func(_ context.Context, _ string) ([]models.ListingSummary, error) { return nil, nil },
		citiesFn:       func(_ context.Context) ([]models.CityCount, error) { return nil, nil },
		cuisinesFn:     func(_ context.Context) ([]models.CuisineCount, error) { return nil, nil },
		inScopeFn:      func(_ context.Context, _ repository.AnalysisScope) ([]models.Listing, error) { return nil, nil },
		updateFn:       func(_ context.Context, _ *models.Listing, _ []string) error { return nil },
		softDeleteFn:   func(_ context.Context, _ uint) error { return nil },
		recomputeFn:    func(_ context.Context, _ uint) error { return nil },
		recomputeAllFn: func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// reviewRepoStub is a stub for repository.ReviewRepository.
type reviewRepoStub struct {
	createFn        func(context.Context, *models.Review) error
	listByListingFn func(context.Context, uint, int, int) ([]models.Review, error)
	countFn         func(context.Context) (int64, error)
}

func (s *reviewRepoStub) Create(ctx context.Context, r *models.Review) error {
	return s.createFn(ctx, r)
}
func (s *reviewRepoStub) ListByListing(ctx context.Context, listingID uint, offset, limit int) ([]models.Review, error) {
	return s.listByListingFn(ctx, listingID, offset, limit)
}
func (s *reviewRepoStub) Count(ctx context.Context) (int64, error) {
	return s.countFn(ctx)
}

func noopReviewRepo() *reviewRepoStub {
	return &reviewRepoStub{
		createFn:        func(_ context.Context, r *models.Review) error { r.ID = 1; return nil },
		listByListingFn: func(_ context.Context, _ uint, _, _ int) ([]models.Review, error) { return nil, nil },
		countFn:         func(_ context.Context) (int64, error) { return 0, nil },
	}
}

// userRepoStub is an in-memory repository.UserRepository.
type userRepoStub struct {
	users  map[uint]*models.User
	nextID uint
	delErr error
}

func newUserRepoStub() *userRepoStub {
	return &userRepoStub{users: map[uint]*models.User{}, nextID: 1}
}

func (s *userRepoStub) GetByID(_ context.Context, id uint) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, models.NewNotFoundError("User", id)
}
func (s *userRepoStub) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}
func (s *userRepoStub) GetByUsername(_ context.Context, username string) (*models.User, error) {
	for _, u := range s.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, nil
}
func (s *userRepoStub) Create(_ context.Context, u *models.User) error {
	u.ID = s.nextID
	s.nextID++
	s.users[u.ID] = u
	return nil
}
func (s *userRepoStub) Delete(_ context.Context, id uint) error {
	if s.delErr != nil {
		return s.delErr
	}
	if _, ok := s.users[id]; !ok {
		return models.NewNotFoundError("User", id)
	}
	delete(s.users, id)
	return nil
}

var (
	adminActor = &policy.Actor{ID: 1, Role: models.RoleAdmin, Active: true}
	userActor  = &policy.Actor{ID: 2, Role: models.RoleUser, Active: true}
)

func discardAudit() *observability.AuditLogger {
	return observability.NewAuditLoggerWithHandler("listing", slog.NewTextHandler(io.Discard, nil))
}

// useMiniredis points the cache package at a fresh miniredis for one test.
func useMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	cache.SetClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { cache.SetClient(nil) })
	return mr
}

func assertAppErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var appErr *models.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %T: %v", err, err)
	assert.Equal(t, code, appErr.Code)
}

func ptr[T any](v T) *T { return &v }
