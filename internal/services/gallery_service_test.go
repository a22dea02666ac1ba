package services

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"shutterdesk/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MockGalleryRepository struct {
	mock.Mock
}

func (m *MockGalleryRepository) Create(ctx context.Context, gallery *models.Gallery) error {
	args := m.Called(ctx, gallery)
	return args.Error(0)
}

func (m *MockGalleryRepository) GetByID(ctx context.Context, userID, id uuid.UUID) (*models.Gallery, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) List(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*models.Gallery, error) {
	args := m.Called(ctx, userID, limit, offset)
	return args.Get(0).([]*models.Gallery), args.Error(1)
}

func (m *MockGalleryRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status string) error {
	args := m.Called(ctx, userID, id, status)
	return args.Error(0)
}

func (m *MockGalleryRepository) Delete(ctx context.Context, userID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockGalleryRepository) AddImage(ctx context.Context, image *models.GalleryImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockGalleryRepository) GetImage(ctx context.Context, userID, imageID uuid.UUID) (*models.GalleryImage, error) {
	args := m.Called(ctx, userID, imageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.GalleryImage), args.Error(1)
}

func (m *MockGalleryRepository) ListImages(ctx context.Context, userID, galleryID uuid.UUID) ([]*models.GalleryImage, error) {
	args := m.Called(ctx, userID, galleryID)
	return args.Get(0).([]*models.GalleryImage), args.Error(1)
}

func (m *MockGalleryRepository) DeleteImage(ctx context.Context, userID, imageID uuid.UUID) error {
	args := m.Called(ctx, userID, imageID)
	return args.Error(0)
}

type MockMinioService struct {
	mock.Mock
}

func (m *MockMinioService) UploadObject(ctx context.Context, bucketName, objectName, contentType string, reader io.Reader, objectSize int64) error {
	args := m.Called(ctx, bucketName, objectName, contentType, reader, objectSize)
	return args.Error(0)
}

func (m *MockMinioService) GetPresignedURL(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockMinioService) DeleteObject(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *MockMinioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	args := m.Called(ctx, bucketName)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetDashboard(ctx context.Context, userID uuid.UUID) (map[string]interface{}, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]interface{}), args.Error(1)
}

func (m *MockCacheService) SetDashboard(ctx context.Context, userID uuid.UUID, stats map[string]interface{}, ttl time.Duration) error {
	args := m.Called(ctx, userID, stats, ttl)
	return args.Error(0)
}

func (m *MockCacheService) InvalidateUserCache(ctx context.Context, userID uuid.UUID) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

func (m *MockCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	args := m.Called(ctx, key, limit, window)
	return args.Bool(0), args.Error(1)
}

func (m *MockCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	args := m.Called(ctx, key, value, ttl)
	return args.Error(0)
}

func (m *MockCacheService) GetString(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

func (m *MockCacheService) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

type GalleryServiceTestSuite struct {
	suite.Suite
	galleryRepo *MockGalleryRepository
	minioSvc    *MockMinioService
	svc         GalleryService
	userID      uuid.UUID
	galleryID   uuid.UUID
	ctx         context.Context
}

func (suite *GalleryServiceTestSuite) SetupTest() {
	suite.galleryRepo = new(MockGalleryRepository)
	suite.minioSvc = new(MockMinioService)
	suite.svc = NewGalleryService(suite.galleryRepo, suite.minioSvc, nil, "test-bucket")
	suite.userID = uuid.New()
	suite.galleryID = uuid.New()
	suite.ctx = context.Background()
}

func (suite *GalleryServiceTestSuite) ownGallery() {
	suite.galleryRepo.On("GetByID", suite.ctx, suite.userID, suite.galleryID).
		Return(&models.Gallery{ID: suite.galleryID, UserID: suite.userID, Name: "Wedding", Status: GalleryStatusDraft}, nil)
}

func (suite *GalleryServiceTestSuite) TestAddImageKeyIsScopedToOwner() {
	suite.ownGallery()
	suite.minioSvc.On("UploadObject", suite.ctx, "test-bucket",
		mock.MatchedBy(func(key string) bool {
			return strings.HasPrefix(key, suite.userID.String()+"/"+suite.galleryID.String()+"/") &&
				strings.HasSuffix(key, ".jpg")
		}),
		"image/jpeg", mock.Anything, int64(4)).Return(nil)
	suite.galleryRepo.On("AddImage", suite.ctx, mock.AnythingOfType("*models.GalleryImage")).Return(nil)

	image, err := suite.svc.AddImage(suite.ctx, suite.userID, suite.galleryID, "shot.jpg", "image/jpeg", strings.NewReader("data"), 4)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "shot.jpg", image.FileName)
	assert.Equal(suite.T(), suite.galleryID, image.GalleryID)
}

func (suite *GalleryServiceTestSuite) TestAddImageCleansUpObjectOnDBFailure() {
	suite.ownGallery()
	suite.minioSvc.On("UploadObject", suite.ctx, "test-bucket", mock.Anything, "image/jpeg", mock.Anything, int64(4)).
		Return(nil)
	suite.galleryRepo.On("AddImage", suite.ctx, mock.AnythingOfType("*models.GalleryImage")).
		Return(assert.AnError)
	suite.minioSvc.On("DeleteObject", suite.ctx, "test-bucket", mock.Anything).Return(nil)

	image, err := suite.svc.AddImage(suite.ctx, suite.userID, suite.galleryID, "shot.jpg", "image/jpeg", strings.NewReader("data"), 4)
	assert.Nil(suite.T(), image)
	assert.Error(suite.T(), err)
	suite.minioSvc.AssertCalled(suite.T(), "DeleteObject", suite.ctx, "test-bucket", mock.Anything)
}

func (suite *GalleryServiceTestSuite) TestAddImageRejectsForeignGallery() {
	suite.galleryRepo.On("GetByID", suite.ctx, suite.userID, suite.galleryID).
		Return(nil, assert.AnError)

	image, err := suite.svc.AddImage(suite.ctx, suite.userID, suite.galleryID, "shot.jpg", "image/jpeg", strings.NewReader("data"), 4)
	assert.Nil(suite.T(), image)
	assert.Error(suite.T(), err)
	suite.minioSvc.AssertNotCalled(suite.T(), "UploadObject",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GalleryServiceTestSuite) TestListImagesAttachesPresignedURLs() {
	images := []*models.GalleryImage{
		{ID: uuid.New(), GalleryID: suite.galleryID, UserID: suite.userID, ObjectKey: "k1", FileName: "a.jpg"},
		{ID: uuid.New(), GalleryID: suite.galleryID, UserID: suite.userID, ObjectKey: "k2", FileName: "b.jpg"},
	}
	suite.galleryRepo.On("ListImages", suite.ctx, suite.userID, suite.galleryID).Return(images, nil)
	suite.minioSvc.On("GetPresignedURL", suite.ctx, "test-bucket", "k1", presignedURLExpiry).
		Return("https://minio.local/k1?sig=1", nil)
	suite.minioSvc.On("GetPresignedURL", suite.ctx, "test-bucket", "k2", presignedURLExpiry).
		Return("https://minio.local/k2?sig=2", nil)

	views, err := suite.svc.ListImages(suite.ctx, suite.userID, suite.galleryID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), views, 2)
	assert.Equal(suite.T(), "https://minio.local/k1?sig=1", views[0].URL)
	assert.Equal(suite.T(), "https://minio.local/k2?sig=2", views[1].URL)
}

func (suite *GalleryServiceTestSuite) TestListImagesServesURLFromCache() {
	cache := new(MockCacheService)
	svc := NewGalleryService(suite.galleryRepo, suite.minioSvc, cache, "test-bucket")

	images := []*models.GalleryImage{
		{ID: uuid.New(), GalleryID: suite.galleryID, UserID: suite.userID, ObjectKey: "k1", FileName: "a.jpg"},
	}
	suite.galleryRepo.On("ListImages", suite.ctx, suite.userID, suite.galleryID).Return(images, nil)
	cache.On("GetString", suite.ctx, "gallery:url:k1").Return("https://minio.local/k1?sig=cached", nil)

	views, err := svc.ListImages(suite.ctx, suite.userID, suite.galleryID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), views, 1)
	assert.Equal(suite.T(), "https://minio.local/k1?sig=cached", views[0].URL)
	suite.minioSvc.AssertNotCalled(suite.T(), "GetPresignedURL", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *GalleryServiceTestSuite) TestListImagesCachesFreshURLOnMiss() {
	cache := new(MockCacheService)
	svc := NewGalleryService(suite.galleryRepo, suite.minioSvc, cache, "test-bucket")

	images := []*models.GalleryImage{
		{ID: uuid.New(), GalleryID: suite.galleryID, UserID: suite.userID, ObjectKey: "k1", FileName: "a.jpg"},
	}
	suite.galleryRepo.On("ListImages", suite.ctx, suite.userID, suite.galleryID).Return(images, nil)
	cache.On("GetString", suite.ctx, "gallery:url:k1").Return("", nil)
	suite.minioSvc.On("GetPresignedURL", suite.ctx, "test-bucket", "k1", presignedURLExpiry).
		Return("https://minio.local/k1?sig=fresh", nil)
	cache.On("SetString", suite.ctx, "gallery:url:k1", "https://minio.local/k1?sig=fresh", presignedURLCacheTTL).
		Return(nil)

	views, err := svc.ListImages(suite.ctx, suite.userID, suite.galleryID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), views, 1)
	assert.Equal(suite.T(), "https://minio.local/k1?sig=fresh", views[0].URL)
	cache.AssertExpectations(suite.T())
}

func (suite *GalleryServiceTestSuite) TestDeleteImageDropsCachedURL() {
	cache := new(MockCacheService)
	svc := NewGalleryService(suite.galleryRepo, suite.minioSvc, cache, "test-bucket")

	imageID := uuid.New()
	suite.galleryRepo.On("GetImage", suite.ctx, suite.userID, imageID).
		Return(&models.GalleryImage{ID: imageID, UserID: suite.userID, ObjectKey: "k1"}, nil)
	suite.minioSvc.On("DeleteObject", suite.ctx, "test-bucket", "k1").Return(nil)
	cache.On("Delete", suite.ctx, "gallery:url:k1").Return(nil)
	suite.galleryRepo.On("DeleteImage", suite.ctx, suite.userID, imageID).Return(nil)

	err := svc.DeleteImage(suite.ctx, suite.userID, imageID)
	require.NoError(suite.T(), err)
	cache.AssertExpectations(suite.T())
}

func TestGalleryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(GalleryServiceTestSuite))
}
