package handlers

import (
	"net/http"
	"strconv"

	"shutterdesk/internal/common"
	"shutterdesk/internal/services"

	"github.com/labstack/echo/v4"
)

// maxImageUploadBytes caps a single upload at 50 MB.
const maxImageUploadBytes = 50 << 20

type GalleryHandlers struct {
	galleryService services.GalleryService
}

func NewGalleryHandlers(galleryService services.GalleryService) *GalleryHandlers {
	return &GalleryHandlers{galleryService: galleryService}
}

func (h *GalleryHandlers) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	var req services.CreateGalleryRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	gallery, err := h.galleryService.Create(ctx, userID, &req)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, gallery)
}

func (h *GalleryHandlers) Get(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	galleryID, err := common.ValidateUUID(c.Param("id"), "gallery id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	gallery, err := h.galleryService.GetByID(ctx, userID, galleryID)
	if err != nil {
		return common.SendNotFoundError(c, "Gallery")
	}

	return c.JSON(http.StatusOK, gallery)
}

func (h *GalleryHandlers) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	limit, offset = common.ValidatePaginationParams(limit, offset)

	galleries, err := h.galleryService.List(ctx, userID, limit, offset)
	if err != nil {
		return common.SendServerError(c, "Failed to list galleries")
	}

	return c.JSON(http.StatusOK, galleries)
}

func (h *GalleryHandlers) Publish(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	galleryID, err := common.ValidateUUID(c.Param("id"), "gallery id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.galleryService.Publish(ctx, userID, galleryID); err != nil {
		return common.SendNotFoundError(c, "Gallery")
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *GalleryHandlers) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	galleryID, err := common.ValidateUUID(c.Param("id"), "gallery id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	if err := h.galleryService.Delete(ctx, userID, galleryID); err != nil {
		return common.SendServerError(c, "Failed to delete gallery")
	}

	return c.NoContent(http.StatusNoContent)
}

// UploadImage accepts a multipart form with a "file" part and stores it in
// the object store under the caller's prefix.
func (h *GalleryHandlers) UploadImage(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	galleryID, err := common.ValidateUUID(c.Param("id"), "gallery id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return common.SendValidationError(c, "file", "A file upload is required")
	}
	if fileHeader.Size > maxImageUploadBytes {
		return common.SendValidationError(c, "file", "File exceeds the 50MB upload limit")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return common.SendServerError(c, "Failed to read upload")
	}
	defer src.Close()

	contentType := fileHeader.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	image, err := h.galleryService.AddImage(ctx, userID, galleryID, fileHeader.Filename, contentType, src, fileHeader.Size)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	return c.JSON(http.StatusCreated, image)
}

// ListImages returns the gallery's images with presigned download URLs.
func (h *GalleryHandlers) ListImages(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	galleryID, err := common.ValidateUUID(c.Param("id"), "gallery id")
	if err != nil {
		return common.SendValidationError(c, "id", err.Error())
	}

	images, err := h.galleryService.ListImages(ctx, userID, galleryID)
	if err != nil {
		return common.SendServerError(c, "Failed to list images")
	}

	return c.JSON(http.StatusOK, images)
}

func (h *GalleryHandlers) DeleteImage(c echo.Context) error {
	ctx := c.Request().Context()

	userID, ok := common.GetUserIDFromContext(ctx)
	if !ok {
		return common.SendUnauthorizedError(c, "")
	}

	imageID, err := common.ValidateUUID(c.Param("imageId"), "image id")
	if err != nil {
		return common.SendValidationError(c, "imageId", err.Error())
	}

	if err := h.galleryService.DeleteImage(ctx, userID, imageID); err != nil {
		return common.SendNotFoundError(c, "Image")
	}

	return c.NoContent(http.StatusNoContent)
}
