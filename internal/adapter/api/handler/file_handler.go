package handler

import (
	"fmt"
	"strings"

	"github.com/labstack/echo/v4"

	"tukarlapak/internal/infrastructure/storage"
	"tukarlapak/pkg/errors"
	"tukarlapak/pkg/logger"
	"tukarlapak/pkg/response"
)

type FileHandler struct {
	storageClient *storage.CloudStorageClient
	maxFileSize   int64
}

var fileHandler *FileHandler

func NewFileHandler(storageClient *storage.CloudStorageClient) *FileHandler {
	return &FileHandler{
		storageClient: storageClient,
		maxFileSize:   5 * 1024 * 1024,
	}
}

func SetupFileHandler(storageClient *storage.CloudStorageClient) {
	fileHandler = NewFileHandler(storageClient)
}

func GetFileHandler() *FileHandler {
	return fileHandler
}

var allowedFolders = map[string]bool{
	"listings": true,
	"chat":     true,
	"avatars":  true,
	"proofs":   true,
}

func isAllowedFileType(contentType string) bool {
	switch contentType {
	case "image/jpeg", "image/png", "image/webp", "image/gif":
		return true
	}
	return false
}

func (h *FileHandler) UploadFile(c echo.Context) error {
	file, err := c.FormFile("file")
	if err != nil {
		return response.Error(c, errors.BadRequest("Missing or invalid file", err))
	}

	logger.Debug("Upload: %s, %d bytes, %s", file.Filename, file.Size, file.Header.Get("Content-Type"))

	if file.Size > h.maxFileSize {
		return response.Error(c, errors.BadRequest(fmt.Sprintf("File size exceeds maximum allowed (%dMB)", h.maxFileSize/(1024*1024)), nil))
	}

	contentType := file.Header.Get("Content-Type")
	if !isAllowedFileType(contentType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	folder := strings.ToLower(c.FormValue("folder"))
	if folder == "" {
		folder = "listings"
	}
	if !allowedFolders[folder] {
		return response.Error(c, errors.BadRequest("Unknown upload folder", nil))
	}

	src, err := file.Open()
	if err != nil {
		return response.Error(c, errors.Internal("Failed to read uploaded file", err))
	}
	defer src.Close()

	url, err := h.storageClient.UploadFile(c.Request().Context(), src, contentType, folder)
	if err != nil {
		logger.Error("Upload to storage failed: %v", err)
		return response.Error(c, errors.Internal("Failed to store file", err))
	}

	return response.Created(c, map[string]string{
		"url": url,
	})
}

// SignedUploadURL hands the client a short-lived PUT URL so large images
// skip the API server entirely.
func (h *FileHandler) SignedUploadURL(c echo.Context) error {
	contentType := c.QueryParam("content_type")
	if !isAllowedFileType(contentType) {
		return response.Error(c, errors.BadRequest("File type not supported", nil))
	}

	folder := strings.ToLower(c.QueryParam("folder"))
	if !allowedFolders[folder] {
		return response.Error(c, errors.BadRequest("Unknown upload folder", nil))
	}

	url, err := h.storageClient.GenerateSignedUploadURL(c.Request().Context(), contentType, folder)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to generate upload URL", err))
	}

	return response.Success(c, map[string]string{
		"upload_url": url,
	})
}

func (h *FileHandler) DeleteFile(c echo.Context) error {
	var req struct {
		URL string `json:"url" validate:"required,url"`
	}
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	if err := h.storageClient.DeleteFile(c.Request().Context(), req.URL); err != nil {
		return response.Error(c, errors.Internal("Failed to delete file", err))
	}

	return response.Success(c, map[string]string{
		"message": "File deleted",
	})
}
