// media.go implements photo and attachment upload endpoints backed by the
// configured storage backend (local filesystem or S3-compatible).
package admin

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/taman-kehati/taman-kehati/internal/storage"
)

// Max accepted upload size (10MB). Park photos are resized client-side;
// anything larger is almost certainly a mistake.
const maxMediaSize = 10 << 20

// allowedMediaExtensions lists the file extensions accepted for upload.
var allowedMediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".webp": true,
	".pdf":  true,
}

// MediaHandlers handles media upload and serving endpoints
type MediaHandlers struct {
	backend storage.Storage
}

// NewMediaHandlers creates a new MediaHandlers instance
func NewMediaHandlers(backend storage.Storage) *MediaHandlers {
	return &MediaHandlers{backend: backend}
}

// @Summary      Upload a media file
// @Description  Upload a photo or document for use on parks, species, or articles. Accepts jpg, jpeg, png, webp, and pdf up to 10MB. Returns the storage path and a serving URL.
// @Tags         Media
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        folder  formData  string  false  "Target folder (parks, species, articles)"
// @Param        file    formData  file    true   "File to upload"
// @Success      201  {object}  map[string]interface{}  "path, url, size, checksum"
// @Failure      400  {object}  map[string]interface{}  "Missing file, unsupported type, or too large"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/admin/media [post]
// UploadMediaHandler stores an uploaded file under a generated name
func (h *MediaHandlers) UploadMediaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := c.Request.ParseMultipartForm(maxMediaSize); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Failed to parse multipart form",
			})
			return
		}

		folder := c.PostForm("folder")
		switch folder {
		case "", "parks", "species", "articles":
			if folder == "" {
				folder = "misc"
			}
		default:
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Folder must be parks, species, or articles",
			})
			return
		}

		file, header, err := c.Request.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Missing or invalid file upload",
			})
			return
		}
		defer file.Close()

		ext := strings.ToLower(path.Ext(header.Filename))
		if !allowedMediaExtensions[ext] {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("Unsupported file type: %s", ext),
			})
			return
		}

		fileBuffer := &bytes.Buffer{}
		size, err := io.Copy(fileBuffer, io.LimitReader(file, maxMediaSize+1))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to read uploaded file",
			})
			return
		}
		if size > maxMediaSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "File exceeds the 10MB limit",
			})
			return
		}

		storagePath := fmt.Sprintf("%s/%s%s", folder, uuid.New().String(), ext)

		result, err := h.backend.Upload(c.Request.Context(), storagePath, bytes.NewReader(fileBuffer.Bytes()), size)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to store file",
			})
			return
		}

		url, err := h.backend.GetURL(c.Request.Context(), result.Path, 1*time.Hour)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to build file URL",
			})
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"path":     result.Path,
			"url":      url,
			"size":     result.Size,
			"checksum": result.Checksum,
		})
	}
}

// @Summary      Delete a media file
// @Description  Remove a previously uploaded file from storage.
// @Tags         Media
// @Security     Bearer
// @Produce      json
// @Param        path  query  string  true  "Storage path returned by the upload endpoint"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}  "Missing path"
// @Failure      500  {object}  map[string]interface{}  "Internal server error"
// @Router       /api/v1/admin/media [delete]
// DeleteMediaHandler removes a stored file
func (h *MediaHandlers) DeleteMediaHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		storagePath := c.Query("path")
		if storagePath == "" {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Missing path parameter",
			})
			return
		}

		if err := h.backend.Delete(c.Request.Context(), storagePath); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": "Failed to delete file",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
	}
}
