package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IA-PieroCV/Project-Thalassa/internal/domain"
	"github.com/IA-PieroCV/Project-Thalassa/internal/results"
	"github.com/IA-PieroCV/Project-Thalassa/internal/upload"
)

// UploadResponse is the response body for a successful file upload
type UploadResponse struct {
	Message  string                 `json:"message"`
	Filename string                 `json:"filename"`
	FilePath string                 `json:"file_path"`
	Metadata *domain.UploadMetadata `json:"metadata"`
}

// FileListResponse is the response body for the upload listing endpoint
type FileListResponse struct {
	Files      []domain.UploadedFileInfo `json:"files"`
	TotalCount int                       `json:"total_count"`
}

// handleUpload accepts a multipart fastq file upload. The file must
// follow the naming convention PartnerID_CageID_YYYY-MM-DD_SampleID.fastq.
func (s *Server) handleUpload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "multipart file field 'file' is required"})
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "unable to read uploaded file"})
		return
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "unable to read uploaded file"})
		return
	}

	path, metadata, err := s.uploadService.SaveFile(fileHeader.Filename, content)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"detail": verr.Message})
		case errors.Is(err, upload.ErrFileExists):
			c.JSON(http.StatusConflict, gin.H{"detail": err.Error()})
		default:
			s.logger.WithError(err).Error("Unexpected error during file upload")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "unexpected error during file upload"})
		}
		return
	}

	c.JSON(http.StatusOK, UploadResponse{
		Message:  "File uploaded successfully",
		Filename: fileHeader.Filename,
		FilePath: path,
		Metadata: metadata,
	})
}

// handleListFiles lists all stored uploads with their metadata
func (s *Server) handleListFiles(c *gin.Context) {
	files, err := s.uploadService.ListFiles()
	if err != nil {
		s.logger.WithError(err).Error("Error retrieving file list")
		c.JSON(http.StatusInternalServerError, gin.H{"detail": "error retrieving file list"})
		return
	}

	c.JSON(http.StatusOK, FileListResponse{
		Files:      files,
		TotalCount: len(files),
	})
}

// handleUploadHealth reports upload service health
func (s *Server) handleUploadHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service":          "upload",
		"upload_directory": s.uploadService.UploadDir(),
	})
}

// handleResults serves the most recent aggregated risk results.
// The history store is preferred; the results.json written by the
// batch generator is the fallback when no store is configured.
func (s *Server) handleResults(c *gin.Context) {
	if s.store != nil {
		entries, err := s.store.LatestByCage(c.Request.Context())
		if err != nil {
			s.logger.WithError(err).Error("Error reading analysis history")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "error retrieving results"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"results": entries, "total_count": len(entries)})
		return
	}

	storage := s.configManager.GetStorageConfig()
	entries, err := results.ReadResultsJSON(storage.ResultsDir + "/results.json")
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"results": []domain.CageResult{}, "total_count": 0})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": entries, "total_count": len(entries)})
}

// handleDashboard serves the partner dashboard interface.
// Requires Bearer token authentication.
func (s *Server) handleDashboard(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(dashboardHTML))
}

// handleDashboardHealth reports dashboard service health
func (s *Server) handleDashboardHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "dashboard",
	})
}

// TODO: replace with template rendering once the dashboard UI lands.
const dashboardHTML = `<html>
    <head>
        <title>Project Thalassa - Dashboard</title>
    </head>
    <body>
        <h1>Project Thalassa Dashboard</h1>
        <p>Dashboard functionality coming soon...</p>
        <p>Authentication successful!</p>
    </body>
</html>`
