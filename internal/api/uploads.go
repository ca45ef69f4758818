package api

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxUploadBytes = 8 << 20

// handleUpload stores a multipart file and returns its public URL for
// use as a poster or attachment.
func (s *Server) handleUpload(c *gin.Context) {
	if _, ok := principal(c); !ok {
		return
	}
	if s.uploads == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
		return
	}
	defer file.Close()

	if header.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "read failed"})
		return
	}
	if len(data) > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return
	}

	url, err := s.uploads.Upload(c.Request.Context(), data, header.Filename)
	if err != nil {
		s.log.Warn().Err(err).Str("filename", header.Filename).Msg("upload failed")
		c.JSON(http.StatusBadGateway, gin.H{"error": "upload failed"})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"url": url})
}
