package main

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"receiptscan/pkg/ocr"
	"receiptscan/pkg/receipt"
)

func setupRoutes(r *gin.Engine, engine ocr.Engine) {
	r.GET("/healthz", healthHandler)
	r.POST("/parse", parseTextHandler)
	r.POST("/scan", scanImageHandler(engine))
}

func healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

type parseRequest struct {
	Text    string   `json:"text" binding:"required"`
	Regions []string `json:"regions"`
}

// parseTextHandler parses already-recognized text, optionally with region
// hints describing the layout order of the submitted lines.
func parseTextHandler(c *gin.Context) {
	var req parseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text field is required"})
		return
	}
	var regions []receipt.Region
	for _, s := range req.Regions {
		regions = append(regions, receipt.ParseRegion(s))
	}
	respondOutcome(c, receipt.Parse(req.Text, regions))
}

// scanImageHandler accepts a multipart image upload, runs OCR on it and
// parses the recognized text. The upload is staged in a temp dir that is
// removed once the response is written.
func scanImageHandler(engine ocr.Engine) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing file field"})
			return
		}
		tmpDir, err := os.MkdirTemp("", "receiptscan-upload-")
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not stage upload"})
			return
		}
		defer os.RemoveAll(tmpDir)

		dst := filepath.Join(tmpDir, filepath.Base(file.Filename))
		if err := c.SaveUploadedFile(file, dst); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save upload"})
			return
		}
		text, err := engine.Recognize(dst)
		if err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		respondOutcome(c, receipt.Parse(text, nil))
	}
}

// respondOutcome maps the three parse outcomes onto HTTP. Success and
// Partial both return 200 with the record; only Failure is an error code
// since the input itself was unusable.
func respondOutcome(c *gin.Context, out receipt.Outcome) {
	switch v := out.(type) {
	case receipt.Success:
		c.JSON(http.StatusOK, gin.H{
			"status":     "success",
			"receipt":    v.Receipt,
			"confidence": receipt.Score(v.Receipt),
		})
	case receipt.Partial:
		c.JSON(http.StatusOK, gin.H{
			"status":     "partial_success",
			"receipt":    v.Receipt,
			"warnings":   v.Warnings,
			"confidence": receipt.Score(v.Receipt),
		})
	case receipt.Failure:
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"status": "failure",
			"reason": v.Reason,
		})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "unknown outcome"})
	}
}
