package handlers

import (
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quickdesk/quickdesk/internal/common"
	"github.com/quickdesk/quickdesk/internal/extract"
	"github.com/quickdesk/quickdesk/internal/faq"
)

// UploadFAQ handles POST /api/upload/faq: save the multipart file to a temp
// path, extract its text, store the document plus parsed entries, then
// remove the temp artifact.
func (h *Handler) UploadFAQ(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		common.Fail(c, http.StatusBadRequest, "No file uploaded.")
		return
	}
	if !extract.Allowed(file.Filename) {
		common.Fail(c, http.StatusBadRequest, "Unsupported file type.")
		return
	}

	dir := h.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	tmpPath := filepath.Join(dir, uuid.NewString()+filepath.Ext(file.Filename))
	if err := c.SaveUploadedFile(file, tmpPath); err != nil {
		log.Printf("[upload] save %s: %v", file.Filename, err)
		common.Fail(c, http.StatusInternalServerError, "Error uploading file.")
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			log.Printf("[upload] cleanup %s: %v", tmpPath, err)
		}
	}()

	content, err := extract.Text(tmpPath, file.Filename)
	if err != nil {
		log.Printf("[upload] extract %s: %v", file.Filename, err)
		common.Fail(c, http.StatusInternalServerError, "Error uploading file.")
		return
	}

	doc := &faq.Document{Filename: file.Filename, Content: content}
	if err := h.FaqRepo.CreateDocument(c.Request.Context(), doc, faq.ParseEntries(content)); err != nil {
		log.Printf("[upload] store %s: %v", file.Filename, err)
		common.Fail(c, http.StatusInternalServerError, "Error uploading file.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File uploaded and processed successfully."})
}
