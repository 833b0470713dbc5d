package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/MAHIRE-7/drive-clone/internal/events"
	"github.com/MAHIRE-7/drive-clone/internal/kafka"
	"github.com/MAHIRE-7/drive-clone/internal/models"
	"github.com/MAHIRE-7/drive-clone/internal/storage"
	"github.com/MAHIRE-7/drive-clone/pkg/redisclient"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FileHandler struct {
	db       *gorm.DB
	store    *storage.DiskStore
	cache    *redisclient.DriveCache
	producer *kafka.Producer
}

func NewFileHandler(db *gorm.DB, store *storage.DiskStore, cache *redisclient.DriveCache, producer *kafka.Producer) *FileHandler {
	return &FileHandler{db: db, store: store, cache: cache, producer: producer}
}

// UploadFile stores the blob, creates the record and charges the owner's
// storage counter.
func (h *FileHandler) UploadFile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	ownerID := userID.(uuid.UUID)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	var folderID *uuid.UUID
	if folderIDStr := c.PostForm("folderId"); folderIDStr != "" {
		parsed, err := uuid.Parse(folderIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
			return
		}
		folderID = &parsed
	}

	src, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read uploaded file"})
		return
	}
	defer src.Close()

	name, path, size, err := h.store.Save(src, fileHeader.Filename)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to store file"})
		return
	}

	file := models.File{
		Name:         name,
		OriginalName: fileHeader.Filename,
		Path:         path,
		Size:         size,
		MimeType:     fileHeader.Header.Get("Content-Type"),
		OwnerID:      ownerID,
		FolderID:     folderID,
	}

	if err := h.db.Create(&file).Error; err != nil {
		// The blob is already on disk; remove it so a failed insert
		// does not leave an orphan behind.
		h.store.Remove(path)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create file"})
		return
	}

	// Single SQL expression, so concurrent uploads cannot lose updates.
	if err := h.db.Model(&models.User{}).Where("id = ?", ownerID).
		UpdateColumn("storage_used", gorm.Expr("storage_used + ?", size)).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update storage usage"})
		return
	}

	file.SharedWith = []uuid.UUID{}

	h.publishActivity(c, events.NewActivityEvent(events.FileUploaded, "file", file.ID, file.OriginalName, ownerID))
	if h.cache != nil {
		h.cache.TouchRecentFile(c.Request.Context(), ownerID, file.ID)
	}

	c.JSON(http.StatusCreated, file)
}

// GetFiles lists the caller's files in a folder (root when folderId is empty)
func (h *FileHandler) GetFiles(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	query := h.db.Where("owner_id = ?", currentUserID)
	if folderIDStr := c.Query("folderId"); folderIDStr != "" {
		folderID, err := uuid.Parse(folderIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
			return
		}
		query = query.Where("folder_id = ?", folderID)
	} else {
		query = query.Where("folder_id IS NULL")
	}

	var files []models.File
	if err := query.Order("created_at desc").Find(&files).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch files"})
		return
	}

	h.attachFileShares(files)

	c.JSON(http.StatusOK, files)
}

// GetSharedFiles lists files shared with the caller, across all folders
func (h *FileHandler) GetSharedFiles(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	var files []models.File
	err := h.db.
		Joins("JOIN file_shares ON file_shares.file_id = files.id").
		Where("file_shares.user_id = ?", currentUserID).
		Preload("Owner").
		Find(&files).Error
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch shared files"})
		return
	}

	h.attachFileShares(files)

	c.JSON(http.StatusOK, files)
}

// DownloadFile streams the blob to owners and shared users. Anyone else
// gets the same 404 as for a missing file, so existence leaks nothing.
func (h *FileHandler) DownloadFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	var file models.File
	if err := h.db.First(&file, "id = ?", fileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if !h.canReadFile(currentUserID, &file) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if h.cache != nil {
		h.cache.TouchRecentFile(c.Request.Context(), currentUserID, file.ID)
	}

	c.FileAttachment(file.Path, file.OriginalName)
}

// DeleteFile removes blob, record and share rows, and refunds the owner's
// storage counter. Owner only; non-owners get 404.
func (h *FileHandler) DeleteFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	var file models.File
	if err := h.db.First(&file, "id = ? AND owner_id = ?", fileID, currentUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	// Collected before the rows go away, to clean per-user caches after.
	// Cleanup is best-effort, so a failed lookup only narrows it to the owner.
	var shares []models.FileShare
	if err := h.db.Where("file_id = ?", fileID).Find(&shares).Error; err != nil {
		log.Printf("Failed to collect shares for file %s: %v", fileID, err)
	}

	if err := h.store.Remove(file.Path); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete file from storage"})
		return
	}

	tx := h.db.Begin()

	if err := tx.Model(&models.User{}).Where("id = ?", file.OwnerID).
		UpdateColumn("storage_used", gorm.Expr("storage_used - ?", file.Size)).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to update storage usage"})
		return
	}

	if err := tx.Where("file_id = ?", fileID).Delete(&models.FileShare{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete file shares"})
		return
	}

	if err := tx.Delete(&file).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete file"})
		return
	}

	tx.Commit()

	if h.cache != nil {
		affected := []uuid.UUID{file.OwnerID}
		for _, share := range shares {
			affected = append(affected, share.UserID)
		}
		h.cache.RemoveStarsForFile(c.Request.Context(), affected, file.ID)
	}

	h.publishActivity(c, events.NewActivityEvent(events.FileDeleted, "file", file.ID, file.OriginalName, currentUserID))

	c.JSON(http.StatusOK, gin.H{"message": "File deleted"})
}

// ShareFile grants another user, looked up by email, read access.
// Re-sharing with the same user is a no-op.
func (h *FileHandler) ShareFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	var file models.File
	if err := h.db.First(&file, "id = ? AND owner_id = ?", fileID, currentUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	var req struct {
		Email string `json:"email" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var targetUser models.User
	if err := h.db.First(&targetUser, "email = ?", req.Email).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	var existingShare models.FileShare
	err = h.db.First(&existingShare, "file_id = ? AND user_id = ?", fileID, targetUser.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		share := models.FileShare{
			FileID: fileID,
			UserID: targetUser.ID,
		}
		if err := h.db.Create(&share).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to share file"})
			return
		}

		h.publishActivity(c, events.NewSharingEvent(events.FileShared, "file", file.ID, file.OriginalName, currentUserID, targetUser.ID))
	} else if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to share file"})
		return
	}

	files := []models.File{file}
	h.attachFileShares(files)

	c.JSON(http.StatusOK, files[0])
}

// StarFile marks a readable file as starred for the caller
func (h *FileHandler) StarFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	var file models.File
	if err := h.db.First(&file, "id = ?", fileID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if !h.canReadFile(currentUserID, &file) {
		c.JSON(http.StatusNotFound, gin.H{"error": "File not found"})
		return
	}

	if h.cache == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Starred files unavailable"})
		return
	}

	if err := h.cache.StarFile(c.Request.Context(), currentUserID, file.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to star file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File starred"})
}

// UnstarFile removes the caller's star from a file
func (h *FileHandler) UnstarFile(c *gin.Context) {
	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid file ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	if h.cache == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Starred files unavailable"})
		return
	}

	if err := h.cache.UnstarFile(c.Request.Context(), currentUserID, fileID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unstar file"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "File unstarred"})
}

// GetStarredFiles resolves the caller's starred ids to records they can
// still read; stars on files gone or unshared since are skipped.
func (h *FileHandler) GetStarredFiles(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	if h.cache == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Starred files unavailable"})
		return
	}

	ids, err := h.cache.GetStarredFiles(c.Request.Context(), currentUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch starred files"})
		return
	}

	files := h.readableFilesByID(currentUserID, ids)
	h.attachFileShares(files)

	c.JSON(http.StatusOK, files)
}

// GetRecentFiles returns the caller's recently uploaded/downloaded files,
// newest first.
func (h *FileHandler) GetRecentFiles(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	if h.cache == nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Recent files unavailable"})
		return
	}

	ids, err := h.cache.GetRecentFiles(c.Request.Context(), currentUserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent files"})
		return
	}

	files := h.readableFilesByID(currentUserID, ids)
	h.attachFileShares(files)

	c.JSON(http.StatusOK, files)
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// canReadFile is the read predicate: owner or member of the share set.
func (h *FileHandler) canReadFile(userID uuid.UUID, file *models.File) bool {
	if file.OwnerID == userID {
		return true
	}

	var share models.FileShare
	if err := h.db.First(&share, "file_id = ? AND user_id = ?", file.ID, userID).Error; err == nil {
		return true
	}

	return false
}

// readableFilesByID loads records for ids, keeping the input order and
// dropping anything the user may no longer read.
func (h *FileHandler) readableFilesByID(userID uuid.UUID, ids []uuid.UUID) []models.File {
	files := make([]models.File, 0, len(ids))
	for _, id := range ids {
		var file models.File
		if err := h.db.First(&file, "id = ?", id).Error; err != nil {
			continue
		}
		if !h.canReadFile(userID, &file) {
			continue
		}
		files = append(files, file)
	}
	return files
}

// attachFileShares fills SharedWith on each file from its share rows
func (h *FileHandler) attachFileShares(files []models.File) {
	for i := range files {
		var shares []models.FileShare
		files[i].SharedWith = []uuid.UUID{}
		if err := h.db.Where("file_id = ?", files[i].ID).Find(&shares).Error; err != nil {
			continue
		}
		for _, share := range shares {
			files[i].SharedWith = append(files[i].SharedWith, share.UserID)
		}
	}
}

func (h *FileHandler) publishActivity(c *gin.Context, event *events.ActivityEvent) {
	if h.producer == nil {
		return
	}
	h.producer.PublishActivityEvent(c.Request.Context(), event)
}
