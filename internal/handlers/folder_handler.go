package handlers

import (
	"errors"
	"net/http"

	"github.com/MAHIRE-7/drive-clone/internal/events"
	"github.com/MAHIRE-7/drive-clone/internal/kafka"
	"github.com/MAHIRE-7/drive-clone/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FolderHandler struct {
	db       *gorm.DB
	producer *kafka.Producer
}

func NewFolderHandler(db *gorm.DB, producer *kafka.Producer) *FolderHandler {
	return &FolderHandler{db: db, producer: producer}
}

// CreateFolder creates a folder for the caller, optionally under a parent.
// Sibling names are not required to be unique.
func (h *FolderHandler) CreateFolder(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	ownerID := userID.(uuid.UUID)

	var req struct {
		Name     string `json:"name" binding:"required"`
		ParentID string `json:"parentId"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var parentID *uuid.UUID
	if req.ParentID != "" {
		parsed, err := uuid.Parse(req.ParentID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent ID"})
			return
		}
		parentID = &parsed
	}

	folder := models.Folder{
		Name:     req.Name,
		OwnerID:  ownerID,
		ParentID: parentID,
	}

	if err := h.db.Create(&folder).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to create folder"})
		return
	}

	folder.SharedWith = []uuid.UUID{}

	h.publishActivity(c, events.NewActivityEvent(events.FolderCreated, "folder", folder.ID, folder.Name, ownerID))

	c.JSON(http.StatusCreated, folder)
}

// GetFolders lists the caller's folders under a parent (root when empty)
func (h *FolderHandler) GetFolders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	query := h.db.Where("owner_id = ?", currentUserID)
	if parentIDStr := c.Query("parentId"); parentIDStr != "" {
		parentID, err := uuid.Parse(parentIDStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid parent ID"})
			return
		}
		query = query.Where("parent_id = ?", parentID)
	} else {
		query = query.Where("parent_id IS NULL")
	}

	var folders []models.Folder
	if err := query.Order("created_at desc").Find(&folders).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch folders"})
		return
	}

	h.attachFolderShares(folders)

	c.JSON(http.StatusOK, folders)
}

// GetSharedFolders lists folders shared with the caller, flat
func (h *FolderHandler) GetSharedFolders(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	var folders []models.Folder
	err := h.db.
		Joins("JOIN folder_shares ON folder_shares.folder_id = folders.id").
		Where("folder_shares.user_id = ?", currentUserID).
		Find(&folders).Error
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to fetch shared folders"})
		return
	}

	h.attachFolderShares(folders)

	c.JSON(http.StatusOK, folders)
}

// DeleteFolder removes a folder. Owner only; non-owners get 404.
// Children and contained files are left in place with their parent
// reference intact; only the folder's own share rows go with it.
func (h *FolderHandler) DeleteFolder(c *gin.Context) {
	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	var folder models.Folder
	if err := h.db.First(&folder, "id = ? AND owner_id = ?", folderID, currentUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
		return
	}

	tx := h.db.Begin()

	if err := tx.Where("folder_id = ?", folderID).Delete(&models.FolderShare{}).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete folder shares"})
		return
	}

	if err := tx.Delete(&folder).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to delete folder"})
		return
	}

	tx.Commit()

	h.publishActivity(c, events.NewActivityEvent(events.FolderDeleted, "folder", folder.ID, folder.Name, currentUserID))

	c.JSON(http.StatusOK, gin.H{"message": "Folder deleted"})
}

// ShareFolder grants another user, looked up by email, read access.
// Re-sharing with the same user is a no-op.
func (h *FolderHandler) ShareFolder(c *gin.Context) {
	folderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid folder ID"})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found"})
		return
	}

	currentUserID := userID.(uuid.UUID)

	var folder models.Folder
	if err := h.db.First(&folder, "id = ? AND owner_id = ?", folderID, currentUserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Folder not found"})
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

	var existingShare models.FolderShare
	err = h.db.First(&existingShare, "folder_id = ? AND user_id = ?", folderID, targetUser.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		share := models.FolderShare{
			FolderID: folderID,
			UserID:   targetUser.ID,
		}
		if err := h.db.Create(&share).Error; err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to share folder"})
			return
		}

		h.publishActivity(c, events.NewSharingEvent(events.FolderShared, "folder", folder.ID, folder.Name, currentUserID, targetUser.ID))
	} else if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to share folder"})
		return
	}

	folders := []models.Folder{folder}
	h.attachFolderShares(folders)

	c.JSON(http.StatusOK, folders[0])
}

// attachFolderShares fills SharedWith on each folder from its share rows
func (h *FolderHandler) attachFolderShares(folders []models.Folder) {
	for i := range folders {
		var shares []models.FolderShare
		folders[i].SharedWith = []uuid.UUID{}
		if err := h.db.Where("folder_id = ?", folders[i].ID).Find(&shares).Error; err != nil {
			continue
		}
		for _, share := range shares {
			folders[i].SharedWith = append(folders[i].SharedWith, share.UserID)
		}
	}
}

func (h *FolderHandler) publishActivity(c *gin.Context, event *events.ActivityEvent) {
	if h.producer == nil {
		return
	}
	h.producer.PublishActivityEvent(c.Request.Context(), event)
}
