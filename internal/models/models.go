package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Email        string    `gorm:"size:255;not null;unique" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	Name         string    `gorm:"size:150;not null" json:"name"`
	StorageUsed  int64     `gorm:"not null;default:0" json:"storageUsed"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) (err error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return
}

type Folder struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name      string     `gorm:"size:150;not null" json:"name"`
	OwnerID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"ownerId"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parentId"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`

	// Populated from FolderShare rows for API responses, not a column.
	SharedWith []uuid.UUID `gorm:"-" json:"sharedWith"`
}

func (f *Folder) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

// File is the metadata record for an uploaded blob. Name is the
// system-assigned blob name on disk, OriginalName the client's filename.
type File struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name         string     `gorm:"size:255;not null;unique" json:"name"`
	OriginalName string     `gorm:"size:255;not null" json:"originalName"`
	Path         string     `gorm:"size:512;not null" json:"path"`
	Size         int64      `gorm:"not null" json:"size"`
	MimeType     string     `gorm:"size:255;not null" json:"mimeType"`
	OwnerID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"ownerId"`
	FolderID     *uuid.UUID `gorm:"type:uuid;index" json:"folderId"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`

	Owner      *User       `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	SharedWith []uuid.UUID `gorm:"-" json:"sharedWith"`
}

func (f *File) BeforeCreate(tx *gorm.DB) (err error) {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	return
}

// FileShare grants a user read access to a file.
type FileShare struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FileID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_file_user" json:"fileId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_file_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	File File `gorm:"foreignKey:FileID" json:"-"`
}

func (s *FileShare) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}

// FolderShare grants a user read access to a folder.
type FolderShare struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FolderID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_folder_user" json:"folderId"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_folder_user" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	Folder Folder `gorm:"foreignKey:FolderID" json:"-"`
}

func (s *FolderShare) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return
}
