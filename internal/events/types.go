package events

// Topic carrying every drive activity event.
const DriveActivityTopic = "drive.activity"

// File event types
const (
	FileUploaded = "FILE_UPLOADED"
	FileDeleted  = "FILE_DELETED"
	FileShared   = "FILE_SHARED"
)

// Folder event types
const (
	FolderCreated = "FOLDER_CREATED"
	FolderDeleted = "FOLDER_DELETED"
	FolderShared  = "FOLDER_SHARED"
)
