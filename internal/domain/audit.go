package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditAction represents the type of audit action
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionLogin  AuditAction = "login"
	AuditActionExport AuditAction = "export"
)

// IsValid reports whether a is one of the recorded actions
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete, AuditActionLogin, AuditActionExport:
		return true
	}
	return false
}

// AuditLog is a console-local record of a staff mutation. Stored in the console database,
// not upstream.
type AuditLog struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	UserID      string      `gorm:"type:varchar(100);column:user_id;index" json:"userId"`
	UserEmail   string      `gorm:"type:varchar(255);column:user_email" json:"userEmail"`
	UserName    string      `gorm:"type:varchar(200);column:user_name" json:"userName"`
	Action      AuditAction `gorm:"type:varchar(30);not null;index" json:"action"`
	EntityType  string      `gorm:"type:varchar(50);not null;column:entity_type;index" json:"entityType"`
	EntityID    string      `gorm:"type:varchar(100);column:entity_id" json:"entityId,omitempty"`
	Method      string      `gorm:"type:varchar(10)" json:"method"`
	Path        string      `gorm:"type:varchar(500)" json:"path"`
	StatusCode  int         `gorm:"column:status_code" json:"statusCode"`
	IPAddress   string      `gorm:"type:varchar(64);column:ip_address" json:"ipAddress"`
	UserAgent   string      `gorm:"type:varchar(500);column:user_agent" json:"userAgent"`
	RequestID   string      `gorm:"type:varchar(64);column:request_id" json:"requestId"`
	NewValues   string      `gorm:"type:text;column:new_values" json:"newValues,omitempty"`
	PerformedAt time.Time   `gorm:"not null;column:performed_at;index" json:"performedAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// BeforeCreate assigns an id when none is set
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// UploadRecord indexes an original image archived by the console before encoding
type UploadRecord struct {
	ID               uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Panel            string    `gorm:"type:varchar(50);not null;index" json:"panel"`
	OriginalFilename string    `gorm:"type:varchar(255);column:original_filename" json:"originalFilename"`
	ContentType      string    `gorm:"type:varchar(100);column:content_type" json:"contentType"`
	SizeBytes        int64     `gorm:"column:size_bytes" json:"sizeBytes"`
	Width            int       `json:"width"`
	Height           int       `json:"height"`
	StoragePath      string    `gorm:"type:varchar(500);not null;column:storage_path" json:"-"`
	StorageMode      string    `gorm:"type:varchar(20);column:storage_mode" json:"storageMode"`
	UploadedBy       string    `gorm:"type:varchar(255);column:uploaded_by" json:"uploadedBy"`
	CreatedAt        time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (UploadRecord) TableName() string {
	return "upload_records"
}

// BeforeCreate assigns an id when none is set
func (u *UploadRecord) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
