package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Project groups boards and members under a single owner. Projects are never
// hard-deleted while referenced; deactivation flips Active to false.
type Project struct {
	BaseModel
	OwnerID     uuid.UUID       `gorm:"type:uuid;not null;index:idx_projects_owner_id" json:"owner_id"`
	Name        string          `gorm:"type:varchar(255);not null" json:"name"`
	Description string          `gorm:"type:text" json:"description"`
	Active      bool            `gorm:"not null;default:true;index:idx_projects_active" json:"active"`
	Owner       User            `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	Members     []ProjectMember `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Boards      []Board         `gorm:"foreignKey:ProjectID;constraint:OnDelete:CASCADE" json:"boards,omitempty"`
}

// ProjectMember links a user to a project
type ProjectMember struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	ProjectID uuid.UUID `gorm:"type:uuid;not null;index:idx_project_members_project_id;uniqueIndex:uq_project_members_project_user" json:"project_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index:idx_project_members_user_id;uniqueIndex:uq_project_members_project_user" json:"user_id"`
	JoinedAt  time.Time `gorm:"type:timestamp;not null;default:now()" json:"joined_at"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (m *ProjectMember) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName specifies the table name for Project
func (Project) TableName() string {
	return "projects"
}

// TableName specifies the table name for ProjectMember
func (ProjectMember) TableName() string {
	return "project_members"
}
