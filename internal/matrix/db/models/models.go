// Package models contains the persistence models for the skill matrix,
// configured to work using GORM as the ORM.
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Site is a physical location employees belong to.
type Site struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:120;not null;uniqueIndex"`
}

type Department struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:120;not null"`
}

type Role struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:120;not null"`
}

type Project struct {
	ID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name string    `gorm:"size:120;not null"`
}

// Employee represents a workforce member. Employees are only ever
// soft-deleted so certification history stays intact.
type Employee struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name         string     `gorm:"size:200;not null"`
	BadgeCode    string     `gorm:"size:64;uniqueIndex"`
	SiteID       uuid.UUID  `gorm:"type:uuid;not null;index"`
	DepartmentID *uuid.UUID `gorm:"type:uuid;index"`
	RoleID       *uuid.UUID `gorm:"type:uuid;index"`
	Projects     []Project  `gorm:"many2many:employee_projects"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

// Skill is a catalog entry. ValidityMonths nil means certifications against
// this skill never expire.
type Skill struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name           string    `gorm:"size:200;not null"`
	Code           string    `gorm:"size:32;not null;uniqueIndex"`
	MaxLevel       int       `gorm:"not null;check:max_level >= 1"`
	ValidityMonths *int
	Revisions      []SkillRevision `gorm:"foreignKey:SkillID"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SkillRevision is one versioned definition of a skill's content.
type SkillRevision struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey"`
	SkillID            uuid.UUID `gorm:"type:uuid;not null;index"`
	Label              string    `gorm:"size:120;not null"`
	State              string    `gorm:"size:16;not null;index"`
	RequiresRetraining bool      `gorm:"not null"`
	CreatedAt          time.Time
}

// SkillRequirement is a scoped requirement rule. The composite unique index
// enforces one rule per exact scope tuple; note that SQL treats NULLs as
// distinct inside unique indexes, so the repository also checks tuples with
// explicit IS NULL comparisons before insert.
type SkillRequirement struct {
	ID            uuid.UUID   `gorm:"type:uuid;primaryKey"`
	SkillID       uuid.UUID   `gorm:"type:uuid;not null;uniqueIndex:idx_requirement_scope"`
	RequiredLevel int         `gorm:"not null;check:required_level >= 1"`
	SiteID        *uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_requirement_scope"`
	DepartmentID  *uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_requirement_scope"`
	RoleID        *uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_requirement_scope"`
	ProjectID     *uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_requirement_scope"`
	Site          *Site       `gorm:"foreignKey:SiteID"`
	Department    *Department `gorm:"foreignKey:DepartmentID"`
	Role          *Role       `gorm:"foreignKey:RoleID"`
	Project       *Project    `gorm:"foreignKey:ProjectID"`
	CreatedAt     time.Time
}

// EmployeeSkill records a certification. Rows are append-only: the only
// mutation ever applied is the one-way revocation.
type EmployeeSkill struct {
	ID            uuid.UUID     `gorm:"type:uuid;primaryKey"`
	EmployeeID    uuid.UUID     `gorm:"type:uuid;not null;index:idx_employee_skill"`
	SkillID       uuid.UUID     `gorm:"type:uuid;not null;index:idx_employee_skill"`
	RevisionID    uuid.UUID     `gorm:"type:uuid;not null"`
	Revision      SkillRevision `gorm:"foreignKey:RevisionID"`
	AchievedLevel int           `gorm:"not null"`
	AchievedAt    time.Time     `gorm:"not null"`
	ExpiresAt     *time.Time    `gorm:"index"`
	CertifiedBy   string        `gorm:"size:200"`
	RevokedAt     *time.Time    `gorm:"index"`
	RevokedBy     string        `gorm:"size:200"`
	RevokeReason  string        `gorm:"size:1000"`
	CreatedAt     time.Time
}
