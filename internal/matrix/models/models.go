// Package models defines the core domain models for the skill matrix:
// employees, skills with versioned revisions, scoped requirements,
// certifications and the computed compliance matrix structures.
package models

import (
	"time"

	"github.com/google/uuid"
)

// RevisionState represents the lifecycle state of a skill revision.
// Transitions are forward-only: draft -> active -> archived.
type RevisionState string

const (
	RevisionDraft    RevisionState = "DRAFT"
	RevisionActive   RevisionState = "ACTIVE"
	RevisionArchived RevisionState = "ARCHIVED"
)

// Status is the compliance status of a single (employee, skill) cell.
type Status string

const (
	// StatusMissing means the skill is required but the employee holds
	// no active certification for it.
	StatusMissing Status = "MISSING"
	// StatusGap means the certified level is below the required level.
	StatusGap Status = "GAP"
	// StatusExpired means the certification's expiry date has passed.
	StatusExpired Status = "EXPIRED"
	// StatusOutdated means the certification references an archived
	// skill revision.
	StatusOutdated Status = "OUTDATED"
	// StatusCompliant means the certification satisfies the requirement.
	StatusCompliant Status = "COMPLIANT"
	// StatusExtra means the employee holds a valid certification for a
	// skill that is not required of them.
	StatusExtra Status = "EXTRA"
	// StatusNone means the skill is neither required nor held.
	StatusNone Status = "NONE"
)

// Employee defines the domain model for a workforce member.
type Employee struct {
	// ID is the unique identifier for the employee.
	ID uuid.UUID `json:"id"`
	// Name is the employee's display name.
	Name string `json:"name"`
	// BadgeCode is the employee's badge identifier, used for lookup.
	BadgeCode string `json:"badgeCode"`
	// SiteID references the employee's site. Every employee has exactly one.
	SiteID uuid.UUID `json:"siteId"`
	// DepartmentID references the employee's department, if assigned.
	DepartmentID *uuid.UUID `json:"departmentId"`
	// RoleID references the employee's role, if assigned.
	RoleID *uuid.UUID `json:"roleId"`
	// ProjectIDs lists the projects the employee is assigned to.
	ProjectIDs []uuid.UUID `json:"projectIds"`
	CreatedAt  time.Time   `json:"createdAt"`
	UpdatedAt  time.Time   `json:"updatedAt"`
}

// Skill is a catalog entry describing a trainable competency.
type Skill struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Code string    `json:"code"`
	// MaxLevel is the maximum achievable level, at least 1.
	MaxLevel int `json:"maxLevel"`
	// ValidityMonths is the certification validity window in calendar
	// months. Nil means certifications never expire.
	ValidityMonths *int `json:"validityMonths"`
}

// SkillRevision is a versioned definition of a skill's content.
type SkillRevision struct {
	ID      uuid.UUID     `json:"id"`
	SkillID uuid.UUID     `json:"skillId"`
	Label   string        `json:"label"`
	State   RevisionState `json:"state"`
	// RequiresRetraining indicates that activating this revision forces
	// re-certification.
	RequiresRetraining bool      `json:"requiresRetraining"`
	CreatedAt          time.Time `json:"createdAt"`
}

// SkillRequirement states that a skill must be held at a minimum level by
// employees matching its scope. Each selector left nil acts as a wildcard;
// set selectors combine via logical AND.
type SkillRequirement struct {
	ID            uuid.UUID  `json:"id"`
	SkillID       uuid.UUID  `json:"skillId"`
	RequiredLevel int        `json:"requiredLevel"`
	SiteID        *uuid.UUID `json:"siteId"`
	DepartmentID  *uuid.UUID `json:"departmentId"`
	RoleID        *uuid.UUID `json:"roleId"`
	ProjectID     *uuid.UUID `json:"projectId"`
	// Denormalized display names for provenance strings.
	SiteName       string `json:"siteName,omitempty"`
	DepartmentName string `json:"departmentName,omitempty"`
	RoleName       string `json:"roleName,omitempty"`
	ProjectName    string `json:"projectName,omitempty"`
}

// Certification records that an employee achieved a skill at a given level
// against a specific revision. Records are append-only; the only permitted
// mutation is a one-way revocation.
type Certification struct {
	ID         uuid.UUID `json:"id"`
	EmployeeID uuid.UUID `json:"employeeId"`
	SkillID    uuid.UUID `json:"skillId"`
	RevisionID uuid.UUID `json:"revisionId"`
	// RevisionState carries the lifecycle state of the referenced
	// revision at evaluation time.
	RevisionState RevisionState `json:"revisionState"`
	AchievedLevel int           `json:"achievedLevel"`
	AchievedAt    time.Time     `json:"achievedAt"`
	// ExpiresAt is computed once at certification time and never
	// recalculated. Nil means the certification never expires.
	ExpiresAt   *time.Time `json:"expiresAt"`
	CertifiedBy string     `json:"certifiedBy"`
	RevokedAt   *time.Time `json:"revokedAt,omitempty"`
	RevokedBy   string     `json:"revokedBy,omitempty"`
	// RevokeReason explains why the certification was withdrawn.
	RevokeReason string `json:"revokeReason,omitempty"`
}

// Revoked reports whether the certification has been revoked.
func (c *Certification) Revoked() bool {
	return c.RevokedAt != nil
}

// Cell is one entry of the compliance matrix.
type Cell struct {
	SkillID       uuid.UUID  `json:"skillId"`
	EmployeeID    uuid.UUID  `json:"employeeId"`
	RequiredLevel int        `json:"requiredLevel"`
	AchievedLevel int        `json:"achievedLevel"`
	ExpiresAt     *time.Time `json:"expiresAt"`
	Status        Status     `json:"status"`
	// RequirementSources lists, per matching requirement rule, which
	// scope dimensions constrained it and at what level.
	RequirementSources []string `json:"requirementSources"`
}

// MatrixData is the full compliance grid over employees x skills.
// Cells is keyed by employee ID, then skill ID.
type MatrixData struct {
	Employees []Employee                       `json:"employees"`
	Skills    []Skill                          `json:"skills"`
	Cells     map[uuid.UUID]map[uuid.UUID]Cell `json:"cells"`
}
