package db

import (
	dbmodels "github.com/0xForelsket/skillmatrix/internal/matrix/db/models"
	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/google/uuid"
)

func employeeToRecord(emp *models.Employee) *dbmodels.Employee {
	projects := make([]dbmodels.Project, 0, len(emp.ProjectIDs))
	for _, id := range emp.ProjectIDs {
		projects = append(projects, dbmodels.Project{ID: id})
	}
	return &dbmodels.Employee{
		ID:           emp.ID,
		Name:         emp.Name,
		BadgeCode:    emp.BadgeCode,
		SiteID:       emp.SiteID,
		DepartmentID: emp.DepartmentID,
		RoleID:       emp.RoleID,
		Projects:     projects,
	}
}

func employeeToDomain(rec *dbmodels.Employee) *models.Employee {
	projectIDs := make([]uuid.UUID, 0, len(rec.Projects))
	for _, p := range rec.Projects {
		projectIDs = append(projectIDs, p.ID)
	}
	return &models.Employee{
		ID:           rec.ID,
		Name:         rec.Name,
		BadgeCode:    rec.BadgeCode,
		SiteID:       rec.SiteID,
		DepartmentID: rec.DepartmentID,
		RoleID:       rec.RoleID,
		ProjectIDs:   projectIDs,
		CreatedAt:    rec.CreatedAt,
		UpdatedAt:    rec.UpdatedAt,
	}
}

func skillToRecord(skill *models.Skill) *dbmodels.Skill {
	return &dbmodels.Skill{
		ID:             skill.ID,
		Name:           skill.Name,
		Code:           skill.Code,
		MaxLevel:       skill.MaxLevel,
		ValidityMonths: skill.ValidityMonths,
	}
}

func skillToDomain(rec *dbmodels.Skill) *models.Skill {
	return &models.Skill{
		ID:             rec.ID,
		Name:           rec.Name,
		Code:           rec.Code,
		MaxLevel:       rec.MaxLevel,
		ValidityMonths: rec.ValidityMonths,
	}
}

func revisionToRecord(rev *models.SkillRevision) *dbmodels.SkillRevision {
	return &dbmodels.SkillRevision{
		ID:                 rev.ID,
		SkillID:            rev.SkillID,
		Label:              rev.Label,
		State:              string(rev.State),
		RequiresRetraining: rev.RequiresRetraining,
		CreatedAt:          rev.CreatedAt,
	}
}

func revisionToDomain(rec *dbmodels.SkillRevision) *models.SkillRevision {
	return &models.SkillRevision{
		ID:                 rec.ID,
		SkillID:            rec.SkillID,
		Label:              rec.Label,
		State:              models.RevisionState(rec.State),
		RequiresRetraining: rec.RequiresRetraining,
		CreatedAt:          rec.CreatedAt,
	}
}

func requirementToRecord(req *models.SkillRequirement) *dbmodels.SkillRequirement {
	return &dbmodels.SkillRequirement{
		ID:            req.ID,
		SkillID:       req.SkillID,
		RequiredLevel: req.RequiredLevel,
		SiteID:        req.SiteID,
		DepartmentID:  req.DepartmentID,
		RoleID:        req.RoleID,
		ProjectID:     req.ProjectID,
	}
}

func requirementToDomain(rec *dbmodels.SkillRequirement) *models.SkillRequirement {
	req := &models.SkillRequirement{
		ID:            rec.ID,
		SkillID:       rec.SkillID,
		RequiredLevel: rec.RequiredLevel,
		SiteID:        rec.SiteID,
		DepartmentID:  rec.DepartmentID,
		RoleID:        rec.RoleID,
		ProjectID:     rec.ProjectID,
	}
	if rec.Site != nil {
		req.SiteName = rec.Site.Name
	}
	if rec.Department != nil {
		req.DepartmentName = rec.Department.Name
	}
	if rec.Role != nil {
		req.RoleName = rec.Role.Name
	}
	if rec.Project != nil {
		req.ProjectName = rec.Project.Name
	}
	return req
}

func certificationToRecord(cert *models.Certification) *dbmodels.EmployeeSkill {
	return &dbmodels.EmployeeSkill{
		ID:            cert.ID,
		EmployeeID:    cert.EmployeeID,
		SkillID:       cert.SkillID,
		RevisionID:    cert.RevisionID,
		AchievedLevel: cert.AchievedLevel,
		AchievedAt:    cert.AchievedAt,
		ExpiresAt:     cert.ExpiresAt,
		CertifiedBy:   cert.CertifiedBy,
		RevokedAt:     cert.RevokedAt,
		RevokedBy:     cert.RevokedBy,
		RevokeReason:  cert.RevokeReason,
	}
}

func certificationToDomain(rec *dbmodels.EmployeeSkill) *models.Certification {
	return &models.Certification{
		ID:            rec.ID,
		EmployeeID:    rec.EmployeeID,
		SkillID:       rec.SkillID,
		RevisionID:    rec.RevisionID,
		RevisionState: models.RevisionState(rec.Revision.State),
		AchievedLevel: rec.AchievedLevel,
		AchievedAt:    rec.AchievedAt,
		ExpiresAt:     rec.ExpiresAt,
		CertifiedBy:   rec.CertifiedBy,
		RevokedAt:     rec.RevokedAt,
		RevokedBy:     rec.RevokedBy,
		RevokeReason:  rec.RevokeReason,
	}
}
