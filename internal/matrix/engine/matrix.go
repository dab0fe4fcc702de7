package engine

import (
	"time"

	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/google/uuid"
)

// BuildMatrix computes the full compliance grid over employees x skills.
// It is a pure transformation: callers fetch the four snapshots (excluding
// soft-deleted employees and revoked certifications) and supply the
// evaluation instant. Certifications referencing a skill outside the
// catalog are ignored. Complexity is O(employees x skills x requirements)
// with requirements pre-indexed by skill.
func BuildMatrix(
	employees []models.Employee,
	skills []models.Skill,
	requirements []models.SkillRequirement,
	certifications []models.Certification,
	now time.Time,
) *models.MatrixData {
	reqsBySkill := make(map[uuid.UUID][]models.SkillRequirement, len(skills))
	for _, req := range requirements {
		reqsBySkill[req.SkillID] = append(reqsBySkill[req.SkillID], req)
	}
	certIndex := NewCertificationIndex(certifications)

	cells := make(map[uuid.UUID]map[uuid.UUID]models.Cell, len(employees))
	for i := range employees {
		emp := &employees[i]
		projects := ProjectSet(emp.ProjectIDs)
		row := make(map[uuid.UUID]models.Cell, len(skills))
		for _, skill := range skills {
			resolved := ResolveRequirement(emp, projects, skill.ID, reqsBySkill[skill.ID])
			cert := certIndex.Lookup(emp.ID, skill.ID)

			cell := models.Cell{
				SkillID:            skill.ID,
				EmployeeID:         emp.ID,
				RequiredLevel:      resolved.Level,
				Status:             Classify(resolved.Level, cert, now),
				RequirementSources: resolved.Sources,
			}
			if cert != nil {
				cell.AchievedLevel = cert.AchievedLevel
				cell.ExpiresAt = cert.ExpiresAt
			}
			row[skill.ID] = cell
		}
		cells[emp.ID] = row
	}

	return &models.MatrixData{
		Employees: employees,
		Skills:    skills,
		Cells:     cells,
	}
}
