// Package engine implements the gap-analysis core: scope matching,
// requirement resolution, certification lookup, status classification and
// expiry arithmetic. Every function is pure over its inputs; callers fetch
// the data snapshots and pin the evaluation instant.
package engine

import (
	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/google/uuid"
)

// ProjectSet builds a membership set from an employee's project IDs.
func ProjectSet(ids []uuid.UUID) map[uuid.UUID]struct{} {
	set := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// RequirementMatches reports whether a requirement rule applies to an
// employee. Each set selector must be satisfied (logical AND); a nil
// selector imposes no constraint. An employee without a department or role
// fails any requirement that scopes on that dimension.
func RequirementMatches(emp *models.Employee, projects map[uuid.UUID]struct{}, req *models.SkillRequirement) bool {
	if req.SiteID != nil && *req.SiteID != emp.SiteID {
		return false
	}
	if req.DepartmentID != nil && (emp.DepartmentID == nil || *emp.DepartmentID != *req.DepartmentID) {
		return false
	}
	if req.RoleID != nil && (emp.RoleID == nil || *emp.RoleID != *req.RoleID) {
		return false
	}
	if req.ProjectID != nil {
		if _, ok := projects[*req.ProjectID]; !ok {
			return false
		}
	}
	return true
}
