package engine

import (
	"fmt"
	"strings"

	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/google/uuid"
)

// ResolvedRequirement is the effective requirement for one employee and
// skill: the maximum level among matching rules, plus one provenance entry
// per matching rule.
type ResolvedRequirement struct {
	Level   int
	Sources []string
}

// ResolveRequirement filters the given rules to those targeting skillID and
// matching the employee's scope, and resolves the effective required level
// as the maximum across them. Zero matching rules means the skill is not
// required (level 0, no sources).
func ResolveRequirement(emp *models.Employee, projects map[uuid.UUID]struct{}, skillID uuid.UUID, reqs []models.SkillRequirement) ResolvedRequirement {
	var resolved ResolvedRequirement
	for i := range reqs {
		req := &reqs[i]
		if req.SkillID != skillID || !RequirementMatches(emp, projects, req) {
			continue
		}
		if req.RequiredLevel > resolved.Level {
			resolved.Level = req.RequiredLevel
		}
		resolved.Sources = append(resolved.Sources, describeScope(req))
	}
	return resolved
}

// describeScope renders a requirement's scope for audit/tooltip display,
// naming only the dimensions that constrained it.
func describeScope(req *models.SkillRequirement) string {
	parts := make([]string, 0, 4)
	if req.SiteID != nil {
		parts = append(parts, "Site "+req.SiteName)
	}
	if req.DepartmentID != nil {
		parts = append(parts, "Department "+req.DepartmentName)
	}
	if req.RoleID != nil {
		parts = append(parts, "Role "+req.RoleName)
	}
	if req.ProjectID != nil {
		parts = append(parts, "Project "+req.ProjectName)
	}
	if len(parts) == 0 {
		return fmt.Sprintf("Global: level %d", req.RequiredLevel)
	}
	return fmt.Sprintf("%s: level %d", strings.Join(parts, ", "), req.RequiredLevel)
}
