package engine

import (
	"testing"

	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/0xForelsket/skillmatrix/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequirementMatches_Wildcard(t *testing.T) {
	// A rule with all selectors unset is global and matches any employee,
	// including one without department, role or projects.
	req := &models.SkillRequirement{SkillID: uuid.New(), RequiredLevel: 1}

	employees := []models.Employee{
		{ID: uuid.New(), SiteID: uuid.New()},
		{ID: uuid.New(), SiteID: uuid.New(), DepartmentID: utils.Ptr(uuid.New())},
		{
			ID:         uuid.New(),
			SiteID:     uuid.New(),
			RoleID:     utils.Ptr(uuid.New()),
			ProjectIDs: []uuid.UUID{uuid.New(), uuid.New()},
		},
	}
	for i := range employees {
		emp := &employees[i]
		assert.True(t, RequirementMatches(emp, ProjectSet(emp.ProjectIDs), req))
	}
}

func TestRequirementMatches_AndAcrossSelectors(t *testing.T) {
	siteID := uuid.New()
	roleID := uuid.New()
	deptID := uuid.New()
	projectID := uuid.New()

	emp := &models.Employee{
		ID:           uuid.New(),
		SiteID:       siteID,
		DepartmentID: utils.Ptr(deptID),
		RoleID:       utils.Ptr(roleID),
		ProjectIDs:   []uuid.UUID{projectID},
	}
	projects := ProjectSet(emp.ProjectIDs)

	tests := []struct {
		name string
		req  models.SkillRequirement
		want bool
	}{
		{
			name: "site and role both match",
			req:  models.SkillRequirement{SiteID: &siteID, RoleID: &roleID},
			want: true,
		},
		{
			name: "site matches but role does not",
			req:  models.SkillRequirement{SiteID: &siteID, RoleID: utils.Ptr(uuid.New())},
			want: false,
		},
		{
			name: "role matches but site does not",
			req:  models.SkillRequirement{SiteID: utils.Ptr(uuid.New()), RoleID: &roleID},
			want: false,
		},
		{
			name: "all four selectors match",
			req: models.SkillRequirement{
				SiteID:       &siteID,
				DepartmentID: &deptID,
				RoleID:       &roleID,
				ProjectID:    &projectID,
			},
			want: true,
		},
		{
			name: "three match, project does not",
			req: models.SkillRequirement{
				SiteID:       &siteID,
				DepartmentID: &deptID,
				RoleID:       &roleID,
				ProjectID:    utils.Ptr(uuid.New()),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RequirementMatches(emp, projects, &tt.req))
		})
	}
}

func TestRequirementMatches_UnsetEmployeeFields(t *testing.T) {
	deptID := uuid.New()
	emp := &models.Employee{ID: uuid.New(), SiteID: uuid.New()}

	scoped := &models.SkillRequirement{DepartmentID: &deptID}
	assert.False(t, RequirementMatches(emp, nil, scoped),
		"employee without department must not match a department-scoped rule")

	unscoped := &models.SkillRequirement{}
	assert.True(t, RequirementMatches(emp, nil, unscoped),
		"employee without department matches a rule that leaves it unset")
}

func TestRequirementMatches_ProjectMembership(t *testing.T) {
	projectA := uuid.New()
	projectB := uuid.New()
	emp := &models.Employee{
		ID:         uuid.New(),
		SiteID:     uuid.New(),
		ProjectIDs: []uuid.UUID{projectA, projectB},
	}
	projects := ProjectSet(emp.ProjectIDs)

	assert.True(t, RequirementMatches(emp, projects, &models.SkillRequirement{ProjectID: &projectB}))
	assert.False(t, RequirementMatches(emp, projects, &models.SkillRequirement{ProjectID: utils.Ptr(uuid.New())}))
}
