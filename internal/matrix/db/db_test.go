package db

import (
	"context"
	"testing"
	"time"

	dbmodels "github.com/0xForelsket/skillmatrix/internal/matrix/db/models"
	e "github.com/0xForelsket/skillmatrix/internal/matrix/errors"
	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/0xForelsket/skillmatrix/internal/pkg/utils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// SetupTestDB initializes an in-memory SQLite database for testing.
func SetupTestDB(t *testing.T) *Repository {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, migrate(db), "failed to migrate test database")

	return &Repository{db: db}
}

func seedSite(t *testing.T, repo *Repository, name string) uuid.UUID {
	id := uuid.New()
	require.NoError(t, repo.CreateSite(context.Background(), id, name))
	return id
}

func TestCreateAndListEmployees(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	siteID := seedSite(t, repo, "Austin")
	projectID := uuid.New()
	require.NoError(t, repo.CreateProject(ctx, projectID, "Line Retrofit"))

	emp := &models.Employee{
		ID:         uuid.New(),
		Name:       "Dana Fuentes",
		BadgeCode:  "B-1001",
		SiteID:     siteID,
		ProjectIDs: []uuid.UUID{projectID},
	}
	require.NoError(t, repo.CreateEmployee(ctx, emp))

	employees, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, emp.ID, employees[0].ID)
	assert.Equal(t, []uuid.UUID{projectID}, employees[0].ProjectIDs)
}

func TestDeleteEmployeeIsSoft(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	siteID := seedSite(t, repo, "Austin")
	emp := &models.Employee{ID: uuid.New(), Name: "Lee Park", BadgeCode: "B-1002", SiteID: siteID}
	require.NoError(t, repo.CreateEmployee(ctx, emp))

	require.NoError(t, repo.DeleteEmployee(ctx, emp.ID))

	employees, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees, "soft-deleted employees must not be listed")

	// The row itself survives for history.
	var count int64
	require.NoError(t, repo.db.Unscoped().Model(&dbmodels.Employee{}).
		Where("id = ?", emp.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	assert.ErrorIs(t, repo.DeleteEmployee(ctx, uuid.New()), e.ErrNotFound)
}

func TestGetEmployeeByBadge(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	siteID := seedSite(t, repo, "Austin")
	emp := &models.Employee{ID: uuid.New(), Name: "Dana Fuentes", BadgeCode: "B-2001", SiteID: siteID}
	require.NoError(t, repo.CreateEmployee(ctx, emp))

	found, err := repo.GetEmployeeByBadge(ctx, "B-2001")
	require.NoError(t, err)
	assert.Equal(t, emp.ID, found.ID)

	_, err = repo.GetEmployeeByBadge(ctx, "B-9999")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestCurrentActiveRevision(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	skill := &models.Skill{ID: uuid.New(), Name: "Injection Molding", Code: "INJ", MaxLevel: 4}
	require.NoError(t, repo.CreateSkill(ctx, skill))

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	older := &models.SkillRevision{
		ID: uuid.New(), SkillID: skill.ID, Label: "rev A",
		State: models.RevisionActive, CreatedAt: base,
	}
	newer := &models.SkillRevision{
		ID: uuid.New(), SkillID: skill.ID, Label: "rev B",
		State: models.RevisionActive, CreatedAt: base.AddDate(0, 1, 0),
	}
	draft := &models.SkillRevision{
		ID: uuid.New(), SkillID: skill.ID, Label: "rev C",
		State: models.RevisionDraft, CreatedAt: base.AddDate(0, 2, 0),
	}
	for _, rev := range []*models.SkillRevision{older, newer, draft} {
		require.NoError(t, repo.CreateRevision(ctx, rev))
	}

	current, err := repo.CurrentActiveRevision(ctx, skill.ID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, current.ID)

	_, err = repo.CurrentActiveRevision(ctx, uuid.New())
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestArchiveActiveRevisions(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	skill := &models.Skill{ID: uuid.New(), Name: "Welding", Code: "WELD", MaxLevel: 3}
	require.NoError(t, repo.CreateSkill(ctx, skill))

	active := &models.SkillRevision{ID: uuid.New(), SkillID: skill.ID, Label: "rev A", State: models.RevisionActive}
	require.NoError(t, repo.CreateRevision(ctx, active))

	require.NoError(t, repo.ArchiveActiveRevisions(ctx, skill.ID))

	rev, err := repo.GetRevision(ctx, active.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RevisionArchived, rev.State)
}

func TestRequirementScopeExists(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	siteID := seedSite(t, repo, "Austin")
	roleID := uuid.New()
	require.NoError(t, repo.CreateRole(ctx, roleID, "Technician"))

	skill := &models.Skill{ID: uuid.New(), Name: "Injection Molding", Code: "INJ", MaxLevel: 4}
	require.NoError(t, repo.CreateSkill(ctx, skill))

	req := &models.SkillRequirement{
		ID:            uuid.New(),
		SkillID:       skill.ID,
		RequiredLevel: 2,
		SiteID:        &siteID,
		RoleID:        &roleID,
	}
	require.NoError(t, repo.CreateRequirement(ctx, req))

	exists, err := repo.RequirementScopeExists(ctx, &models.SkillRequirement{
		SkillID: skill.ID, SiteID: &siteID, RoleID: &roleID,
	})
	require.NoError(t, err)
	assert.True(t, exists)

	// Same skill, wider scope: a different tuple.
	exists, err = repo.RequirementScopeExists(ctx, &models.SkillRequirement{
		SkillID: skill.ID, SiteID: &siteID,
	})
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestListRequirementsCarriesDisplayNames(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	siteID := seedSite(t, repo, "Austin")
	skill := &models.Skill{ID: uuid.New(), Name: "Injection Molding", Code: "INJ", MaxLevel: 4}
	require.NoError(t, repo.CreateSkill(ctx, skill))

	req := &models.SkillRequirement{
		ID: uuid.New(), SkillID: skill.ID, RequiredLevel: 2, SiteID: &siteID,
	}
	require.NoError(t, repo.CreateRequirement(ctx, req))

	reqs, err := repo.ListRequirements(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Austin", reqs[0].SiteName)
	assert.Empty(t, reqs[0].RoleName)
}

func certFixture(t *testing.T, repo *Repository) (*models.Skill, *models.SkillRevision, uuid.UUID) {
	t.Helper()
	ctx := context.Background()

	siteID := seedSite(t, repo, "Austin")
	skill := &models.Skill{
		ID: uuid.New(), Name: "Injection Molding", Code: "INJ",
		MaxLevel: 4, ValidityMonths: utils.Ptr(12),
	}
	require.NoError(t, repo.CreateSkill(ctx, skill))

	rev := &models.SkillRevision{
		ID: uuid.New(), SkillID: skill.ID, Label: "rev A", State: models.RevisionActive,
	}
	require.NoError(t, repo.CreateRevision(ctx, rev))

	emp := &models.Employee{ID: uuid.New(), Name: "Dana Fuentes", BadgeCode: "B-3001", SiteID: siteID}
	require.NoError(t, repo.CreateEmployee(ctx, emp))

	return skill, rev, emp.ID
}

func TestRevokeCertification(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	skill, rev, employeeID := certFixture(t, repo)
	cert := &models.Certification{
		ID:            uuid.New(),
		EmployeeID:    employeeID,
		SkillID:       skill.ID,
		RevisionID:    rev.ID,
		AchievedLevel: 2,
		AchievedAt:    time.Now(),
	}
	require.NoError(t, repo.CreateCertification(ctx, cert))

	now := time.Now()
	require.NoError(t, repo.RevokeCertification(ctx, cert.ID, now, "auditor", "failed recheck"))

	got, err := repo.GetCertification(ctx, cert.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	assert.Equal(t, "auditor", got.RevokedBy)
	assert.Equal(t, "failed recheck", got.RevokeReason)

	// Revocation is terminal.
	err = repo.RevokeCertification(ctx, cert.ID, now, "auditor", "again")
	assert.ErrorIs(t, err, e.ErrAlreadyRevoked)

	err = repo.RevokeCertification(ctx, uuid.New(), now, "auditor", "missing")
	assert.ErrorIs(t, err, e.ErrNotFound)
}

func TestListActiveCertifications(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	skill, rev, employeeID := certFixture(t, repo)

	active := &models.Certification{
		ID: uuid.New(), EmployeeID: employeeID, SkillID: skill.ID,
		RevisionID: rev.ID, AchievedLevel: 2, AchievedAt: time.Now(),
	}
	revoked := &models.Certification{
		ID: uuid.New(), EmployeeID: employeeID, SkillID: skill.ID,
		RevisionID: rev.ID, AchievedLevel: 1, AchievedAt: time.Now().AddDate(-1, 0, 0),
		RevokedAt: utils.Ptr(time.Now()), RevokedBy: "auditor",
	}
	require.NoError(t, repo.CreateCertification(ctx, active))
	require.NoError(t, repo.CreateCertification(ctx, revoked))

	certs, err := repo.ListActiveCertifications(ctx)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, active.ID, certs[0].ID)
	assert.Equal(t, models.RevisionActive, certs[0].RevisionState,
		"revision lifecycle state should be attached")
}

func TestListNewlyExpired(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	skill, rev, employeeID := certFixture(t, repo)
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	inWindow := &models.Certification{
		ID: uuid.New(), EmployeeID: employeeID, SkillID: skill.ID,
		RevisionID: rev.ID, AchievedLevel: 2,
		AchievedAt: now.AddDate(-1, 0, 0),
		ExpiresAt:  utils.Ptr(now.Add(-time.Hour)),
	}
	longGone := &models.Certification{
		ID: uuid.New(), EmployeeID: employeeID, SkillID: skill.ID,
		RevisionID: rev.ID, AchievedLevel: 2,
		AchievedAt: now.AddDate(-2, 0, 0),
		ExpiresAt:  utils.Ptr(now.AddDate(0, -6, 0)),
	}
	require.NoError(t, repo.CreateCertification(ctx, inWindow))
	require.NoError(t, repo.CreateCertification(ctx, longGone))

	certs, err := repo.ListNewlyExpired(ctx, now.Add(-24*time.Hour), now)
	require.NoError(t, err)
	require.Len(t, certs, 1)
	assert.Equal(t, inWindow.ID, certs[0].ID)
}

func TestWithTransactionRollsBack(t *testing.T) {
	repo := SetupTestDB(t)
	ctx := context.Background()

	siteID := seedSite(t, repo, "Austin")

	err := repo.WithTransaction(ctx, func(tx *Repository) error {
		emp := &models.Employee{ID: uuid.New(), Name: "Ghost", BadgeCode: "B-4001", SiteID: siteID}
		if err := tx.CreateEmployee(ctx, emp); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	employees, err := repo.ListEmployees(ctx)
	require.NoError(t, err)
	assert.Empty(t, employees)
}
