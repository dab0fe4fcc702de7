package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	dbmodels "github.com/0xForelsket/skillmatrix/internal/matrix/db/models"
	e "github.com/0xForelsket/skillmatrix/internal/matrix/errors"
	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/google/uuid"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

func NewRepository(cfg *Config) (*Repository, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &Repository{db: db}, nil
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&dbmodels.Site{},
		&dbmodels.Department{},
		&dbmodels.Role{},
		&dbmodels.Project{},
		&dbmodels.Employee{},
		&dbmodels.Skill{},
		&dbmodels.SkillRevision{},
		&dbmodels.SkillRequirement{},
		&dbmodels.EmployeeSkill{},
	)
}

// Employees

func (r *Repository) CreateEmployee(ctx context.Context, emp *models.Employee) error {
	rec := employeeToRecord(emp)
	result := r.db.WithContext(ctx).Omit("Projects.*").Create(rec)
	return result.Error
}

// ListEmployees returns all non-deleted employees with their project
// assignments. Soft-deleted rows are excluded by GORM's delete scope.
func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	var recs []dbmodels.Employee
	result := r.db.WithContext(ctx).Preload("Projects").Order("name").Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	employees := make([]models.Employee, 0, len(recs))
	for i := range recs {
		employees = append(employees, *employeeToDomain(&recs[i]))
	}
	return employees, nil
}

func (r *Repository) GetEmployeeByBadge(ctx context.Context, badgeCode string) (*models.Employee, error) {
	var rec dbmodels.Employee
	result := r.db.WithContext(ctx).Preload("Projects").
		First(&rec, "badge_code = ?", badgeCode)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return employeeToDomain(&rec), nil
}

func (r *Repository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.Employee{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// Skills and revisions

func (r *Repository) CreateSkill(ctx context.Context, skill *models.Skill) error {
	result := r.db.WithContext(ctx).Create(skillToRecord(skill))
	return result.Error
}

func (r *Repository) GetSkill(ctx context.Context, id uuid.UUID) (*models.Skill, error) {
	var rec dbmodels.Skill
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return skillToDomain(&rec), nil
}

func (r *Repository) ListSkills(ctx context.Context) ([]models.Skill, error) {
	var recs []dbmodels.Skill
	result := r.db.WithContext(ctx).Order("code").Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	skills := make([]models.Skill, 0, len(recs))
	for i := range recs {
		skills = append(skills, *skillToDomain(&recs[i]))
	}
	return skills, nil
}

func (r *Repository) CreateRevision(ctx context.Context, rev *models.SkillRevision) error {
	result := r.db.WithContext(ctx).Create(revisionToRecord(rev))
	return result.Error
}

func (r *Repository) GetRevision(ctx context.Context, id uuid.UUID) (*models.SkillRevision, error) {
	var rec dbmodels.SkillRevision
	result := r.db.WithContext(ctx).First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return revisionToDomain(&rec), nil
}

// CurrentActiveRevision returns the skill's most recently created active
// revision, the one new certifications are issued against.
func (r *Repository) CurrentActiveRevision(ctx context.Context, skillID uuid.UUID) (*models.SkillRevision, error) {
	var rec dbmodels.SkillRevision
	result := r.db.WithContext(ctx).
		Where("skill_id = ? AND state = ?", skillID, string(models.RevisionActive)).
		Order("created_at DESC").
		First(&rec)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return revisionToDomain(&rec), nil
}

func (r *Repository) SetRevisionState(ctx context.Context, id uuid.UUID, state models.RevisionState) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.SkillRevision{}).
		Where("id = ?", id).
		Update("state", string(state))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

// ArchiveActiveRevisions archives every active revision of a skill. Used
// when activating a new revision.
func (r *Repository) ArchiveActiveRevisions(ctx context.Context, skillID uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.SkillRevision{}).
		Where("skill_id = ? AND state = ?", skillID, string(models.RevisionActive)).
		Update("state", string(models.RevisionArchived))
	return result.Error
}

// Requirements

func (r *Repository) CreateRequirement(ctx context.Context, req *models.SkillRequirement) error {
	result := r.db.WithContext(ctx).Create(requirementToRecord(req))
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return e.ErrDuplicateScope
		}
		return result.Error
	}
	return nil
}

func (r *Repository) DeleteRequirement(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&dbmodels.SkillRequirement{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return e.ErrNotFound
	}
	return nil
}

func (r *Repository) ListRequirements(ctx context.Context) ([]models.SkillRequirement, error) {
	var recs []dbmodels.SkillRequirement
	result := r.db.WithContext(ctx).
		Preload("Site").Preload("Department").Preload("Role").Preload("Project").
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	reqs := make([]models.SkillRequirement, 0, len(recs))
	for i := range recs {
		reqs = append(reqs, *requirementToDomain(&recs[i]))
	}
	return reqs, nil
}

// RequirementScopeExists checks the exact scope tuple with IS NULL
// comparisons, since SQL unique indexes treat NULLs as distinct.
func (r *Repository) RequirementScopeExists(ctx context.Context, req *models.SkillRequirement) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&dbmodels.SkillRequirement{}).
		Where("skill_id = ?", req.SkillID)
	q = scopeCond(q, "site_id", req.SiteID)
	q = scopeCond(q, "department_id", req.DepartmentID)
	q = scopeCond(q, "role_id", req.RoleID)
	q = scopeCond(q, "project_id", req.ProjectID)
	result := q.Limit(1).Count(&count)
	return count > 0, result.Error
}

func scopeCond(q *gorm.DB, column string, id *uuid.UUID) *gorm.DB {
	if id == nil {
		return q.Where(column + " IS NULL")
	}
	return q.Where(column+" = ?", *id)
}

// Certifications

func (r *Repository) CreateCertification(ctx context.Context, cert *models.Certification) error {
	result := r.db.WithContext(ctx).Create(certificationToRecord(cert))
	return result.Error
}

func (r *Repository) GetCertification(ctx context.Context, id uuid.UUID) (*models.Certification, error) {
	var rec dbmodels.EmployeeSkill
	result := r.db.WithContext(ctx).Preload("Revision").First(&rec, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, e.ErrNotFound
		}
		return nil, result.Error
	}
	return certificationToDomain(&rec), nil
}

// RevokeCertification applies the one-way revocation. A row that is
// already revoked is left untouched.
func (r *Repository) RevokeCertification(ctx context.Context, id uuid.UUID, at time.Time, by, reason string) error {
	result := r.db.WithContext(ctx).Model(&dbmodels.EmployeeSkill{}).
		Where("id = ? AND revoked_at IS NULL", id).
		Updates(map[string]interface{}{
			"revoked_at":    at,
			"revoked_by":    by,
			"revoke_reason": reason,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if _, err := r.GetCertification(ctx, id); err != nil {
			return err
		}
		return e.ErrAlreadyRevoked
	}
	return nil
}

// ListActiveCertifications returns every non-revoked certification with the
// lifecycle state of its revision attached.
func (r *Repository) ListActiveCertifications(ctx context.Context) ([]models.Certification, error) {
	var recs []dbmodels.EmployeeSkill
	result := r.db.WithContext(ctx).Preload("Revision").
		Where("revoked_at IS NULL").
		Order("created_at").
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	certs := make([]models.Certification, 0, len(recs))
	for i := range recs {
		certs = append(certs, *certificationToDomain(&recs[i]))
	}
	return certs, nil
}

// ListNewlyExpired returns active certifications whose expiry falls inside
// (since, until].
func (r *Repository) ListNewlyExpired(ctx context.Context, since, until time.Time) ([]models.Certification, error) {
	var recs []dbmodels.EmployeeSkill
	result := r.db.WithContext(ctx).Preload("Revision").
		Where("revoked_at IS NULL AND expires_at > ? AND expires_at <= ?", since, until).
		Find(&recs)
	if result.Error != nil {
		return nil, result.Error
	}
	certs := make([]models.Certification, 0, len(recs))
	for i := range recs {
		certs = append(certs, *certificationToDomain(&recs[i]))
	}
	return certs, nil
}

// Reference tables

func (r *Repository) CreateSite(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Create(&dbmodels.Site{ID: id, Name: name}).Error
}

func (r *Repository) CreateDepartment(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Create(&dbmodels.Department{ID: id, Name: name}).Error
}

func (r *Repository) CreateRole(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Create(&dbmodels.Role{ID: id, Name: name}).Error
}

func (r *Repository) CreateProject(ctx context.Context, id uuid.UUID, name string) error {
	return r.db.WithContext(ctx).Create(&dbmodels.Project{ID: id, Name: name}).Error
}

func (r *Repository) WithTransaction(ctx context.Context, fn func(repo *Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Repository{db: tx})
	})
}

func (r *Repository) Close() error {
	db, err := r.db.DB()
	if err != nil {
		return err
	}
	return db.Close()
}
