// Package controller implements the core business logic (service layer)
// for the skill matrix: matrix builds, certification grants/revocations,
// requirement and revision management, orchestrating repository operations
// and sending relevant events.
package controller

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/0xForelsket/skillmatrix/internal/matrix/db"
	"github.com/0xForelsket/skillmatrix/internal/matrix/engine"
	e "github.com/0xForelsket/skillmatrix/internal/matrix/errors"
	"github.com/0xForelsket/skillmatrix/internal/matrix/events"
	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type EventProducer interface {
	Produce(eventType events.EventType, entityID uuid.UUID, payload interface{})
}

// Repository defines the storage interface for matrix data.
type Repository interface {
	CreateEmployee(ctx context.Context, emp *models.Employee) error
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	GetEmployeeByBadge(ctx context.Context, badgeCode string) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	CreateSkill(ctx context.Context, skill *models.Skill) error
	GetSkill(ctx context.Context, id uuid.UUID) (*models.Skill, error)
	ListSkills(ctx context.Context) ([]models.Skill, error)
	CreateRevision(ctx context.Context, rev *models.SkillRevision) error
	GetRevision(ctx context.Context, id uuid.UUID) (*models.SkillRevision, error)
	CurrentActiveRevision(ctx context.Context, skillID uuid.UUID) (*models.SkillRevision, error)
	CreateRequirement(ctx context.Context, req *models.SkillRequirement) error
	DeleteRequirement(ctx context.Context, id uuid.UUID) error
	ListRequirements(ctx context.Context) ([]models.SkillRequirement, error)
	RequirementScopeExists(ctx context.Context, req *models.SkillRequirement) (bool, error)
	CreateCertification(ctx context.Context, cert *models.Certification) error
	GetCertification(ctx context.Context, id uuid.UUID) (*models.Certification, error)
	RevokeCertification(ctx context.Context, id uuid.UUID, at time.Time, by, reason string) error
	ListActiveCertifications(ctx context.Context) ([]models.Certification, error)
	ListNewlyExpired(ctx context.Context, since, until time.Time) ([]models.Certification, error)
	WithTransaction(ctx context.Context, fn func(repo *db.Repository) error) error
	Close() error
}

// Cache holds computed matrix snapshots between builds.
type Cache interface {
	Get(ctx context.Context) (*models.MatrixData, error)
	Set(ctx context.Context, data *models.MatrixData) error
	Invalidate(ctx context.Context) error
}

// GrantInput carries the fields needed to certify an employee on a skill.
type GrantInput struct {
	EmployeeID  uuid.UUID
	SkillID     uuid.UUID
	Level       int
	CertifiedBy string
	// AchievedAt defaults to the current time when zero.
	AchievedAt time.Time
}

// MatrixService provides methods to manage the skill matrix via repository
// operations, cache maintenance and event production.
type MatrixService struct {
	repo     Repository
	producer EventProducer
	cache    Cache
	logger   *zap.Logger
	clock    func() time.Time

	sweepMu   sync.Mutex
	lastSweep time.Time
}

// NewMatrixService constructs a MatrixService with a repository, an event
// producer, a snapshot cache, and a logger.
func NewMatrixService(repo Repository, producer EventProducer, cache Cache, logger *zap.Logger) *MatrixService {
	return &MatrixService{
		repo:      repo,
		producer:  producer,
		cache:     cache,
		logger:    logger.Named("matrix_service"),
		clock:     time.Now,
		lastSweep: time.Now(),
	}
}

// BuildMatrix returns the full compliance grid, serving a cached snapshot
// when one exists. The four input collections are fetched as separate
// queries, so the snapshot is not transactionally consistent; for a
// compliance view that staleness window is acceptable.
func (s *MatrixService) BuildMatrix(ctx context.Context) (*models.MatrixData, error) {
	if cached, err := s.cache.Get(ctx); err != nil {
		s.logger.Warn("matrix cache read failed", zap.Error(err))
	} else if cached != nil {
		return cached, nil
	}

	employees, err := s.repo.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	skills, err := s.repo.ListSkills(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list skills: %w", err)
	}
	requirements, err := s.repo.ListRequirements(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list requirements: %w", err)
	}
	certifications, err := s.repo.ListActiveCertifications(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list certifications: %w", err)
	}

	data := engine.BuildMatrix(employees, skills, requirements, certifications, s.clock())

	if err := s.cache.Set(ctx, data); err != nil {
		s.logger.Warn("matrix cache write failed", zap.Error(err))
	}
	return data, nil
}

// GrantCertification certifies an employee on a skill against the skill's
// current active revision. Expiry is computed once here and persisted;
// re-certification creates a new record rather than updating the old one.
func (s *MatrixService) GrantCertification(ctx context.Context, input GrantInput) (*models.Certification, error) {
	skill, err := s.repo.GetSkill(ctx, input.SkillID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	if input.Level < 1 || input.Level > skill.MaxLevel {
		return nil, fmt.Errorf("%w: level %d outside 1..%d", e.ErrInvalidInput, input.Level, skill.MaxLevel)
	}

	revision, err := s.repo.CurrentActiveRevision(ctx, input.SkillID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, e.ErrNoActiveRevision
		}
		return nil, fmt.Errorf("failed to resolve active revision: %w", err)
	}

	achievedAt := input.AchievedAt
	if achievedAt.IsZero() {
		achievedAt = s.clock()
	}

	cert := &models.Certification{
		ID:            uuid.New(),
		EmployeeID:    input.EmployeeID,
		SkillID:       input.SkillID,
		RevisionID:    revision.ID,
		RevisionState: revision.State,
		AchievedLevel: input.Level,
		AchievedAt:    achievedAt,
		ExpiresAt:     engine.CalculateExpiresAt(skill.ValidityMonths, achievedAt),
		CertifiedBy:   input.CertifiedBy,
	}
	if err := s.repo.CreateCertification(ctx, cert); err != nil {
		return nil, fmt.Errorf("failed to create certification: %w", err)
	}

	go func() {
		s.producer.Produce(events.CertificationGranted, cert.ID, cert)
	}()
	s.invalidateCache(ctx)
	return cert, nil
}

// RevokeCertification marks a certification inactive. The record is never
// deleted and revocation is terminal.
func (s *MatrixService) RevokeCertification(ctx context.Context, id uuid.UUID, by, reason string) error {
	if err := s.repo.RevokeCertification(ctx, id, s.clock(), by, reason); err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrAlreadyRevoked) {
			return err
		}
		return fmt.Errorf("failed to revoke certification: %w", err)
	}

	go func() {
		s.producer.Produce(events.CertificationRevoked, id, nil)
	}()
	s.invalidateCache(ctx)
	return nil
}

// CreateRequirement adds a scoped requirement rule. Two rules may overlap
// in scope, but the exact scope tuple must be unique per skill.
func (s *MatrixService) CreateRequirement(ctx context.Context, req *models.SkillRequirement) (*models.SkillRequirement, error) {
	skill, err := s.repo.GetSkill(ctx, req.SkillID)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	if req.RequiredLevel < 1 || req.RequiredLevel > skill.MaxLevel {
		return nil, fmt.Errorf("%w: level %d outside 1..%d", e.ErrInvalidInput, req.RequiredLevel, skill.MaxLevel)
	}

	exists, err := s.repo.RequirementScopeExists(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to check requirement scope: %w", err)
	}
	if exists {
		return nil, e.ErrDuplicateScope
	}

	req.ID = uuid.New()
	if err := s.repo.CreateRequirement(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create requirement: %w", err)
	}

	go func() {
		s.producer.Produce(events.RequirementCreated, req.ID, req)
	}()
	s.invalidateCache(ctx)
	return req, nil
}

func (s *MatrixService) DeleteRequirement(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteRequirement(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete requirement: %w", err)
	}

	go func() {
		s.producer.Produce(events.RequirementDeleted, id, nil)
	}()
	s.invalidateCache(ctx)
	return nil
}

func (s *MatrixService) ListRequirements(ctx context.Context) ([]models.SkillRequirement, error) {
	return s.repo.ListRequirements(ctx)
}

// CreateSkill registers a catalog entry together with an initial draft
// revision.
func (s *MatrixService) CreateSkill(ctx context.Context, skill *models.Skill, revisionLabel string) (*models.Skill, error) {
	if skill.Name == "" || skill.Code == "" {
		return nil, fmt.Errorf("%w: name and code required", e.ErrInvalidInput)
	}
	if skill.MaxLevel < 1 {
		return nil, fmt.Errorf("%w: max level must be at least 1", e.ErrInvalidInput)
	}
	if skill.ValidityMonths != nil && *skill.ValidityMonths < 1 {
		return nil, fmt.Errorf("%w: validity months must be positive", e.ErrInvalidInput)
	}

	skill.ID = uuid.New()
	if err := s.repo.CreateSkill(ctx, skill); err != nil {
		return nil, fmt.Errorf("failed to create skill: %w", err)
	}
	if revisionLabel != "" {
		rev := &models.SkillRevision{
			ID:      uuid.New(),
			SkillID: skill.ID,
			Label:   revisionLabel,
			State:   models.RevisionDraft,
		}
		if err := s.repo.CreateRevision(ctx, rev); err != nil {
			return nil, fmt.Errorf("failed to create initial revision: %w", err)
		}
	}
	return skill, nil
}

// AddRevision appends a draft revision to a skill.
func (s *MatrixService) AddRevision(ctx context.Context, skillID uuid.UUID, label string, requiresRetraining bool) (*models.SkillRevision, error) {
	if _, err := s.repo.GetSkill(ctx, skillID); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get skill: %w", err)
	}
	if label == "" {
		return nil, fmt.Errorf("%w: label required", e.ErrInvalidInput)
	}

	rev := &models.SkillRevision{
		ID:                 uuid.New(),
		SkillID:            skillID,
		Label:              label,
		State:              models.RevisionDraft,
		RequiresRetraining: requiresRetraining,
	}
	if err := s.repo.CreateRevision(ctx, rev); err != nil {
		return nil, fmt.Errorf("failed to create revision: %w", err)
	}
	return rev, nil
}

// ActivateRevision promotes a draft revision to active and archives the
// previously active one. Transitions are forward-only; an archived
// revision stays archived.
func (s *MatrixService) ActivateRevision(ctx context.Context, id uuid.UUID) error {
	rev, err := s.repo.GetRevision(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to get revision: %w", err)
	}
	if rev.State != models.RevisionDraft {
		return fmt.Errorf("%w: revision is %s", e.ErrInvalidTransition, rev.State)
	}

	err = s.repo.WithTransaction(ctx, func(tx *db.Repository) error {
		if err := tx.ArchiveActiveRevisions(ctx, rev.SkillID); err != nil {
			return err
		}
		return tx.SetRevisionState(ctx, id, models.RevisionActive)
	})
	if err != nil {
		return fmt.Errorf("failed to activate revision: %w", err)
	}

	go func() {
		s.producer.Produce(events.RevisionActivated, id, rev)
	}()
	s.invalidateCache(ctx)
	return nil
}

// CreateEmployee registers a workforce member. A site is mandatory;
// department, role and projects are optional.
func (s *MatrixService) CreateEmployee(ctx context.Context, emp *models.Employee) (*models.Employee, error) {
	if emp.Name == "" {
		return nil, fmt.Errorf("%w: name required", e.ErrInvalidInput)
	}
	if emp.SiteID == uuid.Nil {
		return nil, fmt.Errorf("%w: site required", e.ErrInvalidInput)
	}

	emp.ID = uuid.New()
	if err := s.repo.CreateEmployee(ctx, emp); err != nil {
		return nil, fmt.Errorf("failed to create employee: %w", err)
	}
	s.invalidateCache(ctx)
	return emp, nil
}

// DeleteEmployee soft-deletes an employee, preserving certification
// history.
func (s *MatrixService) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return err
		}
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	s.invalidateCache(ctx)
	return nil
}

// GetEmployeeByBadge resolves an employee from a scanned badge code.
func (s *MatrixService) GetEmployeeByBadge(ctx context.Context, badgeCode string) (*models.Employee, error) {
	emp, err := s.repo.GetEmployeeByBadge(ctx, badgeCode)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to look up badge: %w", err)
	}
	return emp, nil
}

// SweepExpired publishes an event for every certification whose expiry
// passed since the previous sweep. Driven by a cron schedule.
func (s *MatrixService) SweepExpired(ctx context.Context) error {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	now := s.clock()
	certs, err := s.repo.ListNewlyExpired(ctx, s.lastSweep, now)
	if err != nil {
		return fmt.Errorf("failed to list expired certifications: %w", err)
	}
	for i := range certs {
		cert := certs[i]
		s.producer.Produce(events.CertificationExpired, cert.ID, &cert)
	}
	if len(certs) > 0 {
		s.logger.Info("expired certifications swept", zap.Int("count", len(certs)))
		s.invalidateCache(ctx)
	}
	s.lastSweep = now
	return nil
}

func (s *MatrixService) invalidateCache(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.Warn("matrix cache invalidation failed", zap.Error(err))
	}
}
