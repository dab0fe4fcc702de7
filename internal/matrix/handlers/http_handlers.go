// Package handlers provides the HTTP server for the skill matrix service,
// bridging the transport layer and business logic, translating between
// JSON payloads and domain models.
package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/0xForelsket/skillmatrix/internal/matrix/controller"
	e "github.com/0xForelsket/skillmatrix/internal/matrix/errors"
	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MatrixController defines the business logic interface that the HTTP
// handlers invoke.
type MatrixController interface {
	BuildMatrix(ctx context.Context) (*models.MatrixData, error)
	GrantCertification(ctx context.Context, input controller.GrantInput) (*models.Certification, error)
	RevokeCertification(ctx context.Context, id uuid.UUID, by, reason string) error
	CreateRequirement(ctx context.Context, req *models.SkillRequirement) (*models.SkillRequirement, error)
	DeleteRequirement(ctx context.Context, id uuid.UUID) error
	ListRequirements(ctx context.Context) ([]models.SkillRequirement, error)
	CreateSkill(ctx context.Context, skill *models.Skill, revisionLabel string) (*models.Skill, error)
	AddRevision(ctx context.Context, skillID uuid.UUID, label string, requiresRetraining bool) (*models.SkillRevision, error)
	ActivateRevision(ctx context.Context, id uuid.UUID) error
	CreateEmployee(ctx context.Context, emp *models.Employee) (*models.Employee, error)
	DeleteEmployee(ctx context.Context, id uuid.UUID) error
	GetEmployeeByBadge(ctx context.Context, badgeCode string) (*models.Employee, error)
}

// MatrixHandler maps HTTP requests onto a MatrixController.
type MatrixHandler struct {
	service MatrixController
	logger  *zap.Logger
}

func NewMatrixHandler(service MatrixController, logger *zap.Logger) *MatrixHandler {
	return &MatrixHandler{
		service: service,
		logger:  logger.Named("http_handler"),
	}
}

type grantCertificationRequest struct {
	EmployeeID  uuid.UUID  `json:"employeeId"`
	SkillID     uuid.UUID  `json:"skillId"`
	Level       int        `json:"level"`
	CertifiedBy string     `json:"certifiedBy"`
	AchievedAt  *time.Time `json:"achievedAt"`
}

type revokeCertificationRequest struct {
	RevokedBy string `json:"revokedBy"`
	Reason    string `json:"reason"`
}

type createRequirementRequest struct {
	SkillID       uuid.UUID  `json:"skillId"`
	RequiredLevel int        `json:"requiredLevel"`
	SiteID        *uuid.UUID `json:"siteId"`
	DepartmentID  *uuid.UUID `json:"departmentId"`
	RoleID        *uuid.UUID `json:"roleId"`
	ProjectID     *uuid.UUID `json:"projectId"`
}

type createSkillRequest struct {
	Name           string `json:"name"`
	Code           string `json:"code"`
	MaxLevel       int    `json:"maxLevel"`
	ValidityMonths *int   `json:"validityMonths"`
	RevisionLabel  string `json:"revisionLabel"`
}

type addRevisionRequest struct {
	Label              string `json:"label"`
	RequiresRetraining bool   `json:"requiresRetraining"`
}

type createEmployeeRequest struct {
	Name         string      `json:"name"`
	BadgeCode    string      `json:"badgeCode"`
	SiteID       uuid.UUID   `json:"siteId"`
	DepartmentID *uuid.UUID  `json:"departmentId"`
	RoleID       *uuid.UUID  `json:"roleId"`
	ProjectIDs   []uuid.UUID `json:"projectIds"`
}

func (h *MatrixHandler) GetMatrix(c *fiber.Ctx) error {
	data, err := h.service.BuildMatrix(c.UserContext())
	if err != nil {
		h.logger.Error("Matrix build failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.JSON(data)
}

func (h *MatrixHandler) GrantCertification(c *fiber.Ctx) error {
	var req grantCertificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	input := controller.GrantInput{
		EmployeeID:  req.EmployeeID,
		SkillID:     req.SkillID,
		Level:       req.Level,
		CertifiedBy: req.CertifiedBy,
	}
	if req.AchievedAt != nil {
		input.AchievedAt = *req.AchievedAt
	}

	cert, err := h.service.GrantCertification(c.UserContext(), input)
	if err != nil {
		h.logger.Error("Grant certification failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(cert)
}

func (h *MatrixHandler) RevokeCertification(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid certification ID")
	}
	var req revokeCertificationRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.service.RevokeCertification(c.UserContext(), id, req.RevokedBy, req.Reason); err != nil {
		h.logger.Error("Revoke certification failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MatrixHandler) ListRequirements(c *fiber.Ctx) error {
	reqs, err := h.service.ListRequirements(c.UserContext())
	if err != nil {
		h.logger.Error("List requirements failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.JSON(reqs)
}

func (h *MatrixHandler) CreateRequirement(c *fiber.Ctx) error {
	var req createRequirementRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	created, err := h.service.CreateRequirement(c.UserContext(), &models.SkillRequirement{
		SkillID:       req.SkillID,
		RequiredLevel: req.RequiredLevel,
		SiteID:        req.SiteID,
		DepartmentID:  req.DepartmentID,
		RoleID:        req.RoleID,
		ProjectID:     req.ProjectID,
	})
	if err != nil {
		h.logger.Error("Create requirement failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *MatrixHandler) DeleteRequirement(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid requirement ID")
	}

	if err := h.service.DeleteRequirement(c.UserContext(), id); err != nil {
		h.logger.Error("Delete requirement failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MatrixHandler) CreateSkill(c *fiber.Ctx) error {
	var req createSkillRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	skill, err := h.service.CreateSkill(c.UserContext(), &models.Skill{
		Name:           req.Name,
		Code:           req.Code,
		MaxLevel:       req.MaxLevel,
		ValidityMonths: req.ValidityMonths,
	}, req.RevisionLabel)
	if err != nil {
		h.logger.Error("Create skill failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(skill)
}

func (h *MatrixHandler) AddRevision(c *fiber.Ctx) error {
	skillID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid skill ID")
	}
	var req addRevisionRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	rev, err := h.service.AddRevision(c.UserContext(), skillID, req.Label, req.RequiresRetraining)
	if err != nil {
		h.logger.Error("Add revision failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(rev)
}

func (h *MatrixHandler) ActivateRevision(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid revision ID")
	}

	if err := h.service.ActivateRevision(c.UserContext(), id); err != nil {
		h.logger.Error("Activate revision failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MatrixHandler) CreateEmployee(c *fiber.Ctx) error {
	var req createEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	emp, err := h.service.CreateEmployee(c.UserContext(), &models.Employee{
		Name:         req.Name,
		BadgeCode:    req.BadgeCode,
		SiteID:       req.SiteID,
		DepartmentID: req.DepartmentID,
		RoleID:       req.RoleID,
		ProjectIDs:   req.ProjectIDs,
	})
	if err != nil {
		h.logger.Error("Create employee failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.Status(fiber.StatusCreated).JSON(emp)
}

func (h *MatrixHandler) DeleteEmployee(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid employee ID")
	}

	if err := h.service.DeleteEmployee(c.UserContext(), id); err != nil {
		h.logger.Error("Delete employee failed", zap.Error(err))
		return h.mapServiceError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *MatrixHandler) GetEmployeeByBadge(c *fiber.Ctx) error {
	emp, err := h.service.GetEmployeeByBadge(c.UserContext(), c.Params("code"))
	if err != nil {
		return h.mapServiceError(err)
	}
	return c.JSON(emp)
}

// mapServiceError converts service errors to HTTP status codes.
func (h *MatrixHandler) mapServiceError(err error) error {
	switch {
	case errors.Is(err, e.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, e.ErrInvalidInput):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, e.ErrDuplicateScope),
		errors.Is(err, e.ErrAlreadyRevoked),
		errors.Is(err, e.ErrNoActiveRevision),
		errors.Is(err, e.ErrInvalidTransition):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "internal error")
	}
}
