package engine

import (
	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/google/uuid"
)

type certKey struct {
	employeeID uuid.UUID
	skillID    uuid.UUID
}

// CertificationIndex provides O(1) retrieval of an employee's current
// certification for a skill.
type CertificationIndex map[certKey]*models.Certification

// NewCertificationIndex indexes active certifications by (employee, skill).
// Revoked records are never indexed. If re-certification left more than one
// active record for a pair, the most recently achieved one wins; ties go to
// the later row.
func NewCertificationIndex(certs []models.Certification) CertificationIndex {
	idx := make(CertificationIndex, len(certs))
	for i := range certs {
		cert := &certs[i]
		if cert.Revoked() {
			continue
		}
		key := certKey{employeeID: cert.EmployeeID, skillID: cert.SkillID}
		if current, ok := idx[key]; ok && cert.AchievedAt.Before(current.AchievedAt) {
			continue
		}
		idx[key] = cert
	}
	return idx
}

// Lookup returns the employee's current certification for the skill, or nil.
func (ix CertificationIndex) Lookup(employeeID, skillID uuid.UUID) *models.Certification {
	return ix[certKey{employeeID: employeeID, skillID: skillID}]
}
