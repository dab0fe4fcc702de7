package engine

import (
	"time"

	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
)

// Classify assigns a compliance status from the effective required level,
// the employee's current certification (nil if none) and the evaluation
// instant. Precedence with a certification present: outdated revision, then
// expiry, then level. A nil ExpiresAt never expires.
func Classify(requiredLevel int, cert *models.Certification, now time.Time) models.Status {
	if cert == nil {
		if requiredLevel > 0 {
			return models.StatusMissing
		}
		return models.StatusNone
	}
	if cert.RevisionState == models.RevisionArchived {
		return models.StatusOutdated
	}
	if cert.ExpiresAt != nil && cert.ExpiresAt.Before(now) {
		return models.StatusExpired
	}
	if requiredLevel == 0 {
		return models.StatusExtra
	}
	if cert.AchievedLevel < requiredLevel {
		return models.StatusGap
	}
	return models.StatusCompliant
}
