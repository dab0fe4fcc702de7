package engine

import (
	"testing"
	"time"

	"github.com/0xForelsket/skillmatrix/internal/matrix/models"
	"github.com/0xForelsket/skillmatrix/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	past := now.Add(-24 * time.Hour)
	future := now.AddDate(1, 0, 0)

	cert := func(level int, expiresAt *time.Time, state models.RevisionState) *models.Certification {
		return &models.Certification{
			AchievedLevel: level,
			ExpiresAt:     expiresAt,
			RevisionState: state,
		}
	}

	tests := []struct {
		name     string
		required int
		cert     *models.Certification
		want     models.Status
	}{
		{
			name:     "required without certification",
			required: 2,
			want:     models.StatusMissing,
		},
		{
			name:     "required but expired",
			required: 2,
			cert:     cert(2, &past, models.RevisionActive),
			want:     models.StatusExpired,
		},
		{
			name:     "required at insufficient level",
			required: 2,
			cert:     cert(1, &future, models.RevisionActive),
			want:     models.StatusGap,
		},
		{
			name:     "required and satisfied",
			required: 2,
			cert:     cert(2, &future, models.RevisionActive),
			want:     models.StatusCompliant,
		},
		{
			name:     "exceeding the required level is compliant",
			required: 2,
			cert:     cert(3, &future, models.RevisionActive),
			want:     models.StatusCompliant,
		},
		{
			name:     "not required but held",
			required: 0,
			cert:     cert(1, &future, models.RevisionActive),
			want:     models.StatusExtra,
		},
		{
			name:     "not required and expired",
			required: 0,
			cert:     cert(1, &past, models.RevisionActive),
			want:     models.StatusExpired,
		},
		{
			name:     "not required, not held",
			required: 0,
			want:     models.StatusNone,
		},
		{
			name:     "never-expiring certification",
			required: 2,
			cert:     cert(2, nil, models.RevisionActive),
			want:     models.StatusCompliant,
		},
		{
			name:     "archived revision beats expiry",
			required: 2,
			cert:     cert(2, &past, models.RevisionArchived),
			want:     models.StatusOutdated,
		},
		{
			name:     "archived revision beats gap",
			required: 2,
			cert:     cert(1, &future, models.RevisionArchived),
			want:     models.StatusOutdated,
		},
		{
			name:     "archived revision on an unrequired skill",
			required: 0,
			cert:     cert(1, &future, models.RevisionArchived),
			want:     models.StatusOutdated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.required, tt.cert, now))
		})
	}
}

func TestClassify_ExpiryBoundary(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	// Expiry is strict: a certification expiring exactly at the evaluation
	// instant is still held.
	c := &models.Certification{
		AchievedLevel: 2,
		ExpiresAt:     utils.Ptr(now),
		RevisionState: models.RevisionActive,
	}
	assert.Equal(t, models.StatusCompliant, Classify(2, c, now))

	c.ExpiresAt = utils.Ptr(now.Add(-time.Nanosecond))
	assert.Equal(t, models.StatusExpired, Classify(2, c, now))
}
