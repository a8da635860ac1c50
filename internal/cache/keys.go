package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func AssessmentKey(tenantID, patientID uuid.UUID) string {
	return fmt.Sprintf("assessment:%s:%s", tenantID, patientID)
}

func BaselineStatusKey(tenantID, patientID uuid.UUID) string {
	return fmt.Sprintf("baseline:%s:%s", tenantID, patientID)
}

func RateLimitKey(keyPrefix string) string {
	return fmt.Sprintf("ratelimit:%s", keyPrefix)
}
