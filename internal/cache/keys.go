package cache

import (
	"fmt"

	"github.com/google/uuid"
)

// PatientPrefix is the prefix shared by every patient cache entry of a
// tenant. Patient and appointment writes invalidate it.
func PatientPrefix(tenantID uuid.UUID) string {
	return fmt.Sprintf("tenant:%s:patients:", tenantID)
}

// PatientListKey is the key of one cached patient list. A nil branch is the
// unfiltered list.
func PatientListKey(tenantID uuid.UUID, branchID *uuid.UUID) string {
	filter := "all"
	if branchID != nil {
		filter = branchID.String()
	}
	return PatientPrefix(tenantID) + "list:" + filter
}
