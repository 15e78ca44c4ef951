package iface

import (
	"strings"
)

// isKernelConflictError checks for transient errors worth retrying.
func isKernelConflictError(err error) bool {
	if err == nil {
		return false
	}

	errorMsg := strings.ToLower(err.Error())
	conflictIndicators := []string{
		"device is busy",
		"device or resource busy",
		"resource temporarily unavailable",
		"operation already in progress",
	}

	for _, indicator := range conflictIndicators {
		if strings.Contains(errorMsg, indicator) {
			return true
		}
	}

	return false
}
