package availability

import (
	"strings"

	"github.com/imamik/dwhprov/internal/provisioning"
)

// NotFoundStatus is reported when the cluster disappeared while waiting.
const NotFoundStatus = "ClusterNotFound"

var failedStatuses = map[string]bool{
	"failed":           true,
	"deleting":         true,
	"hardware-failure": true,
	"storage-full":     true,
	NotFoundStatus:     true,
}

// Classify maps a service status string onto the waiter's states.
func Classify(status string) provisioning.ClusterStatus {
	switch {
	case status == "available":
		return provisioning.StatusAvailable
	case failedStatuses[status], strings.HasPrefix(status, "incompatible-"):
		return provisioning.StatusFailed
	default:
		return provisioning.StatusCreating
	}
}
