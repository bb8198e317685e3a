package jenkins

import "github.com/lilinghai/tidb-testing/core/models"

// StatusFromBuildInfo maps the Jenkins result vocabulary onto the
// closed build status set. A build still marked building is running; an
// empty result on a finished build means Jenkins has not settled it
// yet. Any result token outside the known set maps to created rather
// than failing, so a Jenkins upgrade cannot crash reconciliation.
func StatusFromBuildInfo(info *BuildInfo) models.BuildStatus {
	if info.Building {
		return models.StatusRunning
	}
	switch info.Result {
	case "SUCCESS":
		return models.StatusSucceed
	case "FAILURE", "ABORTED", "UNSTABLE":
		return models.StatusFailed
	case "":
		return models.StatusPending
	default:
		return models.StatusCreated
	}
}
