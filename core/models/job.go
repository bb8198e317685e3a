package models

import "fmt"

// Job is a logical workload name from the closed set of release jobs.
type Job string

const (
	JobBuildTiDB    Job = "build_tidb"
	JobBuildTiKV    Job = "build_tikv"
	JobBuildPD      Job = "build_pd"
	JobBuildTiFlash Job = "build_tiflash"
	JobBuildTools   Job = "build_tools"
	JobReleaseTest  Job = "release_test"
)

// Jobs lists every known job in declaration order.
func Jobs() []Job {
	return []Job{
		JobBuildTiDB,
		JobBuildTiKV,
		JobBuildPD,
		JobBuildTiFlash,
		JobBuildTools,
		JobReleaseTest,
	}
}

// ParseJob validates a job name supplied by a caller.
func ParseJob(name string) (Job, error) {
	for _, j := range Jobs() {
		if string(j) == name {
			return j, nil
		}
	}
	return "", fmt.Errorf("unknown job %q", name)
}
