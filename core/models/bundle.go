package models

// Bundle is the persisted output set of one completed generation job.
// It mirrors the metadata.json document written next to the artifacts and
// is never mutated after creation.
type Bundle struct {
	JobID      string        `json:"job_id"`
	Prompt     string        `json:"prompt"`
	Parameters Parameters    `json:"parameters"`
	Files      BundleFiles   `json:"files"`
	Metrics    MetricsRecord `json:"metrics"`
	Status     string        `json:"status"`
}

// BundleFiles lists the artifact file names inside the job directory
type BundleFiles struct {
	Main       string   `json:"main"`
	LODs       []string `json:"lods"`
	Screenshot string   `json:"screenshot"`
}
