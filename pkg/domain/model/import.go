package model

// ImportRequest describes a full import run
type ImportRequest struct {
	DownloadURL   string // Archive URL produced by the content-transfer service
	TargetURL     string // Upload destination passed to the helper CLI
	MountpointURL string // Optional mountpoint descriptor, validated before upload
}

// ImportResult is the structured outcome handed back to the orchestrating
// workflow. It is serialized as JSON on stdout; the workflow decides what
// to do with it. ErrorMessage is filled at the command boundary when a
// pipeline stage failed, instead of crashing the calling workflow.
type ImportResult struct {
	Workspace      string         `json:"workspace"`
	ContentsDir    string         `json:"contents_dir"`
	EntryCount     int            `json:"entry_count"`
	PackagePath    string         `json:"package_path,omitempty"`
	ContentPaths   []string       `json:"content_paths,omitempty"`
	MountpointType MountpointType `json:"mountpoint_type,omitempty"`
	Uploaded       bool           `json:"uploaded,omitempty"`
	ErrorMessage   string         `json:"error_message,omitempty"`
}

// UploadRequest carries everything the helper CLI needs for one upload.
// Token is the one sensitive value; it must never reach logs verbatim.
type UploadRequest struct {
	ZipPath          string // Content package zip within the workspace
	AssetMappingPath string // Optional asset-mapping sidecar, empty if absent
	TargetURL        string
	Token            string `masq:"secret"`
}
