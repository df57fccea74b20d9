package output

// ValidationOutput is the JSON result of the validate command.
type ValidationOutput struct {
	Passed  bool               `json:"passed"`
	DataDir string             `json:"data_dir"`
	Files   []FileInfo         `json:"files,omitempty"`
	Failure *ValidationFailure `json:"failure,omitempty"`
}

// FileInfo describes one validated input file.
type FileInfo struct {
	Name string `json:"name"`
	Rows int    `json:"rows"`
}

// ValidationFailure is the structured form of the first validation failure.
type ValidationFailure struct {
	Kind     string   `json:"kind"`
	Rule     string   `json:"rule,omitempty"`
	File     string   `json:"file,omitempty"`
	Column   string   `json:"column,omitempty"`
	Line     int      `json:"line,omitempty"`
	Header   bool     `json:"header,omitempty"`
	Term     string   `json:"term,omitempty"`
	Allowed  []string `json:"allowed,omitempty"`
	Message  string   `json:"message"`
	Location string   `json:"location,omitempty"`
}

// BuildOutput is the JSON result of the build and check commands.
type BuildOutput struct {
	Outputs      []string `json:"outputs"`
	LatestIter   int64    `json:"latest_iter"`
	OKRate       float64  `json:"ok_rate"`
	SuiteVersion string   `json:"suite_version"`
	Checked      bool     `json:"checked,omitempty"`
}
