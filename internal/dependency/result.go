package dependency

type Status string

const (
	StatusInstalled    Status = "INSTALLED"
	StatusImported     Status = "IMPORTED"
	StatusSatisfied    Status = "SATISFIED"
	StatusNotSatisfied Status = "NOTSATISFIED"
	StatusSkipped      Status = "SKIPPED"
	StatusError        Status = "ERROR"
)

// Result is the per-dependency outcome written to the output sinks.
// Results are transient; nothing is persisted across runs.
type Result struct {
	Dependency string `json:"dependency"`
	Type       string `json:"dependency_type"`
	File       string `json:"file,omitempty"`
	Action     Action `json:"action,omitempty"`
	Status     Status `json:"status"`
	Message    string `json:"message,omitempty"`
}

func NewResult(dep Dependency, action Action, status Status, message string) Result {
	return Result{
		Dependency: dep.DisplayName(),
		Type:       dep.Type,
		File:       dep.DefinitionFile,
		Action:     action,
		Status:     status,
		Message:    message,
	}
}

func InstalledResult(dep Dependency) Result {
	return NewResult(dep, ActionInstall, StatusInstalled, "")
}

func ImportedResult(dep Dependency) Result {
	return NewResult(dep, ActionImport, StatusImported, "")
}

func TestResult(dep Dependency, satisfied bool) Result {
	if satisfied {
		return NewResult(dep, ActionTest, StatusSatisfied, "")
	}
	return NewResult(dep, ActionTest, StatusNotSatisfied, "")
}

func ErrorResult(dep Dependency, action Action, message string) Result {
	return NewResult(dep, action, StatusError, message)
}

func SkippedResult(dep Dependency, message string) Result {
	return NewResult(dep, "", StatusSkipped, message)
}
