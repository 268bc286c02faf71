package submission

import (
	"context"
	"errors"
)

const (
	// DefaultOutput is shown before the first submission settles.
	DefaultOutput = "Generated XML will appear here..."

	// FailureOutput replaces the output whenever a generation attempt fails.
	FailureOutput = "Error generating XML. Please check the console for details."

	// MissingFileNotice is shown when submit is attempted without a WSDL file.
	MissingFileNotice = "Please upload a WSDL file."

	// ArtifactName is the file name offered by every download.
	ArtifactName = "soapui-project.xml"

	// ArtifactMediaType tags the downloaded bytes.
	ArtifactMediaType = "application/xml"
)

var (
	ErrMissingFile       = errors.New("wsdl file is required")
	ErrGenerationFailed  = errors.New("generation failed")
	ErrSubmissionPending = errors.New("a submission is already in progress")
)

// File is an opaque uploaded blob with the name the user picked it under.
type File struct {
	Name string
	Data []byte
}

// Request is built fresh for each submission.
type Request struct {
	File File
	Text string
}

// State is a point-in-time copy of a controller's fields.
type State struct {
	Text    string `json:"text"`
	File    *File  `json:"-"`
	Output  string `json:"output"`
	Pending bool   `json:"pending"`
}

// FileName returns the selected file's name, or "" when none is selected.
func (s State) FileName() string {
	if s.File == nil {
		return ""
	}
	return s.File.Name
}

// Artifact is what a download hands to the save-as capability.
type Artifact struct {
	Name      string
	MediaType string
	Data      []byte
}

// Generator turns a request into raw project XML.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Saver triggers a one-shot save-as of an artifact. Implementations must
// release any transient resource they create before returning.
type Saver interface {
	Save(ctx context.Context, a Artifact) error
}

// Notifier surfaces short user-facing notices (the browser alert equivalent).
type Notifier interface {
	Notify(ctx context.Context, message string)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string)

func (f NotifierFunc) Notify(ctx context.Context, message string) { f(ctx, message) }

// SaverFunc adapts a function to Saver.
type SaverFunc func(ctx context.Context, a Artifact) error

func (f SaverFunc) Save(ctx context.Context, a Artifact) error { return f(ctx, a) }
