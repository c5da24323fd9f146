package domain

import "time"

// AttachmentTarget binds an attachment to a single work item, or to the
// project itself when Kind is empty.
type AttachmentTarget struct {
	Kind ItemKind
	ID   string
}

// ProjectLevel reports whether the target is the project rather than an item.
func (t AttachmentTarget) ProjectLevel() bool {
	return t.Kind == "" && t.ID == ""
}

// Validate allows only tasks, RFIs and submittals as item targets.
func (t AttachmentTarget) Validate() error {
	if t.ProjectLevel() {
		return nil
	}
	switch t.Kind {
	case KindTask, KindRFI, KindSubmittal:
	default:
		return &ValidationError{Field: "target", Message: "attachments bind to a task, RFI or submittal"}
	}
	if t.ID == "" {
		return &ValidationError{Field: "target", Message: "item id is required"}
	}
	return nil
}

// PathSegment is the storage key segment for the target.
func (t AttachmentTarget) PathSegment() string {
	if t.ProjectLevel() {
		return "general"
	}
	return string(t.Kind) + "s/" + t.ID
}

type Attachment struct {
	ID          string
	ProjectID   string
	Target      AttachmentTarget
	FileName    string
	StoragePath string
	PublicURL   string
	FileSize    int64
	FileType    string
	UploadedBy  string
	CreatedAt   time.Time
}
