package project

// FileItem is one generated file
type FileItem struct {
	Path    string `json:"path"`    // Relative POSIX path, unique within a generation
	Content string `json:"content"` // Full file text
}

// RequestKind identifies which backend exchange a ticket belongs to
type RequestKind int

const (
	KindGenerate RequestKind = iota // Prompt to file list
	KindWrite                       // File list to disk
)

func (k RequestKind) String() string {
	switch k {
	case KindGenerate:
		return "generate"
	case KindWrite:
		return "write"
	default:
		return "unknown"
	}
}

// Ticket identifies one outstanding request
type Ticket struct {
	ID   string
	Kind RequestKind
}
