package project

import (
	"errors"

	"github.com/google/uuid"
)

const (
	// DefaultPrompt seeds a fresh session
	DefaultPrompt = "Create a simple todo app with FastAPI and React"

	// DefaultRootDir is where files are written unless the user changes it
	DefaultRootDir = "generated_project"

	// genericFailure is shown when a failure carries no message at all
	genericFailure = "Request failed"
)

var (
	// ErrBusy is returned by Begin while another request is pending
	ErrBusy = errors.New("a request is already in progress")

	// ErrStaleTicket is returned when a completion does not match the pending request
	ErrStaleTicket = errors.New("completion does not match the pending request")
)

// Session is the in-memory state of one editing session.
// Every method returns a new value; a Session is never mutated in place.
type Session struct {
	Prompt       string
	Files        []FileItem
	SelectedPath string // Empty means no selection
	RootDir      string
	Loading      bool
	Error        string // Empty means no error

	pending    Ticket
	generation uint64 // Bumped every time Files is replaced
}

// New creates a session with an empty file list and no selection
func New(prompt, rootDir string) Session {
	return Session{
		Prompt:  prompt,
		RootDir: rootDir,
	}
}

// WithPrompt returns the session with the prompt text replaced
func (s Session) WithPrompt(prompt string) Session {
	s.Prompt = prompt
	return s
}

// WithRootDir returns the session with the target directory replaced
func (s Session) WithRootDir(dir string) Session {
	s.RootDir = dir
	return s
}

// Select changes the selected path. It is allowed in any state and
// never touches Loading.
func (s Session) Select(path string) Session {
	s.SelectedPath = path
	return s
}

// CanWrite reports whether a write request may be issued
func (s Session) CanWrite() bool {
	return !s.Loading && len(s.Files) > 0
}

// Generation identifies the current file list
func (s Session) Generation() uint64 {
	return s.generation
}

// Pending returns the outstanding ticket, if any
func (s Session) Pending() (Ticket, bool) {
	return s.pending, s.Loading
}

// Begin moves the session into the loading state for a new request.
// It refuses while another request is pending.
func (s Session) Begin(kind RequestKind) (Session, Ticket, error) {
	if s.Loading {
		return s, Ticket{}, ErrBusy
	}
	t := Ticket{ID: uuid.NewString(), Kind: kind}
	s.Loading = true
	s.Error = ""
	s.pending = t
	return s, t, nil
}

// GenerateSucceeded replaces the file list and selects the first file
func (s Session) GenerateSucceeded(t Ticket, files []FileItem) (Session, error) {
	if !s.owns(t) || t.Kind != KindGenerate {
		return s, ErrStaleTicket
	}
	s.Files = append([]FileItem(nil), files...)
	s.generation++
	s.SelectedPath = ""
	if len(s.Files) > 0 {
		s.SelectedPath = s.Files[0].Path
	}
	return s.settle(""), nil
}

// WriteSucceeded settles a write without touching file state
func (s Session) WriteSucceeded(t Ticket) (Session, error) {
	if !s.owns(t) || t.Kind != KindWrite {
		return s, ErrStaleTicket
	}
	return s.settle(""), nil
}

// Failed settles a request with an error message; files and selection are kept
func (s Session) Failed(t Ticket, err error) (Session, error) {
	if !s.owns(t) {
		return s, ErrStaleTicket
	}
	msg := genericFailure
	if err != nil && err.Error() != "" {
		msg = err.Error()
	}
	return s.settle(msg), nil
}

// Selected looks up the selected file. A selected path that matches no
// file counts as no selection.
func (s Session) Selected() (FileItem, bool) {
	if s.SelectedPath == "" {
		return FileItem{}, false
	}
	for _, f := range s.Files {
		if f.Path == s.SelectedPath {
			return f, true
		}
	}
	return FileItem{}, false
}

func (s Session) owns(t Ticket) bool {
	return s.Loading && t.ID != "" && t == s.pending
}

func (s Session) settle(errMsg string) Session {
	s.Loading = false
	s.Error = errMsg
	s.pending = Ticket{}
	return s
}
