package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"vibe_studio/internal/project"
)

var (
	// ErrNonJSONOutput means the model reply could not be decoded
	ErrNonJSONOutput = errors.New("Model returned non-JSON output") //nolint:staticcheck // surfaced verbatim as the API detail

	// ErrInvalidFiles means the reply decoded but a file entry is unusable
	ErrInvalidFiles = errors.New("Model returned an invalid file list") //nolint:staticcheck // surfaced verbatim as the API detail
)

// Result is a decoded generation
type Result struct {
	Files []project.FileItem `json:"files"`
	Meta  map[string]any     `json:"meta"`
}

type rawFile struct {
	Path    *string `json:"path"`
	Content *string `json:"content"`
}

// ParseOutput decodes a model reply into files. Markdown fences around
// the JSON are tolerated, as is a bare array of files.
func ParseOutput(raw string) (Result, error) {
	cleaned := stripFences(raw)

	var body struct {
		Files []rawFile      `json:"files"`
		Meta  map[string]any `json:"meta"`
	}
	if err := json.Unmarshal([]byte(cleaned), &body); err != nil {
		var bare []rawFile
		if errArr := json.Unmarshal([]byte(cleaned), &bare); errArr != nil {
			return Result{}, fmt.Errorf("%w: %v", ErrNonJSONOutput, err)
		}
		body.Files = bare
	}

	files := make([]project.FileItem, 0, len(body.Files))
	for i, f := range body.Files {
		if f.Path == nil || strings.TrimSpace(*f.Path) == "" {
			return Result{}, fmt.Errorf("%w: file %d has no path", ErrInvalidFiles, i)
		}
		if f.Content == nil {
			return Result{}, fmt.Errorf("%w: file %q has no content", ErrInvalidFiles, *f.Path)
		}
		files = append(files, project.FileItem{Path: *f.Path, Content: *f.Content})
	}

	meta := body.Meta
	if meta == nil {
		meta = map[string]any{}
	}

	return Result{Files: files, Meta: meta}, nil
}

// stripFences removes a surrounding ``` or ```json block
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
