package project

// Selector memoizes Session.Selected. The lookup is only recomputed when
// the file list generation or the selected path changes.
type Selector struct {
	valid      bool
	generation uint64
	path       string
	file       FileItem
	found      bool

	computes int
}

// Select returns the selected file of s
func (sel *Selector) Select(s Session) (FileItem, bool) {
	if sel.valid && sel.generation == s.generation && sel.path == s.SelectedPath {
		return sel.file, sel.found
	}
	sel.file, sel.found = s.Selected()
	sel.generation = s.generation
	sel.path = s.SelectedPath
	sel.valid = true
	sel.computes++
	return sel.file, sel.found
}
