package diagfmt

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto shows paths relative to BaseDir when they are below it.
	PathModeAuto PathMode = iota
	// PathModeAbsolute always uses absolute paths.
	PathModeAbsolute
	PathModeRelative
	PathModeBasename
)

// PrettyOpts configures pretty-printing of diagnostics.
type PrettyOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	Width    int // message width in cells, 0 - unlimited
	// ShowNotes prints the notes below each diagnostic.
	ShowNotes  bool
	ShowSource bool
}

// JSONOpts configures JSON output of diagnostics.
type JSONOpts struct {
	PathMode      PathMode
	BaseDir       string
	Max           int // output cutoff, not Bag
	IncludeNotes  bool
	IncludeSource bool
}

// FragmentOpts configures output of synthesized fragments.
type FragmentOpts struct {
	Color    bool
	PathMode PathMode
	BaseDir  string
	// Method limits output to one method when non-empty.
	Method string
}
