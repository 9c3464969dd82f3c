package config

const (
	// MaxFolderDepth bounds every walk up the folder tree (collaborator
	// inheritance, project root discovery, breadcrumbs). Parent links
	// carry no acyclicity guarantee at write time, so traversal must
	// terminate on its own; anything beyond the bound reads as absent.
	MaxFolderDepth = 10

	// MaxDepartmentAncestorDepth bounds the walk up from a user's
	// department when matching a folder's owning department.
	MaxDepartmentAncestorDepth = 5

	// MaxDepartmentManagerDepth bounds the walk up from a folder's
	// department when checking manager downward access.
	MaxDepartmentManagerDepth = 10

	// MaxDepartmentChainDepth bounds the full department ancestor chain
	// collected for the cross-resource permission report.
	MaxDepartmentChainDepth = 10

	// MaxCollaboratorListDepth bounds the ancestor collection used when
	// listing a resource's collaborators, inherited grants included.
	MaxCollaboratorListDepth = 20

	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255) and provide
	// reasonable UX (names should be short and descriptive).
	MaxFolderNameLength = 255

	// MaxDocumentNameLength is the maximum length for document names.
	// Same limit as folder names for consistency.
	MaxDocumentNameLength = 255

	// MaxProjectNameLength is the maximum length for project names.
	MaxProjectNameLength = 255

	// MaxDepartmentNameLength is the maximum length for department names.
	MaxDepartmentNameLength = 255
)
