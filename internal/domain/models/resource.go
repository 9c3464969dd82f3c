package models

// ResourceType discriminates the two resource kinds a grant or a
// permission decision can refer to.
type ResourceType string

const (
	ResourceFolder   ResourceType = "folder"
	ResourceDocument ResourceType = "document"
)

// Resource is the closed set of entities the access engine operates on.
// Only *Folder and *Document implement it.
type Resource interface {
	isResource()
}
