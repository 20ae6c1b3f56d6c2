package domain

// GraphQL wire types for the organisation repositories query. Field names
// mirror the API response so the executor's JSON decodes directly into them.

// PageInfo carries the pagination state of a repositories page.
type PageInfo struct {
	HasNextPage bool   `json:"hasNextPage"`
	EndCursor   string `json:"endCursor"`
}

// RepoNode is one repository node from a repositories page.
type RepoNode struct {
	Name             string             `json:"name"`
	URL              string             `json:"url"`
	Visibility       Visibility         `json:"visibility"`
	IsArchived       bool               `json:"isArchived"`
	DefaultBranchRef *BranchRef         `json:"defaultBranchRef"`
	Languages        LanguageConnection `json:"languages"`
	Object           *TreeObject        `json:"object"`
}

// BranchRef is a repository branch reference with its head commit.
type BranchRef struct {
	Name   string        `json:"name"`
	Target *CommitTarget `json:"target"`
}

// CommitTarget carries the head commit timestamp of a branch.
type CommitTarget struct {
	CommittedDate string `json:"committedDate"`
}

// LanguageConnection is the size-ordered language edge list of a repository.
type LanguageConnection struct {
	Edges     []LanguageEdge `json:"edges"`
	TotalSize int            `json:"totalSize"`
}

// LanguageEdge is one language with its byte size.
type LanguageEdge struct {
	Size int          `json:"size"`
	Node LanguageNode `json:"node"`
}

// LanguageNode names a language.
type LanguageNode struct {
	Name string `json:"name"`
}

// TreeObject is the shallow file-tree snapshot taken at HEAD.
type TreeObject struct {
	Entries []TreeEntry `json:"entries"`
}

// TreeEntry is a file or directory in the tree snapshot. Object carries
// blob text for files and one further level of entries for directories.
type TreeEntry struct {
	Name   string       `json:"name"`
	Type   string       `json:"type"`
	Object *EntryObject `json:"object"`
}

// EntryObject is the blob or subtree behind a tree entry.
type EntryObject struct {
	Text    *string     `json:"text"`
	Entries []TreeEntry `json:"entries"`
}
