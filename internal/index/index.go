package index

// PostIndex is the read/write surface of the post index. The preview server
// and the MCP server depend on it rather than on *DB.
type PostIndex interface {
	UpsertPost(p PostRow, body string, links []string) error
	DeletePost(slug string) error
	GetChecksum(slug string) (string, error)
	GetPost(slug string) (*PostRow, error)
	ListPosts(limit, offset int, tag string) ([]PostRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Backlinks(slug string) ([]string, error)
	Tags() ([]TagCount, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

var _ PostIndex = (*DB)(nil)
