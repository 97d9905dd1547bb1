package index

// PageIndex is the set of index operations used by the service and transports.
type PageIndex interface {
	UpsertPage(p PageRow, body string, links []string) error
	DeletePage(path string) error
	GetChecksum(path string) (string, error)
	GetPage(path string) (*PageRow, error)
	ListPages(limit, offset int, tag, sort string) ([]PageRow, int, error)
	Search(query string, limit int) ([]SearchResult, error)
	Graph() ([]GraphNode, []GraphLink, error)
	Backlinks(target string) ([]string, error)
	AllChecksums() (map[string]string, error)
	Close() error
}

var _ PageIndex = (*DB)(nil)
