package cache

import "fmt"

type Prefix string

const (
	// Stats namespaces the cached aggregate snapshot.
	Stats Prefix = "stats"
)

func (p Prefix) Key(id string) string {
	return fmt.Sprintf("%s:%s", p, id)
}
