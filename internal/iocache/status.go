package iocache

import (
	"fmt"

	"github.com/mergerisk/mergerisk/schema"
)

// PrintCacheStatus prints cache status information.
func PrintCacheStatus(status schema.CacheStatus) {
	fmt.Printf("Cache Backend: %s\n", status.Backend)
	fmt.Printf("Total Entries: %d\n", status.Entries)
}
