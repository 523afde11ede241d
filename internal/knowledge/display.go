package knowledge

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

var rule = strings.Repeat("-", 72)

// Render prints a human-readable view of both table levels to w, showing
// which bucket every section and entry lives in.
func Render(w io.Writer, kb *Base) error {
	bw := bufio.NewWriter(w)
	lastBucket := -1
	for _, s := range kb.Dump() {
		if s.Bucket != lastBucket {
			fmt.Fprintf(bw, "section %d:\n", s.Bucket)
			lastBucket = s.Bucket
		}
		fmt.Fprintf(bw, "%s\n%s:\n", rule, s.Intent)
		renderEntries(bw, s.Entries)
		fmt.Fprintln(bw, rule)
	}
	return bw.Flush()
}

func renderEntries(w io.Writer, entries []Entry) {
	for i := 0; i < len(entries); {
		bucket := entries[i].Bucket
		fmt.Fprintf(w, "\thashtable[%d]: ", bucket)
		for ; i < len(entries) && entries[i].Bucket == bucket; i++ {
			fmt.Fprintf(w, "{ %s=%s } -> ", entries[i].Key, entries[i].Answer)
		}
		fmt.Fprintln(w, "NULL")
	}
}
