// Command heapcheck scans a heap file offline and reports whether it is
// well-formed. It never writes records; it opens the file through
// heap.Open, which opens it read-write in append mode and creates it if it
// does not exist.
//
// Exit codes:
//
//	0  heap scanned cleanly
//	1  the heap is corrupt
//	2  usage error or the file could not be opened
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/dergut/zomdb/pkg/heap"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("heapcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.BoolP("verbose", "v", false, "print every live key as it is found")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "usage: heapcheck [-v] <path>")
		return 2
	}
	path := fs.Arg(0)

	h, err := heap.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "heapcheck: %v\n", err)
		return 2
	}
	defer h.Close()

	it, err := h.Iterate()
	if err != nil {
		fmt.Fprintf(stderr, "heapcheck: %v\n", err)
		return 2
	}

	var liveKeys int
	for it.Next() {
		liveKeys++
		if *verbose {
			key, _ := it.Tuple()
			fmt.Fprintf(stdout, "%s\n", key)
		}
	}

	if err := it.Err(); err != nil {
		var corrupt *heap.CorruptionError
		if errors.As(err, &corrupt) {
			fmt.Fprintf(stderr, "heapcheck: corrupt record at offset %d: %v\n", corrupt.Offset, corrupt.Err)
			return 1
		}
		fmt.Fprintf(stderr, "heapcheck: %v\n", err)
		return 1
	}

	fmt.Fprintf(stdout, "ok: %d live key(s)\n", liveKeys)
	return 0
}
