// Package heap implements an embeddable, single-file, append-only key-value store.
//
// A heap is a bare sequence of concatenated, self-framing records. There is no
// file header, no index, and no separate write-ahead log - the file itself is
// the log. Each record's length header lives at the *tail* of the record
// rather than the head, which lets a reverse scan locate record boundaries
// by reading backwards from the end of the file, without ever building an
// index.
//
// Three operations are exported: [Heap.Put], [Heap.Get], and [Heap.Iterate].
// Put appends a record. Get and Iterate are both built on a reverse,
// deduplicating scan that yields the most recent value for every key -
// shadowed (overwritten) values remain on disk but are never surfaced.
//
// heap is not a durable database. There is no fsync, no checksum, no
// compaction, and no crash-consistency proof; a torn or partially-written
// trailing record at the tail of the file is treated as corruption the next
// time the file is scanned. This is a deliberate, narrow scope: a heap is a
// primitive for something else (a higher-level store, a cache, a host
// language binding) to build on.
//
// heap is not safe for concurrent use. At most one [Iterator] may be alive
// per [Heap] at a time, and no [Heap.Put] may run while an [Iterator] is
// alive; both touch the same underlying file. Callers needing concurrent
// access must provide their own mutual exclusion.
package heap
