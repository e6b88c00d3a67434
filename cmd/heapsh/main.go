// Command heapsh is an interactive shell for exploring a heap file.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/peterh/liner"
	flag "github.com/spf13/pflag"

	"github.com/dergut/zomdb/internal/heaprc"
	"github.com/dergut/zomdb/pkg/heap"
)

var commands = []string{
	"put", "get", "iter", "len", "info", "help", "exit", "quit",
}

func main() {
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: heapsh <path>")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := heaprc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "heapsh: loading config: %v\n", err)
		os.Exit(1)
	}

	h, err := heap.Open(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "heapsh: opening %s: %v\n", path, err)
		os.Exit(1)
	}
	defer h.Close()

	r := &repl{heap: h, path: path, cfg: cfg}
	if err := r.run(); err != nil {
		fmt.Fprintf(os.Stderr, "heapsh: %v\n", err)
		os.Exit(1)
	}
}

type repl struct {
	heap  *heap.Heap
	path  string
	cfg   heaprc.Config
	liner *liner.State
}

func (r *repl) historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".heapsh_history"
	}
	return filepath.Join(home, ".heapsh_history")
}

func (r *repl) run() error {
	r.liner = liner.NewLiner()
	defer r.liner.Close()

	r.liner.SetCtrlCAborts(true)
	r.liner.SetCompleter(r.completer)

	if f, err := os.Open(r.historyFile()); err == nil {
		r.liner.ReadHistory(f)
		f.Close()
	}

	fmt.Printf("heapsh: %s\n", r.path)
	fmt.Println(`type "help" for a list of commands`)

	for {
		line, err := r.liner.Prompt("heap> ")
		if err == liner.ErrPromptAborted || err == io.EOF {
			fmt.Println()
			break
		}
		if err != nil {
			return err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r.liner.AppendHistory(line)

		if r.dispatch(line) {
			break
		}
	}

	if f, err := os.Create(r.historyFile()); err == nil {
		r.liner.WriteHistory(f)
		f.Close()
	}
	return nil
}

func (r *repl) completer(line string) []string {
	var out []string
	for _, c := range commands {
		if strings.HasPrefix(c, line) {
			out = append(out, c)
		}
	}
	return out
}

// dispatch runs one command line and reports whether the REPL should exit.
func (r *repl) dispatch(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "put":
		r.cmdPut(args)
	case "get":
		r.cmdGet(args)
	case "iter":
		r.cmdIter(args)
	case "len":
		r.cmdLen()
	case "info":
		r.cmdInfo()
	case "help":
		r.cmdHelp()
	case "exit", "quit", "q":
		return true
	default:
		fmt.Printf("unknown command %q, type \"help\" for a list\n", cmd)
	}
	return false
}

// parseBytes decodes tok as hex if it is prefixed with "0x", otherwise
// treats it literally as UTF-8 text. Mirrors the donor REPL's own
// hex-or-text heuristic for key/value arguments.
func parseBytes(tok string) ([]byte, error) {
	if rest, ok := strings.CutPrefix(tok, "0x"); ok {
		return hex.DecodeString(rest)
	}
	return []byte(tok), nil
}

// formatBytes renders b for display, as hex if cfg.Format == "hex",
// otherwise as plain text (bytes are printed as-is, whether or not they
// are valid UTF-8).
func (r *repl) formatBytes(b []byte) string {
	if r.cfg.Format == "hex" {
		return "0x" + hex.EncodeToString(b)
	}
	return string(b)
}

func (r *repl) cmdPut(args []string) {
	if len(args) < 1 {
		fmt.Println("usage: put <key> [value]")
		return
	}
	key, err := parseBytes(args[0])
	if err != nil {
		fmt.Printf("error: invalid key: %v\n", err)
		return
	}
	value, err := parseBytes(strings.Join(args[1:], " "))
	if err != nil {
		fmt.Printf("error: invalid value: %v\n", err)
		return
	}

	if err := r.heap.Put(key, value); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println("ok")
}

func (r *repl) cmdGet(args []string) {
	if len(args) != 1 {
		fmt.Println("usage: get <key>")
		return
	}
	key, err := parseBytes(args[0])
	if err != nil {
		fmt.Printf("error: invalid key: %v\n", err)
		return
	}

	value, ok, err := r.heap.Get(key)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	if !ok {
		fmt.Println("not found")
		return
	}
	fmt.Println(r.formatBytes(value))
}

func (r *repl) cmdIter(args []string) {
	limit := r.cfg.DefaultLimit
	if len(args) == 1 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			fmt.Println("usage: iter [limit]")
			return
		}
		limit = n
	}

	it, err := r.heap.Iterate()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	count := 0
	for it.Next() {
		key, value := it.Tuple()
		fmt.Printf("%s = %s\n", r.formatBytes(key), r.formatBytes(value))
		count++
		if limit > 0 && count >= limit {
			break
		}
	}
	if err := it.Err(); err != nil {
		fmt.Printf("error: %v\n", err)
	}
}

// cmdLen performs a full scan to count live keys: the heap format carries
// no header, so there is nothing to cache this in between calls.
func (r *repl) cmdLen() {
	it, err := r.heap.Iterate()
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	count := 0
	for it.Next() {
		count++
	}
	if err := it.Err(); err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Println(count)
}

func (r *repl) cmdInfo() {
	fi, err := os.Stat(r.path)
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}
	fmt.Printf("path:   %s\n", r.path)
	fmt.Printf("size:   %d bytes\n", fi.Size())
	fmt.Printf("format: %s\n", r.cfg.Format)
	fmt.Printf("limits: key<=%d bytes, value<=%d bytes\n", heap.MaxKeySize, heap.MaxValueSize)
}

func (r *repl) cmdHelp() {
	fmt.Println(`commands:
  put <key> [value]   append a record (hex with a 0x prefix, else text)
  get <key>            print the newest value for key
  iter [limit]         print every live key/value, newest first
  len                  count live keys with a full scan
  info                 print the open heap file's path, size, and limits
  help                 show this message
  exit, quit, q        leave heapsh`)
}
