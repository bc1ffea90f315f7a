// Package shell is an interactive, read-only query shell over computed
// budget results.
//
// The shell holds a JSON copy of what it is given. Queries are jsonpath
// expressions evaluated against that copy, e.g.
//
//	$.accounts.checking.current.balance
//	$.spend[?(@.category == "food")].amount
package shell

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/budget/renderer"
)

// Prompt is printed before each line is read.
const Prompt = "budget> "

// Shell evaluates queries against a frozen document.
type Shell struct {
	doc  map[string]any
	vars []string
}

// New returns a shell over a copy of vars. Each var is exposed as a top
// level member of the document, e.g. "$.accounts".
func New(vars map[string]any) (*Shell, error) {
	raw, err := json.Marshal(vars)
	if err != nil {
		return nil, fmt.Errorf("freezing shell variables: %w", err)
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("freezing shell variables: %w", err)
	}
	return &Shell{doc: doc, vars: slices.Sorted(maps.Keys(doc))}, nil
}

// errQuit is returned by Eval when the user asks to leave.
var errQuit = errors.New("quit")

// Eval evaluates a single input line and returns what to print.
func (s *Shell) Eval(line string) (string, error) {
	line = strings.TrimSpace(line)
	switch line {
	case "":
		return "", nil
	case "help", "?":
		return help, nil
	case "vars":
		return strings.Join(s.vars, "\n") + "\n", nil
	case "quit", "exit":
		return "", errQuit
	}

	if rest, ok := strings.CutPrefix(line, "table"); ok && (rest == "" || rest[0] == ' ') {
		rest = strings.TrimSpace(rest)
		if rest == "" {
			return "", errors.New("usage: table <query>")
		}
		v, err := s.query(rest)
		if err != nil {
			return "", err
		}
		columns, rows := flatten(v)
		return renderer.Table(columns, rows), nil
	}

	v, err := s.query(line)
	if err != nil {
		return "", err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("query %q: %w", line, err)
	}
	return string(out) + "\n", nil
}

func (s *Shell) query(line string) (any, error) {
	query := line
	if !strings.HasPrefix(query, "$") {
		// bare variable names are shorthands for a path from the root.
		query = "$." + query
	}
	v, err := jsonpath.Get(query, any(s.doc))
	if err != nil {
		return nil, fmt.Errorf("query %q: %w", line, err)
	}
	return v, nil
}

// flatten lays v out as table rows: one row per element of a list, or per
// member of an object, the member name going in the "key" column. Nested
// objects are spread over dotted columns, e.g. "balances.checking". Columns
// come in order of first appearance.
func flatten(v any) (columns []string, rows [][]string) {
	var records []map[string]string
	add := func(key string, item any) {
		rec := make(map[string]string)
		if key != "" {
			rec["key"] = key
		}
		spread(rec, "", item)
		records = append(records, rec)
		if key != "" && !slices.Contains(columns, "key") {
			columns = append(columns, "key")
		}
		for _, c := range slices.Sorted(maps.Keys(rec)) {
			if !slices.Contains(columns, c) {
				columns = append(columns, c)
			}
		}
	}

	switch v := v.(type) {
	case []any:
		for _, item := range v {
			add("", item)
		}
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(v)) {
			add(key, v[key])
		}
	default:
		add("", v)
	}

	for _, rec := range records {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = rec[c]
		}
		rows = append(rows, row)
	}
	return columns, rows
}

// spread writes v into rec under prefix, recursing into objects.
func spread(rec map[string]string, prefix string, v any) {
	obj, ok := v.(map[string]any)
	if !ok {
		name := prefix
		if name == "" {
			name = "value"
		}
		rec[name] = text(v)
		return
	}
	for k, item := range obj {
		if prefix != "" {
			k = prefix + "." + k
		}
		spread(rec, k, item)
	}
}

// text formats a scalar for a table cell. Lists are kept as compact JSON.
func text(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case json.Number:
		return v.String()
	case bool:
		return fmt.Sprint(v)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

// Run reads lines from in until it is exhausted, the user quits or ctx is
// done. Query errors are printed and do not end the session.
func (s *Shell) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	fmt.Fprintf(out, "Variables: %s. Type 'help' for help.\n", strings.Join(s.vars, ", "))
	for {
		fmt.Fprint(out, Prompt)
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := s.Eval(scanner.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprint(out, res)
	}
}

const help = `Queries are jsonpath expressions over the variables, for instance:

  $.accounts                     all account summaries
  accounts.checking.current      the latest snapshot of "checking"
  $.snapshots[?(@.account == "checking")].balance
  $.spend[*].amount

Commands:
  table <query>  render the result as a markdown table
  vars           list the variables
  help           show this help
  quit           leave the shell
`
