package docs

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

const (
	bashSetup    = "bash setup"
	bashRun      = "bash run"
	consoleCheck = "console check"
	bashCheck    = "bash check"
)

func TestTitle(t *testing.T) {
	got, err := Title("ledger")
	if err != nil {
		t.Fatalf("Title() unexpected error: %v", err)
	}
	if got != "Manual ledger" {
		t.Errorf("Title(ledger) = %q, want %q", got, "Manual ledger")
	}
	if _, err := Title("nope"); err == nil {
		t.Errorf("Title(nope) expected an error")
	}
}

func TestTopics(t *testing.T) {
	// Every topic listed in readme.md can be loaded, and every .md file is listed.
	file, err := os.Open("readme.md")
	if err != nil {
		t.Fatalf("failed to open readme.md: %v", err)
	}
	defer file.Close()

	var listed []string
	scanner := bufio.NewScanner(file)
	topicRegex := regexp.MustCompile(`^\*\s+([^:]+):.*$`)
	for scanner.Scan() {
		if m := topicRegex.FindStringSubmatch(scanner.Text()); len(m) > 1 {
			listed = append(listed, strings.TrimSpace(m[1]))
		}
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("error scanning readme.md: %v", err)
	}

	for _, topic := range listed {
		if _, err := GetTopic(topic); err != nil {
			t.Errorf("failed to get topic %q: %v", topic, err)
		}
	}

	all, err := GetAllTopics()
	if err != nil {
		t.Fatal(err)
	}
	for _, topic := range all {
		if !slices.Contains(listed, topic) {
			t.Errorf("topic %q is not listed in readme.md", topic)
		}
	}
}

func TestGetTopics(t *testing.T) {
	got, err := GetTopics("ledger", "feeds")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(got, "# Manual ledger") || !strings.Contains(got, "# Feeds") {
		t.Errorf("GetTopics(ledger, feeds) = %.40q...", got)
	}

	all, err := GetTopic(All)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(all, "# Reconciliation") || strings.Contains(all, "Topics, shown with") {
		t.Errorf("GetTopic(*) should contain every topic but the readme")
	}

	if _, err := GetTopic("nope"); err == nil {
		t.Error("GetTopic(nope) expected an error")
	}
}

func TestCodeBlocks(t *testing.T) {
	files, err := filepath.Glob("*.md")
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, "../README.md")

	budgetPath := buildBudget(t, t.TempDir())
	for _, file := range files {
		t.Run(file, func(t *testing.T) {
			runBlocks(t, budgetPath, file)
		})
	}
}

// HELPER

// Block represents a fenced code block in the markdown file.
type Block struct {
	Type    string
	Content string
	File    string
	Line    int
}

// buildBudget builds the `budget` executable and returns its path.
func buildBudget(t *testing.T, tmp string) string {
	t.Helper()
	output := filepath.Join(tmp, "budget")
	if out, err := exec.Command("go", "build", "-o", output, "../budget/").CombinedOutput(); err != nil {
		t.Fatalf("failed to build budget command: %v\n%s", err, out)
	}
	return output
}

// parseMarkdown returns the executable blocks of a markdown file.
func parseMarkdown(t *testing.T, file string) []*Block {
	t.Helper()

	content, err := os.ReadFile(file)
	if err != nil {
		t.Fatalf("failed to read %s: %v", file, err)
	}
	root := goldmark.DefaultParser().Parse(text.NewReader(content))

	var blocks []*Block
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		fcb, ok := n.(*ast.FencedCodeBlock)
		if !entering || !ok || fcb.Info == nil {
			return ast.WalkContinue, nil
		}
		lang := string(fcb.Info.Segment.Value(content))
		switch lang {
		case bashCheck, bashSetup, bashRun, consoleCheck:
		default:
			return ast.WalkContinue, nil
		}

		var body strings.Builder
		for i := 0; i < fcb.Lines().Len(); i++ {
			line := fcb.Lines().At(i)
			body.Write(line.Value(content))
		}
		blocks = append(blocks, &Block{
			Type:    lang,
			Content: body.String(),
			File:    file,
			Line:    lineNumber(content, fcb.Info.Segment.Start),
		})
		return ast.WalkContinue, nil
	})
	return blocks
}

// lineNumber computes the line of an offset in source.
func lineNumber(source []byte, offset int) int {
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}

// blockRunner defines all that is need to run a test for a block
type blockRunner struct {
	env            []string
	previousOutput string
	tmpFolder      string
}

func (r *blockRunner) runBlock(t *testing.T, block *Block) {
	t.Helper()

	if block.Type == consoleCheck {
		want := strings.TrimSpace(block.Content)
		got := strings.TrimSpace(r.previousOutput)
		if want != got {
			t.Errorf("%s:%d: output mismatch:\ngot:\n\n%s\n\nwant:\n\n%s\n\ngot :%q\nwant:%q\n", block.File, block.Line, got, want, got, want)
		}
		return
	}
	if block.Type == bashSetup {
		r.tmpFolder = t.TempDir() // new scenario
	}

	cmd := exec.Command("bash", "-c", "set -e; "+block.Content)
	cmd.Dir = r.tmpFolder
	cmd.Env = r.env
	output, err := cmd.CombinedOutput()
	if block.Type == bashRun {
		r.previousOutput = string(output)
	}
	if err != nil {
		switch block.Type {
		case bashSetup, bashRun:
			t.Fatalf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
		default:
			t.Errorf("%s:%d: %s failed: %v with output:\n%s\n", block.File, block.Line, block.Type, err, output)
		}
	}
}

// runBlocks executes the scenarios of a markdown file.
func runBlocks(t *testing.T, budgetPath, file string) {
	t.Helper()

	blocks := parseMarkdown(t, file)
	if len(blocks) == 0 {
		return
	}

	env := []string{fmt.Sprintf("PATH=%s%c%s", filepath.Dir(budgetPath), os.PathListSeparator, os.Getenv("PATH"))}
	for _, kv := range os.Environ() {
		// The scenarios run with the default configuration.
		if !strings.HasPrefix(kv, "BUDGET_") && !strings.HasPrefix(kv, "PATH=") {
			env = append(env, kv)
		}
	}
	env = append(env, "BUDGET_LOG_LEVEL=error")

	r := blockRunner{env: env, tmpFolder: t.TempDir()}
	for _, block := range blocks {
		r.runBlock(t, block)
	}
}
