package compose

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/agentx-labs/commitx/internal/partition"
)

// Choices offered when a group's message cannot be derived.
const (
	ChoiceDescribe = iota
	ChoiceSkip
)

// AskDescription shows the files of an uncomposable group and asks the user
// to either type a description or skip the group. skip is true when the user
// chose to leave the group staged.
func AskDescription(r io.Reader, w io.Writer, g partition.Group) (desc string, skip bool, err error) {
	reader := bufio.NewReader(r)

	fmt.Fprintf(w, "\nNo message could be derived for this %s group:\n", g.Type)
	for _, cl := range g.Files {
		fmt.Fprintf(w, "  %s\n", cl.File.Path())
	}

	choice, err := selectFromList(reader, w, "What now?", []string{"Enter a description", "Skip this group"})
	if err != nil {
		return "", false, err
	}
	if choice == ChoiceSkip {
		return "", true, nil
	}

	fmt.Fprintf(w, "\nDescription (e.g. add login rate limiting): ")
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", false, fmt.Errorf("reading description: %w", err)
	}
	desc = strings.TrimSpace(line)
	if desc == "" {
		return "", true, nil
	}
	return desc, false, nil
}

// selectFromList presents a numbered list and returns the selected index.
func selectFromList(reader *bufio.Reader, w io.Writer, prompt string, items []string) (int, error) {
	fmt.Fprintf(w, "\n%s\n", prompt)
	for i, item := range items {
		fmt.Fprintf(w, "  %d) %s\n", i+1, item)
	}
	fmt.Fprintf(w, "Enter number [1-%d]: ", len(items))

	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return 0, fmt.Errorf("reading selection: %w", err)
	}

	num, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || num < 1 || num > len(items) {
		return 0, fmt.Errorf("invalid selection %q: choose 1-%d", strings.TrimSpace(line), len(items))
	}

	return num - 1, nil
}

// IsTerminal reports whether f is a terminal, used to decide whether the
// user can be prompted.
func IsTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
