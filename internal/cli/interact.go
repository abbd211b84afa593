package cli

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// terminalInteractor reads human input from the terminal for interactive
// debates: targeted questions after the pre-analysis, and interjections
// between rounds. It implements debate.QAProvider and
// debate.InterjectionProvider.
type terminalInteractor struct {
	scanner     *bufio.Scanner
	out         io.Writer
	reviewerIDs []string
	qaBanner    bool
}

func newTerminalInteractor(r io.Reader, w io.Writer, reviewerIDs []string) *terminalInteractor {
	return &terminalInteractor{
		scanner:     bufio.NewScanner(r),
		out:         w,
		reviewerIDs: reviewerIDs,
	}
}

// NextQuestion prompts for a targeted question in the form
// "@reviewer-id question text". Empty input or /proceed starts the debate.
func (t *terminalInteractor) NextQuestion(preAnalysis string) (string, string, bool) {
	if !t.qaBanner {
		t.qaBanner = true
		fmt.Fprintf(t.out, "\n--- Pre-analysis ---\n%s\n--------------------\n", strings.TrimSpace(preAnalysis))
		fmt.Fprintf(t.out, "Ask a reviewer directly with \"@id question\" (reviewers: %s).\n",
			strings.Join(t.reviewerIDs, ", "))
		fmt.Fprintln(t.out, "Press enter or type /proceed to start the debate.")
	}

	for {
		fmt.Fprint(t.out, "question> ")
		line, ok := t.readLine()
		if !ok {
			return "", "", false
		}

		switch {
		case line == "" || line == "/proceed":
			return "", "", false
		case strings.HasPrefix(line, "@"):
			id, question, found := strings.Cut(line[1:], " ")
			question = strings.TrimSpace(question)
			if !found || question == "" {
				fmt.Fprintln(t.out, "usage: @reviewer-id question text")
				continue
			}
			return id, question, true
		default:
			fmt.Fprintln(t.out, "usage: @reviewer-id question, or /proceed")
		}
	}
}

// Interjection prompts before each round. Empty input continues silently,
// 'q' ends the debate after the rounds already played.
func (t *terminalInteractor) Interjection(round int) (string, bool) {
	fmt.Fprintf(t.out, "[round %d] interject (enter to continue, q to finish)> ", round)
	line, ok := t.readLine()
	if !ok || line == "q" {
		return "", true
	}
	return line, false
}

func (t *terminalInteractor) readLine() (string, bool) {
	if !t.scanner.Scan() {
		return "", false
	}
	return strings.TrimSpace(t.scanner.Text()), true
}
