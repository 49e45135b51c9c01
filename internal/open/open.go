package open

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/Zuo-Peng/chatlog/internal/parse"
)

// FirstOnDate returns the source of the first message sent on day.
func FirstOnDate(msgs []parse.Message, day time.Time) (parse.Source, bool) {
	want := parse.DateOf(day)
	for _, m := range msgs {
		d := m.Date()
		if d.Equal(want) {
			return m.Source, true
		}
		if d.After(want) {
			break
		}
	}
	return parse.Source{}, false
}

// Source opens the transcript at src in $EDITOR, falling back to less.
func Source(src parse.Source) error {
	if _, err := os.Stat(src.File); err != nil {
		return fmt.Errorf("file not found: %s", src.File)
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = "less"
	}

	line := src.Line
	if line < 1 {
		line = 1
	}
	args := editorArgs(editor, src.File, line)
	cmd := exec.Command(editor, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func editorArgs(editor, filePath string, lineNum int) []string {
	switch {
	case strings.Contains(editor, "vim") || strings.Contains(editor, "nvim"):
		return []string{fmt.Sprintf("+%d", lineNum), filePath}
	case strings.Contains(editor, "code"):
		return []string{"--goto", filePath + ":" + strconv.Itoa(lineNum)}
	case strings.Contains(editor, "less"), strings.Contains(editor, "nano"), strings.Contains(editor, "emacs"):
		return []string{"+" + strconv.Itoa(lineNum), filePath}
	default:
		return []string{filePath}
	}
}
