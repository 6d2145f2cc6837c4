package flatfile

import (
	"bufio"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// line format
const (
	fieldSep = "|"
	listSep  = ","
	pairSep  = ":"

	timeLayout = "2006-01-02 15:04:05"
)

var errFieldCount = errors.New("wrong field count")

// readLines returns all lines of the file; a missing file is an empty dataset.
func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "flatfile: opening %s", path)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if line := strings.TrimRight(scanner.Text(), "\r\n"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, errors.Wrapf(scanner.Err(), "flatfile: reading %s", path)
}

// appendLine adds one record to the end of the file ("save one").
func appendLine(path, line string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "flatfile: opening %s for append", path)
	}
	//goland:noinspection GoUnhandledErrorResult
	defer f.Close()

	if _, err = f.WriteString(line + "\n"); err != nil {
		return errors.Wrapf(err, "flatfile: appending to %s", path)
	}
	return nil
}

// writeLines truncates and rewrites the whole file ("save all").
func writeLines(path string, lines []string) error {
	var sb strings.Builder
	for _, line := range lines {
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return errors.Wrapf(err, "flatfile: rewriting %s", path)
	}
	return nil
}

// field helpers

func formatBool(b bool) string { return strconv.FormatBool(b) }

func formatInt(n int) string { return strconv.Itoa(n) }

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.ParseInLocation(timeLayout, s, time.Local)
}

func joinList(items []string) string {
	return strings.Join(items, listSep)
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSep)
}
