package session

import (
	"regexp"
	"strings"
	"time"
)

// dispositionFilename matches filename= and filename*= parameters. The
// alternatives cover a double-quoted value, a single-quoted value and a bare
// token, in that order.
var dispositionFilename = regexp.MustCompile(`filename[^;=\n]*=("[^"\n]*"|'[^'\n]*'|[^;\n]*)`)

const fallbackLayout = "2006-01-02T15:04:05.000Z07:00"

// FilenameFromDisposition extracts the suggested file name from a
// Content-Disposition header. Only attachment dispositions are considered.
func FilenameFromDisposition(header string) (string, bool) {
	if !strings.Contains(header, "attachment") {
		return "", false
	}
	m := dispositionFilename.FindStringSubmatch(header)
	if m == nil || m[1] == "" {
		return "", false
	}
	name := strings.NewReplacer(`"`, "", `'`, "").Replace(m[1])
	if name == "" {
		return "", false
	}
	return name, true
}

// FallbackFilename is used when the service does not suggest a name.
func FallbackFilename(completed time.Time) string {
	return "firestore_backup_" + completed.UTC().Format(fallbackLayout) + ".json"
}

func backupFilename(disposition string, completed time.Time) string {
	if name, ok := FilenameFromDisposition(disposition); ok {
		return name
	}
	return FallbackFilename(completed)
}
