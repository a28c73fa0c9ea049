package hardcopyview

import (
	"fmt"
	"strings"
)

// Filename derives the download name from a template name: a trailing
// .html or .htm is replaced with ext.
func Filename(templateName, ext string) string {
	name := strings.TrimSpace(templateName)
	lower := strings.ToLower(name)
	for _, suffix := range []string{".html", ".htm"} {
		if strings.HasSuffix(lower, suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	name = sanitizeFilename(name)
	if name == "" {
		name = "document"
	}
	ext = strings.TrimPrefix(ext, ".")
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// Disposition returns the Content-Disposition value for filename.
func Disposition(filename string, attachment bool) string {
	kind := "inline"
	if attachment {
		kind = "attachment"
	}
	return fmt.Sprintf("%s; filename=\"%s\"", kind, sanitizeFilename(filename))
}

func sanitizeFilename(filename string) string {
	name := strings.TrimSpace(filename)
	name = strings.ReplaceAll(name, "\"", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	name = strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, name)
	return name
}
