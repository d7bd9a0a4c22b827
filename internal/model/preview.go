package model

import (
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"

	"golang.org/x/net/html"
)

// DocumentPreview is the text of a fulltext document, cut to a few lines.
type DocumentPreview struct {
	Path      string   // Path of the document inside the site
	Title     string   // Human readable title
	Lines     []string // Non-empty text lines, in document order
	Truncated bool     // Whether more lines were available
	ErrorMsg  string   // Set when the document could not be read
}

// DocumentTitle turns a generated document file name into a title:
// "12_the_frog_king.html" becomes "The Frog King". The leading
// segment up to the first underscore is a catalog number and is always
// dropped, so a name without one has an empty title.
func DocumentTitle(name string) string {
	if name == "" {
		return ""
	}
	name = path.Base(name)
	name = strings.ReplaceAll(name, "_s_", "'s ")
	name = strings.ReplaceAll(name, "_.", ".")
	name = strings.TrimSuffix(name, ".html")
	name = strings.TrimSuffix(name, ".txt")
	name = strings.TrimSuffix(name, "_")

	words := strings.Split(name, "_")[1:]
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}

// ReadPreview extracts up to maxLines lines of visible text from an HTML
// document in fsys. Text inside <head>, <script> and <style> is skipped.
func ReadPreview(fsys fs.FS, name string, maxLines int) DocumentPreview {
	result := DocumentPreview{
		Path:  name,
		Title: DocumentTitle(name),
	}

	f, err := fsys.Open(strings.TrimPrefix(path.Clean("/"+name), "/"))
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Could not read document: %v", err)
		return result
	}
	defer f.Close()

	lines, more, err := textLines(f, maxLines)
	if err != nil {
		result.ErrorMsg = fmt.Sprintf("Error reading document: %v", err)
		return result
	}
	result.Lines = lines
	result.Truncated = more
	return result
}

func textLines(r io.Reader, maxLines int) ([]string, bool, error) {
	z := html.NewTokenizer(r)
	var (
		lines []string
		cur   strings.Builder
		skip  int
	)

	flush := func() {
		if s := strings.Join(strings.Fields(cur.String()), " "); s != "" {
			lines = append(lines, s)
		}
		cur.Reset()
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, false, err
			}
			flush()
			if maxLines > 0 && len(lines) > maxLines {
				return lines[:maxLines], true, nil
			}
			return lines, false, nil
		case html.StartTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "head", "script", "style":
				skip++
			case "p", "div", "br", "h1", "h2", "h3", "li":
				flush()
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "head", "script", "style":
				if skip > 0 {
					skip--
				}
			case "p", "div", "h1", "h2", "h3", "li":
				flush()
			}
		case html.SelfClosingTagToken:
			if name, _ := z.TagName(); string(name) == "br" {
				flush()
			}
		case html.TextToken:
			if skip == 0 {
				text := string(z.Text())
				for i, part := range strings.Split(text, "\n") {
					if i > 0 {
						flush()
					}
					cur.WriteString(part)
					cur.WriteByte(' ')
				}
			}
		}
		if maxLines > 0 && len(lines) > maxLines {
			return lines[:maxLines], true, nil
		}
	}
}
