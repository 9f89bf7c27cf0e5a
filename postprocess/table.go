// Package postprocess adjusts recognized output for human consumption.
package postprocess

import (
	"regexp"
	"strings"

	"screen-ocr-ollama/ollama"
)

// tableStyleBlock makes pasted HTML tables readable in browsers and rich
// editors without squashing or overflowing the page.
const tableStyleBlock = `<style>
table {
  width: auto;
  max-width: 100%;
  display: inline-table;
  border-collapse: collapse;
  font-family: sans-serif;
  font-size: 14px;
}

th, td {
  padding: 8px 10px;
  border: 1px solid #ddd;
  text-align: left;
  vertical-align: top;
  max-width: 48ch;
  white-space: normal;
  overflow-wrap: anywhere;
}

th {
  background: #f5f5f5;
  font-weight: 600;
}
</style>
`

var (
	tableOpenRe  = regexp.MustCompile(`(?i)<table(\s[^>]*)?>`)
	tableCloseRe = regexp.MustCompile(`(?i)</table>`)
)

// ApplyTableStyling wraps HTML tables in a horizontal-scroll container and
// prepends the style block. Only table-mode output containing an actual
// <table> tag is touched; everything else passes through untouched.
func ApplyTableStyling(mode ollama.Mode, text string) string {
	if mode != ollama.ModeTable {
		return text
	}

	lower := strings.ToLower(text)
	if !strings.Contains(lower, "<table") {
		return text
	}

	styled := tableOpenRe.ReplaceAllString(text, `<div style="overflow-x:auto;"><table$1>`)
	styled = tableCloseRe.ReplaceAllString(styled, "</table></div>")

	if strings.Contains(lower, "<style") {
		return styled
	}
	return tableStyleBlock + "\n" + styled
}
