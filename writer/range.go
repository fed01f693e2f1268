package writer

import (
	"fmt"
	"net/url"
)

// columnLetters converts a zero-based column index to spreadsheet column
// notation using bijective base-26 numbering: 0 -> "A", 25 -> "Z",
// 26 -> "AA", 701 -> "ZZ".
func columnLetters(index int) string {
	letters := []byte{}

	for n := index + 1; n > 0; n = n / 26 {
		n--
		letters = append([]byte{byte('A' + n%26)}, letters...)
	}

	return string(letters)
}

// a1Range builds an A1-style range address for a batch of rows, e.g.
// a1Range("Sheet 1", 3, 1, 1000) -> "Sheet%201!A1:C1000". rowOffset is
// 1-based and header-inclusive - row 1 is the first row of the sheet.
func a1Range(sheetTitle string, columnCount int, rowOffset int, rowLimit int) (string, error) {
	if columnCount < 1 {
		return "", applicationErrorf(nil, "invalid column count (%v) for range '%s'", columnCount, sheetTitle)
	}

	last := columnLetters(columnCount - 1)

	return fmt.Sprintf("%s!A%v:%s%v", url.PathEscape(sheetTitle), rowOffset, last, rowOffset+rowLimit-1), nil
}
