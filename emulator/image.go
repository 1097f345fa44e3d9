// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
)

// ParseImage decodes a text hex dump: whitespace separated bytes in hex,
// with '#' or ';' starting a comment that runs to the end of the line.
func ParseImage(name string, text []byte) (data []byte, err error) {
	scanner := bufio.NewScanner(bytes.NewReader(text))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := scanner.Text()
		if index := strings.IndexAny(line, "#;"); index >= 0 {
			line = line[:index]
		}

		for _, word := range strings.Fields(line) {
			word = strings.TrimPrefix(strings.ToLower(word), "0x")
			var value uint64
			value, err = strconv.ParseUint(word, 16, 8)
			if err != nil {
				err = &ErrImage{Name: name, LineNo: lineno, Err: ErrImageSyntax}
				return
			}
			data = append(data, uint8(value))
		}
	}

	err = scanner.Err()
	return
}
