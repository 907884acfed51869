// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package source

import (
	"fmt"
	"os"
	"sort"
	"unicode/utf8"
)

// ReadFile reads a given source file from disk.  The file handle is released
// before returning.
func ReadFile(filename string) (*File, error) {
	bytes, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	//
	return NewSourceFile(filename, bytes), nil
}

// Line provides information about a given line within the original text.
// This includes the line number (counting from 1), and the span of the line
// within the original text.
type Line struct {
	// Original text
	text []rune
	// Span within original text of this line.
	span Span
	// Line number of this line (counting from 1).
	number int
}

// Get the string representing this line.
func (p *Line) String() string {
	return encode(p.text[p.span.start:p.span.end])
}

// Number gets the line number of this line, where the first line in a file
// has line number 1.
func (p *Line) Number() int {
	return p.number
}

// Start returns the starting index of this line in the original text.
func (p *Line) Start() int {
	return p.span.start
}

// Length returns the number of characters in this line.
func (p *Line) Length() int {
	return p.span.Length()
}

// File represents a given source file (typically stored on disk).
type File struct {
	// File name for this source file.
	filename string
	// Contents of this file.
	contents []rune
	// Offset of the first character of each line.
	lines []int
}

// NewSourceFile constructs a new source file from a given byte array.  Bytes
// which are not valid UTF-8 are retained as escaped runes, such that the text
// of any span recovers the original bytes exactly.
func NewSourceFile(filename string, bytes []byte) *File {
	var (
		contents = decode(bytes)
		lines    = []int{0}
	)
	//
	for i, r := range contents {
		if r == '\n' {
			lines = append(lines, i+1)
		}
	}
	//
	return &File{filename, contents, lines}
}

// Filename returns the filename associated with this source file.
func (s *File) Filename() string {
	return s.filename
}

// Contents returns the contents of this source file.
func (s *File) Contents() []rune {
	return s.contents
}

// Text returns the text covered by a given span of this file.
func (s *File) Text(span Span) string {
	return encode(s.contents[span.start:span.end])
}

// SyntaxError constructs a syntax error over a given span of this file with a
// given message.
func (s *File) SyntaxError(span Span, msg string) *SyntaxError {
	return &SyntaxError{s, span, msg}
}

// FindFirstEnclosingLine determines the first line in this source file which
// encloses the start of a span.  Observe that, if the position is beyond the
// bounds of the source file then the last physical line is returned.
func (s *File) FindFirstEnclosingLine(span Span) Line {
	// Index of the last line starting at or before the span
	n := sort.Search(len(s.lines), func(i int) bool {
		return s.lines[i] > span.start
	}) - 1
	//
	start := s.lines[n]
	end := findEndOfLine(start, s.contents)
	//
	return Line{s.contents, Span{start, end}, n + 1}
}

// SyntaxError is a structured error which retains the span of the original
// text where an error occurred, along with an error message.
type SyntaxError struct {
	srcfile *File
	// Span of the text where the error arose.
	span Span
	// Error message being reported
	msg string
}

// SourceFile returns the underlying source file that this syntax error covers.
func (p *SyntaxError) SourceFile() *File {
	return p.srcfile
}

// Span returns the span of the original text on which this error is reported.
func (p *SyntaxError) Span() Span {
	return p.span
}

// Message returns the message to be reported.
func (p *SyntaxError) Message() string {
	return p.msg
}

// Error implements the error interface.
func (p *SyntaxError) Error() string {
	line := p.FirstEnclosingLine()
	return fmt.Sprintf("%s:%d: %s", p.srcfile.filename, line.Number(), p.msg)
}

// FirstEnclosingLine determines the first line in this source file to which
// this error is associated.
func (p *SyntaxError) FirstEnclosingLine() Line {
	return p.srcfile.FindFirstEnclosingLine(p.span)
}

// Find the end of the enclosing line
func findEndOfLine(index int, text []rune) int {
	for i := index; i < len(text); i++ {
		if text[i] == '\n' {
			return i
		}
	}
	// No end in sight!
	return len(text)
}

// ESCAPE_BASE offsets each byte which is not valid UTF-8 into the range of
// unpaired surrogates, which never arise from decoding.
const ESCAPE_BASE rune = 0xDC00

func decode(bytes []byte) []rune {
	runes := make([]rune, 0, len(bytes))
	//
	for len(bytes) > 0 {
		r, n := utf8.DecodeRune(bytes)
		//
		if r == utf8.RuneError && n == 1 {
			r = ESCAPE_BASE + rune(bytes[0])
		}
		//
		runes = append(runes, r)
		bytes = bytes[n:]
	}
	//
	return runes
}

func encode(runes []rune) string {
	bytes := make([]byte, 0, len(runes))
	//
	for _, r := range runes {
		if r >= ESCAPE_BASE+0x80 && r <= ESCAPE_BASE+0xff {
			bytes = append(bytes, byte(r-ESCAPE_BASE))
		} else {
			bytes = utf8.AppendRune(bytes, r)
		}
	}
	//
	return string(bytes)
}
