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
package termio

import (
	"bufio"
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput indicates the input was closed before a line was entered.
var ErrNoInput = errors.New("no input")

// Terminal reads lines of input from the user.  When the input is an
// interactive terminal, lines are read through a line editor in raw mode;
// otherwise, they are read directly from the input.
type Terminal struct {
	// Source of input
	in io.Reader
	// Destination for prompts
	out io.Writer
	// File descriptor of the input, or -1 if it is not a terminal.
	fd int
	// Buffered input (when not a terminal)
	reader *bufio.Reader
}

// NewTerminal constructs a terminal reading from stdin and writing to stdout.
func NewTerminal() *Terminal {
	fd := int(os.Stdin.Fd())
	//
	if !term.IsTerminal(fd) {
		fd = -1
	}
	//
	return &Terminal{os.Stdin, os.Stdout, fd, bufio.NewReader(os.Stdin)}
}

// NewPipe constructs a terminal over an arbitrary reader and writer, which is
// never treated as interactive.
func NewPipe(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in, out, -1, bufio.NewReader(in)}
}

// IsInteractive determines whether input is being read from a terminal.
func (t *Terminal) IsInteractive() bool {
	return t.fd >= 0
}

// ReadLine writes a given prompt and then reads a single line of input, with
// surrounding whitespace removed.
func (t *Terminal) ReadLine(prompt string) (string, error) {
	var (
		line string
		err  error
	)
	//
	if t.IsInteractive() {
		line, err = t.readRaw(prompt)
	} else {
		line, err = t.readPlain(prompt)
	}
	//
	return strings.TrimSpace(line), err
}

func (t *Terminal) readRaw(prompt string) (string, error) {
	// Move terminal into raw mode
	state, err := term.MakeRaw(t.fd)
	if err != nil {
		return "", err
	}
	//
	defer term.Restore(t.fd, state) //nolint:errcheck
	// Construct "screen"
	screen := struct {
		io.Reader
		io.Writer
	}{t.in, t.out}
	//
	line, err := term.NewTerminal(screen, prompt).ReadLine()
	if errors.Is(err, io.EOF) {
		return line, ErrNoInput
	}
	//
	return line, err
}

func (t *Terminal) readPlain(prompt string) (string, error) {
	if _, err := io.WriteString(t.out, prompt); err != nil {
		return "", err
	}
	//
	line, err := t.reader.ReadString('\n')
	// A final line without a newline is fine
	if errors.Is(err, io.EOF) {
		if line == "" {
			return "", ErrNoInput
		}
		//
		return line, nil
	}
	//
	return line, err
}
