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
package parser

import (
	"fmt"
	"strings"

	"github.com/consensys/go-asmvm/pkg/asm"
	"github.com/consensys/go-asmvm/pkg/util/source"
	"github.com/consensys/go-asmvm/pkg/util/source/lex"
	log "github.com/sirupsen/logrus"
)

// END_OF signals "end of file"
const END_OF uint = 0

// WHITESPACE signals whitespace (other than a newline)
const WHITESPACE uint = 1

// NEWLINE signals a line break
const NEWLINE uint = 2

// WORD signals any maximal run of non-whitespace characters
const WORD uint = 3

var separators = []rune{' ', '\t', '\r', '\v', '\f'}

var rules []lex.LexRule[rune] = []lex.LexRule[rune]{
	lex.Rule(lex.Many(lex.OneOf(separators...)), WHITESPACE),
	lex.Rule(lex.Unit('\n'), NEWLINE),
	lex.Rule(lex.Many(lex.NoneOf(append(separators, '\n')...)), WORD),
	lex.Rule(lex.Eof[rune](), END_OF),
}

// Section identifies which part of the source file is being parsed.  Lines
// outside of any section are ignored.
type Section uint8

const (
	// NO_SECTION applies until the first section directive.
	NO_SECTION Section = iota
	// DATA_SECTION holds constant declarations.
	DATA_SECTION
	// TEXT_SECTION holds instructions.
	TEXT_SECTION
)

// SECTION is the keyword which introduces a section directive.
const SECTION = "section"

// Result captures the outcome of translating a source file.  Alongside the
// module itself, this includes a source map identifying the line from which
// each instruction (by index) originated.
type Result struct {
	Module    asm.Module
	SourceMap *source.Map[uint]
}

// ParseString translates a given string of assembly language into a module.
func ParseString(text string) (asm.Module, []source.SyntaxError) {
	res, errs := Parse(source.NewSourceFile("", []byte(text)))
	return res.Module, errs
}

// Parse translates a given source file into a module.  This is a single pass
// over the file, one line at a time.  Unrecognised mnemonics (as well as HALT)
// are silently dropped, hence syntax errors only arise when the module could
// not be serialised.
func Parse(srcfile *source.File) (Result, []source.SyntaxError) {
	p := NewParser(srcfile)
	//
	for _, line := range p.lines() {
		p.parseLine(line)
	}
	//
	return Result{p.module, p.srcmap}, p.errors
}

// Parser holds the state of a translation in progress.
type Parser struct {
	srcfile *source.File
	srcmap  *source.Map[uint]
	section Section
	module  asm.Module
	errors  []source.SyntaxError
}

// NewParser constructs a new parser for a given source file.
func NewParser(srcfile *source.File) *Parser {
	return &Parser{
		srcfile: srcfile,
		srcmap:  source.NewSourceMap[uint](srcfile),
		section: NO_SECTION,
	}
}

// Split the source file into lines, where each line is a (possibly empty) list
// of word tokens.
func (p *Parser) lines() [][]lex.Token {
	var (
		lines  [][]lex.Token
		line   []lex.Token
		tokens = lex.NewLexer(p.srcfile.Contents(), rules...).Collect()
	)
	//
	for _, token := range tokens {
		switch token.Kind {
		case WORD:
			line = append(line, token)
		case NEWLINE, END_OF:
			lines = append(lines, line)
			line = nil
		}
	}
	//
	return lines
}

func (p *Parser) parseLine(words []lex.Token) {
	if len(words) == 0 {
		return
	} else if p.text(words[0]) == SECTION {
		if len(words) > 1 {
			switch p.text(words[1]) {
			case ".data":
				p.section = DATA_SECTION
			case ".text":
				p.section = TEXT_SECTION
			}
		}
		//
		return
	}
	//
	switch p.section {
	case DATA_SECTION:
		p.parseConstant(words)
	case TEXT_SECTION:
		p.parseInstruction(words)
	}
}

// Parse a constant declaration.  When the second word is a single character
// followed by something else, then it is the width tag and everything after it
// (concatenated without separators) is the value.  Otherwise, the tag defaults
// to "b" and the second word is the value.
func (p *Parser) parseConstant(words []lex.Token) {
	var (
		tag  = p.word(words, 1)
		rest strings.Builder
	)
	//
	for i := 2; i < len(words); i++ {
		rest.WriteString(p.text(words[i]))
	}
	//
	constant := asm.Constant{Name: p.text(words[0]), Tag: asm.DEFAULT_TAG, Value: tag}
	//
	if len(tag) == 1 && rest.Len() > 0 {
		constant.Tag = tag[0]
		constant.Value = rest.String()
	}
	//
	if len(p.module.Constants) == asm.MAX_CONSTANTS {
		msg := fmt.Sprintf("too many constants (maximum is %d)", asm.MAX_CONSTANTS)
		p.errors = append(p.errors, *p.srcfile.SyntaxError(p.span(words), msg))
		//
		return
	} else if asm.Width(constant.Tag) == 0 {
		log.Debugf("line %d: constant %s has unknown width tag '%c'", p.lineNumber(words), constant.Name, constant.Tag)
	}
	//
	p.checkTruncation(words, constant.Name, constant.Value)
	p.module.Constants = append(p.module.Constants, constant)
}

// Parse an instruction.  MOV consumes two operands and all others consume
// exactly one, with missing operands left empty and surplus words ignored.
func (p *Parser) parseInstruction(words []lex.Token) {
	var (
		mnemonic = p.text(words[0])
		insn     = asm.Instruction{Opcode: asm.ParseMnemonic(mnemonic)}
	)
	//
	switch insn.Opcode {
	case asm.HALT, asm.UNKNOWN:
		log.Debugf("line %d: dropping instruction %s", p.lineNumber(words), mnemonic)
		return
	case asm.MOV:
		insn.Operand1 = p.word(words, 1)
		insn.Operand2 = p.word(words, 2)
	default:
		insn.Operand1 = p.word(words, 1)
	}
	//
	p.checkTruncation(words, insn.Operand1, insn.Operand2)
	p.srcmap.Put(uint(len(p.module.Instructions)), p.span(words))
	p.module.Instructions = append(p.module.Instructions, insn)
}

func (p *Parser) checkTruncation(words []lex.Token, fields ...string) {
	for _, field := range fields {
		if asm.IsTruncated(field) {
			log.Warnf("line %d: \"%s\" will be truncated to \"%s\"", p.lineNumber(words), field, asm.Truncate(field))
		}
	}
}

// Get the text of the ith word, or the empty string if there is no such word.
func (p *Parser) word(words []lex.Token, i int) string {
	if i < len(words) {
		return p.text(words[i])
	}
	//
	return ""
}

func (p *Parser) text(token lex.Token) string {
	return p.srcfile.Text(token.Span)
}

func (p *Parser) span(words []lex.Token) source.Span {
	return words[0].Span.Join(words[len(words)-1].Span)
}

func (p *Parser) lineNumber(words []lex.Token) int {
	line := p.srcfile.FindFirstEnclosingLine(words[0].Span)
	return line.Number()
}
