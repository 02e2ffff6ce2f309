package ast

import (
	"fmt"
	"strings"
)

// CodePrinter accumulates indented source text.  Indentation is applied
// lazily at the start of each line, so callers can Print fragments and
// newlines freely.
type CodePrinter interface {
	Indent(n int)
	Unindent(n int)
	Print(str string)
	Printf(fmt string, args ...any)
	Println(str string)
	String() string
}

func WithIndent(n int, cp CodePrinter, block func(cp CodePrinter)) {
	cp.Indent(n)
	defer cp.Unindent(n)
	block(cp)
}

type codePrinter struct {
	indentStr string
	indent    int
	line      int
	col       int
	builder   strings.Builder
}

func (c *codePrinter) Indent(n int) {
	c.indent += n
}

func (c *codePrinter) Unindent(n int) {
	c.indent -= n
	if c.indent < 0 {
		c.indent = 0
	}
}

func (c *codePrinter) Print(str string) {
	lines := strings.Split(str, "\n")
	for idx, l := range lines {
		if l != "" {
			if c.col == 0 {
				// new line has started so add the indent string
				c.builder.WriteString(c.IndentString())
			}
			c.builder.WriteString(l)
			c.col += len(l)
		}
		if idx < len(lines)-1 {
			c.line++
			c.col = 0
			c.builder.WriteRune('\n')
		}
	}
}

func (c *codePrinter) Println(str string) {
	c.Print(str + "\n")
}

func (c *codePrinter) Printf(format string, args ...any) {
	c.Print(fmt.Sprintf(format, args...))
}

func (c *codePrinter) IndentString() string {
	return strings.Repeat(c.indentStr, c.indent)
}

func (c *codePrinter) String() string {
	return c.builder.String()
}

// NewCodePrinter returns a printer that indents each level by indentStr.
func NewCodePrinter(indentStr string) CodePrinter {
	return &codePrinter{indentStr: indentStr}
}
