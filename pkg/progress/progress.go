// Package progress renders nested long-running operations on the console.
// Nesting depth is carried by the handle itself, so there is no process-global
// state: a child operation indents one level deeper than the handle that
// spawned it.
package progress

import (
	"fmt"
	"strings"
	"time"
)

const lineWidth = 100

// Op is one running operation. Start it with Start or Op.Child and close it
// with Done.
type Op struct {
	description string
	depth       int
	startedAt   time.Time
}

// Start begins a top-level operation.
func Start(description string) *Op {
	op := &Op{description: description, startedAt: time.Now()}
	op.printRunning()

	return op
}

// Child begins a nested operation one level deeper.
func (o *Op) Child(description string) *Op {
	child := &Op{description: description, depth: o.depth + 1, startedAt: time.Now()}
	child.printRunning()

	return child
}

// Print writes a message under the running operation, then repaints the
// running line.
func (o *Op) Print(message string) {
	fmt.Println(o.pad(o.indent(1) + message))
	o.printRunning()
}

func (o *Op) Printf(format string, args ...interface{}) {
	o.Print(fmt.Sprintf(format, args...))
}

// Done closes the operation and prints its duration.
func (o *Op) Done() {
	duration := time.Since(o.startedAt)
	fmt.Println(o.pad(o.indent(0) + fmt.Sprintf("[%5.2fs] %s", duration.Seconds(), o.description)))
}

func (o *Op) printRunning() {
	fmt.Print(o.pad(o.indent(0)+o.description+"... ") + "\r")
}

func (o *Op) indent(offset int) string {
	return strings.Repeat("    ", o.depth+offset)
}

func (o *Op) pad(message string) string {
	if len(message) >= lineWidth {
		return message[:lineWidth]
	}

	return message + strings.Repeat(" ", lineWidth-len(message))
}
