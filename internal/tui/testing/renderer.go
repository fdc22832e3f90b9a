// Package testing provides test utilities for TUI components.
package testing

import (
	"reflect"

	tea "github.com/charmbracelet/bubbletea"
)

// Driver feeds messages to a Bubble Tea model without a terminal and runs
// the commands it returns synchronously, feeding their messages back.
type Driver struct {
	Model tea.Model
	// Messages records every message delivered to the model.
	Messages []tea.Msg
	// Skip lists message types that are dropped instead of delivered,
	// typically spinner and cursor ticks.
	Skip []reflect.Type
	// Quit is set once a command produced tea.QuitMsg.
	Quit bool
}

// NewDriver wraps model.
func NewDriver(model tea.Model, skip ...tea.Msg) *Driver {
	d := &Driver{Model: model}
	for _, msg := range skip {
		d.Skip = append(d.Skip, reflect.TypeOf(msg))
	}
	return d
}

// Send delivers msgs in order, running resulting commands to completion.
func (d *Driver) Send(msgs ...tea.Msg) *Driver {
	for _, msg := range msgs {
		d.deliver(msg, 0)
	}
	return d
}

// Run executes cmd and delivers what it produces.
func (d *Driver) Run(cmd tea.Cmd) *Driver {
	d.run(cmd, 0)
	return d
}

// View renders the current model.
func (d *Driver) View() string {
	return d.Model.View()
}

// Plain renders the current model without ANSI codes.
func (d *Driver) Plain() string {
	return StripANSI(d.Model.View())
}

const maxDepth = 32

func (d *Driver) deliver(msg tea.Msg, depth int) {
	if msg == nil || depth > maxDepth || d.skipped(msg) {
		return
	}
	switch msg := msg.(type) {
	case tea.QuitMsg:
		d.Quit = true
		return
	case tea.BatchMsg:
		for _, cmd := range msg {
			d.run(cmd, depth+1)
		}
		return
	}

	d.Messages = append(d.Messages, msg)
	var cmd tea.Cmd
	d.Model, cmd = d.Model.Update(msg)
	d.run(cmd, depth+1)
}

func (d *Driver) run(cmd tea.Cmd, depth int) {
	if cmd == nil || d.Quit {
		return
	}
	d.deliver(cmd(), depth)
}

func (d *Driver) skipped(msg tea.Msg) bool {
	t := reflect.TypeOf(msg)
	for _, s := range d.Skip {
		if s == t {
			return true
		}
	}
	return false
}

// Collect runs cmd and returns the messages it produces, expanding batches.
// Nested commands are run too, so cmd must not block.
func Collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var msgs []tea.Msg
		for _, c := range batch {
			msgs = append(msgs, Collect(c)...)
		}
		return msgs
	}
	if msg == nil {
		return nil
	}
	return []tea.Msg{msg}
}
