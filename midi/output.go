package midi

import (
	"fmt"
	"sync"
	"time"

	gomidi "gitlab.com/gomidi/midi/v2"

	"music-loom/debug"
)

// Output sends player frames to a MIDI out port. The port is opened on first
// use and reopened after a failed send, so it can be plugged in late.
type Output struct {
	portName string

	mu     sync.Mutex
	sender func(gomidi.Message) error

	// swapped in tests
	open  func(portName string) (func(gomidi.Message) error, error)
	after func(d time.Duration, f func())
}

// NewOutput creates an output for the named port
func NewOutput(portName string) *Output {
	return &Output{
		portName: portName,
		open:     openPort,
		after:    func(d time.Duration, f func()) { time.AfterFunc(d, f) },
	}
}

// Ports lists the available MIDI output port names
func Ports() []string {
	var names []string
	for _, port := range gomidi.GetOutPorts() {
		names = append(names, port.String())
	}
	return names
}

func openPort(portName string) (func(gomidi.Message) error, error) {
	for _, port := range gomidi.GetOutPorts() {
		if port.String() == portName {
			return gomidi.SendTo(port)
		}
	}
	return nil, fmt.Errorf("midi out port %q not found", portName)
}

// sendLocked writes msg, opening the port if needed. A failed write drops
// the sender so the next message reopens the port. Caller holds mu.
func (o *Output) sendLocked(msg gomidi.Message) error {
	if o.sender == nil {
		sender, err := o.open(o.portName)
		if err != nil {
			return err
		}
		o.sender = sender
	}
	if err := o.sender(msg); err != nil {
		o.sender = nil
		return err
	}
	return nil
}

// noteOff runs on a timer, so a failure can only be logged
func (o *Output) noteOff(ch, key uint8) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.sendLocked(gomidi.NoteOff(ch, key)); err != nil {
		debug.Log("midi", "ch=%d key=%d note off failed: %v", ch+1, key, err)
	}
}

// Send plays every note in frame on channel (1-16), releasing each one
// after its duration.
func (o *Output) Send(channel uint8, frame []any, beat time.Duration) error {
	notes, err := Notes(frame)
	if err != nil {
		return err
	}
	if len(notes) == 0 {
		return nil
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	ch := midiChannel(channel)
	for _, n := range notes {
		if n.Velocity == 0 {
			if err := o.sendLocked(gomidi.NoteOff(ch, n.Key)); err != nil {
				return err
			}
			continue
		}

		if err := o.sendLocked(gomidi.NoteOn(ch, n.Key, n.Velocity)); err != nil {
			return err
		}
		key := n.Key
		o.after(time.Duration(n.Beats*float64(beat)), func() {
			o.noteOff(ch, key)
		})
	}
	return nil
}

// midiChannel maps 1-16 to the 0-15 wire channel
func midiChannel(channel uint8) uint8 {
	if channel == 0 {
		return 0
	}
	return (channel - 1) & 0x0F
}
