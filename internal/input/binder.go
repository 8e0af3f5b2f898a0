package input

import (
	"errors"
	"fmt"
	"time"

	"tilewalk/internal/command"
)

var (
	ErrDuplicateDriver = errors.New("input: driver already registered for device kind")
	ErrNoDriver        = errors.New("input: no driver for binding device kind")
	ErrInvalidBinding  = errors.New("input: invalid binding")
)

// Binding describes a device input that activates a command.
type Binding interface {
	DeviceKind() string
}

// Driver reports the state of one kind of device.
type Driver interface {
	Kind() string
	Update(dt time.Duration)
	IsInputActive(b Binding) bool
}

// Binder activates commands from the bindings registered for them. A command
// is active when any of its bindings is. Binder implements command.Source.
type Binder struct {
	drivers  map[string]Driver
	order    []Driver
	bindings map[command.Command][]Binding
}

func NewBinder() *Binder {
	return &Binder{
		drivers:  make(map[string]Driver),
		bindings: make(map[command.Command][]Binding),
	}
}

// AddDriver registers d. Only one driver per device kind is allowed.
func (b *Binder) AddDriver(d Driver) error {
	if d == nil {
		return fmt.Errorf("%w: nil driver", ErrInvalidBinding)
	}
	if _, ok := b.drivers[d.Kind()]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateDriver, d.Kind())
	}
	b.drivers[d.Kind()] = d
	b.order = append(b.order, d)
	return nil
}

// Bind adds binding to cmd. A driver for the binding's device kind must be
// registered first.
func (b *Binder) Bind(cmd command.Command, binding Binding) error {
	if binding == nil || cmd == command.None {
		return fmt.Errorf("%w: %s", ErrInvalidBinding, cmd)
	}
	if _, ok := b.drivers[binding.DeviceKind()]; !ok {
		return fmt.Errorf("%w: %s", ErrNoDriver, binding.DeviceKind())
	}
	b.bindings[cmd] = append(b.bindings[cmd], binding)
	return nil
}

// Bindings returns the bindings of cmd.
func (b *Binder) Bindings(cmd command.Command) []Binding {
	return b.bindings[cmd]
}

// IsCommandActivated implements command.Source.
func (b *Binder) IsCommandActivated(cmd command.Command) bool {
	for _, binding := range b.bindings[cmd] {
		if b.drivers[binding.DeviceKind()].IsInputActive(binding) {
			return true
		}
	}
	return false
}

// Update advances every driver in registration order.
func (b *Binder) Update(dt time.Duration) {
	for _, d := range b.order {
		d.Update(dt)
	}
}
