package transport

import (
	"errors"
	"fmt"

	"github.com/getmockd/transmock/pkg/message"
)

// rewritten lists every property a rewrite may write, in the order they are
// read: the original-transport catalogue, then the mock names it lacks.
var rewritten = func() []string {
	seen := make(map[string]bool)
	var names []string
	for _, p := range originalTransport {
		seen[p.Name] = true
		names = append(names, p.Name)
	}
	for _, p := range NewMockProperties("").Properties() {
		if !seen[p.Name] {
			seen[p.Name] = true
			names = append(names, p.Name)
		}
	}
	return names
}()

type prior struct {
	value   message.Value
	present bool
}

// journal holds the state of a bag before a rewrite and the names written
// since, so a failed rewrite can be undone.
type journal struct {
	bag     message.PropertyBag
	prior   map[string]prior
	written []string
}

// snapshot reads every rewritten property. Nothing is written.
func snapshot(bag message.PropertyBag) (*journal, error) {
	j := &journal{bag: bag, prior: make(map[string]prior, len(rewritten))}
	for _, name := range rewritten {
		v, ok, err := bag.Read(name)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s: %w", ErrPropertyMutation, name, err)
		}
		j.prior[name] = prior{value: v, present: ok}
	}
	return j, nil
}

func (j *journal) write(name string, v message.Value) error {
	if err := j.bag.Write(name, v); err != nil {
		return err
	}
	j.written = append(j.written, name)
	return nil
}

// clearOriginal resets every original-transport property that is set to a
// non-neutral value. Properties that are not set stay unset.
func (j *journal) clearOriginal() error {
	for _, p := range originalTransport {
		was := j.prior[p.Name]
		if !was.present || was.value.Equal(p.Value) {
			continue
		}
		if err := j.write(p.Name, p.Value); err != nil {
			return fmt.Errorf("%w: clearing %s: %w", ErrPropertyMutation, p.Name, err)
		}
	}
	return nil
}

// apply writes props in order.
func (j *journal) apply(props []message.Property) error {
	for _, p := range props {
		if err := j.write(p.Name, p.Value); err != nil {
			return fmt.Errorf("%w: writing %s: %w", ErrPropertyMutation, p.Name, err)
		}
	}
	return nil
}

// restore undoes every write, newest first. A property that was absent is
// removed when the bag implements message.Remover; otherwise it keeps the
// written value and restore reports it.
func (j *journal) restore() (err error) {
	if j == nil || len(j.written) == 0 {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	remover, canRemove := j.bag.(message.Remover)
	var errs []error
	for i := len(j.written) - 1; i >= 0; i-- {
		name := j.written[i]
		was := j.prior[name]
		switch {
		case was.present:
			errs = append(errs, j.bag.Write(name, was.value))
		case canRemove:
			errs = append(errs, remover.Remove(name))
		default:
			errs = append(errs, fmt.Errorf("%s was not set and cannot be removed", name))
		}
	}
	j.written = nil
	return errors.Join(errs...)
}
