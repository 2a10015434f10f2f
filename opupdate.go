package harr

import "fmt"

// UpdateFunc receives the current state of a key and decides its new state.
// Returning newExists == false unsets the key; any error aborts the update
// and surfaces wrapped in ErrBadUpdateResponse.
type UpdateFunc func(exists bool, value any) (newValue any, newExists bool, err error)

// Update reads the value stored for key, passes it through fn, and writes
// the result back using the same protocol as Set/Unset. When the key is
// absent and createIfMissing is false, fn is not called and nothing
// changes.
func (a *Array) Update(key any, fn UpdateFunc, createIfMissing bool) error {
	if a.closed {
		return ErrClosed
	}
	k, err := a.canonicalKey(key)
	if err != nil {
		return err
	}
	defer releaseKeyBytes(k)
	a.WriteCount.Add(1)

	off, found, err := a.locate(k, createIfMissing)
	if err != nil {
		return err
	}
	if !found {
		if a.verbose {
			a.logf("harr: UPDATE.MISSING %q", k)
		}
		return nil
	}

	n, err := a.readNode(off)
	if err != nil {
		return err
	}
	var cur any
	exists := n.typ != TypeUnset
	if exists {
		cur, err = a.readNodeValue(n)
		if err != nil {
			return err
		}
	}

	newValue, newExists, err := fn(exists, cur)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBadUpdateResponse, err)
	}

	if !newExists {
		if exists {
			if _, err := a.markUnset(off); err != nil {
				return err
			}
		}
		if a.verbose {
			a.logf("harr: UPDATE %q => unset", k)
		}
		return nil
	}
	if err := a.writeTypedValue(off, newValue); err != nil {
		return err
	}
	if a.verbose {
		a.logf("harr: UPDATE %q => (%v) %v", k, valueTypeOf(newValue), newValue)
	}
	return nil
}
