package codeplug

import (
	"fmt"
	"io"

	"github.com/yl3im/hyrps/codeplug/section"
	"github.com/yl3im/hyrps/codeplug/verify"
	"github.com/yl3im/hyrps/internal/buf"
	"github.com/yl3im/hyrps/internal/logger"
)

// Record is implemented by every value a Collection stores.
type Record interface {
	MarshalBinary() ([]byte, error)
}

type decoder[T any] interface {
	*T
	UnmarshalBinary([]byte) error
}

// checker is implemented by records holding references to other records.
type checker interface {
	verify(cp *Codeplug) error
}

// Collection is the decoded contents of one section: the records in use,
// in logical order, plus the section they are written back to.
type Collection[T Record] struct {
	name  string
	sec   *section.Section
	items []T
}

// fetch decodes the in-use records of section id. Position n is read from
// the slot the n-th mapping entry points at.
func fetch[T Record, PT decoder[T]](dir section.Directory, id uint16, name string) (*Collection[T], error) {
	sec, err := dir.Get(id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	if _, err := sec.ElementSize(); err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	c := &Collection[T]{name: name, sec: sec, items: make([]T, 0, sec.Header.InUse)}
	for pos := 0; pos < int(sec.Header.InUse); pos++ {
		chunk, err := sec.Chunk(pos)
		if err != nil {
			return nil, &RecordError{Section: id, Index: pos, Err: err}
		}
		var v T
		if err := PT(&v).UnmarshalBinary(chunk); err != nil {
			return nil, &RecordError{Section: id, Index: pos, Err: err}
		}
		c.items = append(c.items, v)
	}
	return c, nil
}

// Name is the collection's human-readable name.
func (c *Collection[T]) Name() string { return c.name }

// Section returns the underlying section.
func (c *Collection[T]) Section() *section.Section { return c.sec }

// Len returns the number of records in use.
func (c *Collection[T]) Len() int { return len(c.items) }

// At returns record i for in-place edits. It panics if i is out of range.
func (c *Collection[T]) At(i int) *T { return &c.items[i] }

// All returns the records in logical order. The slice is shared with the
// collection.
func (c *Collection[T]) All() []T { return c.items }

// Free returns how many more records can be inserted. The radio always
// keeps one slot of every section unused.
func (c *Collection[T]) Free() int {
	return max(0, int(c.sec.Header.Capacity)-1-int(c.sec.Header.InUse))
}

// Insert appends v and returns its position.
func (c *Collection[T]) Insert(v T) (int, error) {
	if c.Free() == 0 {
		return -1, fmt.Errorf("%s: %d of %d slots: %w", c.name, c.sec.Header.InUse, c.sec.Header.Capacity, ErrCapacity)
	}
	c.items = append(c.items, v)
	c.sec.Header.InUse++
	return len(c.items) - 1, nil
}

// Clear removes every record.
func (c *Collection[T]) Clear() {
	c.items = c.items[:0]
	c.sec.Header.InUse = 0
}

// Verify checks the in-use count and every record's references.
func (c *Collection[T]) Verify(cp *Codeplug) error {
	if int(c.sec.Header.InUse) != len(c.items) {
		return &verify.Error{
			Kind:       verify.CountMismatch,
			Collection: c.name,
			Index:      -1,
			Message:    fmt.Sprintf("header says %d in use, %d records loaded", c.sec.Header.InUse, len(c.items)),
		}
	}
	for i, item := range c.items {
		chk, ok := any(item).(checker)
		if !ok {
			continue
		}
		if err := chk.verify(cp); err != nil {
			return verify.At(err, c.name, i)
		}
	}
	return nil
}

// Write encodes every record into its slot and writes the section back in
// place.
func (c *Collection[T]) Write(w io.WriteSeeker) error {
	id := c.sec.Header.Type
	stride, err := c.sec.ElementSize()
	if err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	size := int(c.sec.Header.ByteSize)
	region := make([]byte, 0, size)
	for i, item := range c.items {
		b, err := item.MarshalBinary()
		if err != nil {
			return &RecordError{Section: id, Index: i, Err: err}
		}
		if len(b) != stride {
			padded, ok := buf.PadTo(b, stride)
			if !ok {
				return &RecordError{Section: id, Index: i, Err: fmt.Errorf("encoded %d bytes, slot is %d: %w", len(b), stride, section.ErrLayout)}
			}
			logger.L.Warn("padding record to slot size", "collection", c.name, "index", i, "size", len(b), "stride", stride)
			b = padded
		}
		region = append(region, b...)
	}
	if len(region) >= size {
		return fmt.Errorf("%s: %d encoded bytes fill the 0x%x byte region: %w", c.name, len(region), size, section.ErrLayout)
	}
	region, _ = buf.PadTo(region, size)
	if err := c.sec.Emit(w, region); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}
	return nil
}

// PairedCollection keeps two collections whose records correspond by
// position, such as zones and their channel lists.
type PairedCollection[T, L Record] struct {
	name    string
	Records *Collection[T]
	Lists   *Collection[L]
}

// Len returns the number of pairs.
func (p *PairedCollection[T, L]) Len() int { return p.Records.Len() }

// At returns pair i for in-place edits.
func (p *PairedCollection[T, L]) At(i int) (*T, *L) { return p.Records.At(i), p.Lists.At(i) }

// Insert appends a record and its list at the same position. Nothing is
// inserted unless both collections have room.
func (p *PairedCollection[T, L]) Insert(rec T, list L) (int, error) {
	if p.Records.Len() != p.Lists.Len() {
		return -1, fmt.Errorf("%s: %d records, %d lists: %w", p.name, p.Records.Len(), p.Lists.Len(), ErrPairMismatch)
	}
	if p.Records.Free() == 0 || p.Lists.Free() == 0 {
		return -1, fmt.Errorf("%s: %w", p.name, ErrCapacity)
	}
	n, err := p.Records.Insert(rec)
	if err != nil {
		return -1, err
	}
	if _, err := p.Lists.Insert(list); err != nil {
		return -1, err
	}
	return n, nil
}

// Clear empties both collections.
func (p *PairedCollection[T, L]) Clear() {
	p.Records.Clear()
	p.Lists.Clear()
}

// Verify checks length parity and then both collections.
func (p *PairedCollection[T, L]) Verify(cp *Codeplug) error {
	if p.Records.sec.Header.InUse != p.Lists.sec.Header.InUse {
		return &verify.Error{
			Kind:       verify.PairMismatch,
			Collection: p.name,
			Index:      -1,
			Message:    fmt.Sprintf("%d %s, %d %s", p.Records.sec.Header.InUse, p.Records.name, p.Lists.sec.Header.InUse, p.Lists.name),
		}
	}
	if err := p.Records.Verify(cp); err != nil {
		return err
	}
	return p.Lists.Verify(cp)
}

// Write writes the records, then the lists.
func (p *PairedCollection[T, L]) Write(w io.WriteSeeker) error {
	if p.Records.Len() != p.Lists.Len() {
		return fmt.Errorf("%s: %w", p.name, ErrPairMismatch)
	}
	if err := p.Records.Write(w); err != nil {
		return err
	}
	return p.Lists.Write(w)
}
