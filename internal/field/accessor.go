package field

import "fmt"

// Accessor is a named, typed handle into an owner of type O.
type Accessor[O any] interface {
	// Name is the dotted path of the accessor relative to the namespace it was resolved from.
	Name() string

	Kind() Kind

	// ReadOnly reports whether Set can never succeed.
	ReadOnly() bool

	Get(owner *O) (any, error)

	// Set writes value into owner. It returns ErrReadOnly for read-only
	// accessors and leaves owner untouched on any error.
	Set(owner *O, value any) error

	// Complex returns the child namespace of a complex accessor.
	Complex() (Namespace[O], bool)
}

// Namespace maps child names to accessors over the same owner.
type Namespace[O any] interface {
	Child(name string) (Accessor[O], bool)

	// ChildNames lists the children that exist for owner. A nil owner lists
	// the statically known children.
	ChildNames(owner *O) []string
}

// leaf is a value-carrying accessor.
type leaf[O any, V Scalar] struct {
	name string
	get  func(*O) (V, error)
	set  func(*O, V) error
}

// Leaf creates a leaf accessor from infallible getter and setter functions.
// A nil setter makes the accessor read-only.
func Leaf[O any, V Scalar](name string, get func(*O) V, set func(*O, V)) Accessor[O] {
	l := &leaf[O, V]{
		name: name,
		get:  func(o *O) (V, error) { return get(o), nil },
	}
	if set != nil {
		l.set = func(o *O, v V) error {
			set(o, v)
			return nil
		}
	}
	return l
}

// FallibleLeaf creates a leaf accessor whose getter and setter may fail at
// apply time, for properties that depend on the live owner's shape.
func FallibleLeaf[O any, V Scalar](name string, get func(*O) (V, error), set func(*O, V) error) Accessor[O] {
	return &leaf[O, V]{name: name, get: get, set: set}
}

func (l *leaf[O, V]) Name() string   { return l.name }
func (l *leaf[O, V]) Kind() Kind     { return KindOf[V]() }
func (l *leaf[O, V]) ReadOnly() bool { return l.set == nil }

func (l *leaf[O, V]) Get(owner *O) (any, error) {
	v, err := l.get(owner)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", l.name, err)
	}
	return v, nil
}

func (l *leaf[O, V]) Set(owner *O, value any) error {
	if l.set == nil {
		return fmt.Errorf("set %s: %w", l.name, ErrReadOnly)
	}
	v, ok := value.(V)
	if !ok {
		return fmt.Errorf("set %s to %T: %w", l.name, value, ErrTypeMismatch)
	}
	if err := l.set(owner, v); err != nil {
		return fmt.Errorf("set %s: %w", l.name, err)
	}
	return nil
}

func (l *leaf[O, V]) Complex() (Namespace[O], bool) { return nil, false }

func (l *leaf[O, V]) String() string {
	return fmt.Sprintf("%s(%s)", l.name, l.Kind())
}

// complexField is an accessor from X to a sub-object Y that exposes the
// accessors of Y, lifted over X.
type complexField[X, Y any] struct {
	name string
	get  func(*X) (Y, error)
	set  func(*X, Y) error
	ns   Namespace[Y]
}

// Complex creates a complex accessor from X to Y whose children are the
// accessors of ns. A nil setter makes the accessor, and every path through it,
// read-only.
func Complex[X, Y any](name string, get func(*X) Y, set func(*X, Y), ns Namespace[Y]) Accessor[X] {
	c := &complexField[X, Y]{
		name: name,
		get:  func(x *X) (Y, error) { return get(x), nil },
		ns:   ns,
	}
	if set != nil {
		c.set = func(x *X, y Y) error {
			set(x, y)
			return nil
		}
	}
	return c
}

func (c *complexField[X, Y]) Name() string   { return c.name }
func (c *complexField[X, Y]) Kind() Kind     { return KindComplex }
func (c *complexField[X, Y]) ReadOnly() bool { return c.set == nil }

func (c *complexField[X, Y]) Get(owner *X) (any, error) {
	y, err := c.get(owner)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", c.name, err)
	}
	return y, nil
}

func (c *complexField[X, Y]) Set(owner *X, value any) error {
	if c.set == nil {
		return fmt.Errorf("set %s: %w", c.name, ErrReadOnly)
	}
	y, ok := value.(Y)
	if !ok {
		return fmt.Errorf("set %s to %T: %w", c.name, value, ErrTypeMismatch)
	}
	return c.set(owner, y)
}

func (c *complexField[X, Y]) Complex() (Namespace[X], bool) {
	return &liftedNamespace[X, Y]{outer: c, ns: c.ns}, true
}

func (c *complexField[X, Y]) String() string {
	return fmt.Sprintf("%s(complex)", c.name)
}

// andThen composes outer (X→Y) with inner (an accessor over Y) into an
// accessor over X. Writes are read-modify-write through outer.
func andThen[X, Y any](outer *complexField[X, Y], inner Accessor[Y]) Accessor[X] {
	return &composed[X, Y]{outer: outer, inner: inner}
}

type composed[X, Y any] struct {
	outer *complexField[X, Y]
	inner Accessor[Y]
}

func (c *composed[X, Y]) Name() string {
	if c.outer.name == "" {
		return c.inner.Name()
	}
	return c.outer.name + "." + c.inner.Name()
}

func (c *composed[X, Y]) Kind() Kind { return c.inner.Kind() }

func (c *composed[X, Y]) ReadOnly() bool {
	return c.outer.set == nil || c.inner.ReadOnly()
}

func (c *composed[X, Y]) Get(owner *X) (any, error) {
	y, err := c.outer.get(owner)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", c.Name(), err)
	}
	return c.inner.Get(&y)
}

func (c *composed[X, Y]) Set(owner *X, value any) error {
	if c.outer.set == nil {
		return fmt.Errorf("set %s: %w", c.Name(), ErrReadOnly)
	}
	y, err := c.outer.get(owner)
	if err != nil {
		return fmt.Errorf("set %s: %w", c.Name(), err)
	}
	if err := c.inner.Set(&y, value); err != nil {
		return err
	}
	return c.outer.set(owner, y)
}

func (c *composed[X, Y]) Complex() (Namespace[X], bool) {
	ns, ok := c.inner.Complex()
	if !ok {
		return nil, false
	}
	return &liftedNamespace[X, Y]{outer: c.outer, ns: ns}, true
}

func (c *composed[X, Y]) String() string {
	return fmt.Sprintf("%s(%s)", c.Name(), c.Kind())
}

// liftedNamespace exposes the children of a namespace over Y as accessors over X.
type liftedNamespace[X, Y any] struct {
	outer *complexField[X, Y]
	ns    Namespace[Y]
}

func (l *liftedNamespace[X, Y]) Child(name string) (Accessor[X], bool) {
	child, ok := l.ns.Child(name)
	if !ok {
		return nil, false
	}
	return andThen(l.outer, child), true
}

func (l *liftedNamespace[X, Y]) ChildNames(owner *X) []string {
	if owner == nil {
		return l.ns.ChildNames(nil)
	}
	y, err := l.outer.get(owner)
	if err != nil {
		return nil
	}
	return l.ns.ChildNames(&y)
}

// Root returns the identity complex accessor over ns. Children resolved from
// the root are the accessors of ns themselves.
func Root[O any](ns Namespace[O]) Accessor[O] {
	return &root[O]{ns: ns}
}

type root[O any] struct {
	ns Namespace[O]
}

func (r *root[O]) Name() string   { return "" }
func (r *root[O]) Kind() Kind     { return KindComplex }
func (r *root[O]) ReadOnly() bool { return true }

func (r *root[O]) Get(owner *O) (any, error) { return *owner, nil }

func (r *root[O]) Set(owner *O, value any) error {
	return fmt.Errorf("set root: %w", ErrReadOnly)
}

func (r *root[O]) Complex() (Namespace[O], bool) { return r.ns, true }

func (r *root[O]) String() string { return "root" }
