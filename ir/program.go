package ir

// Class is a named container of methods. Its location records the code
// unit the class was loaded from (e.g. "classes.dex" for the primary
// unit of a multi-unit container).
type Class struct {
	name     string
	location string
	methods  []*Method
}

func NewClass(name, location string) *Class {
	return &Class{name: name, location: location}
}

func (c *Class) Name() string {
	return c.name
}

func (c *Class) Location() string {
	return c.location
}

func (c *Class) Methods() []*Method {
	return c.methods
}

func (c *Class) AddMethod(m *Method) {
	c.methods = append(c.methods, m)
}

// FindMethod returns the first method with the given simple name, or
// nil.
func (c *Class) FindMethod(name string) *Method {
	for _, m := range c.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

// Clinit returns the static class initializer, or nil.
func (c *Class) Clinit() *Method {
	return c.FindMethod("<clinit>")
}

// Program is the whole set of loaded classes.
type Program struct {
	classes []*Class
}

func (p *Program) Classes() []*Class {
	return p.classes
}

func (p *Program) AddClass(c *Class) {
	p.classes = append(p.classes, c)
}

// GetClass locates a class by its full name, or returns nil.
func (p *Program) GetClass(name string) *Class {
	for _, c := range p.classes {
		if c.name == name {
			return c
		}
	}
	return nil
}

// ForEachMethod visits every method of every class in layout order.
func (p *Program) ForEachMethod(do func(*Method)) {
	for _, c := range p.classes {
		for _, m := range c.methods {
			do(m)
		}
	}
}

// FindMethod returns the first method matching the simple name across
// all classes, or nil.
func (p *Program) FindMethod(name string) *Method {
	for _, c := range p.classes {
		if m := c.FindMethod(name); m != nil {
			return m
		}
	}
	return nil
}
