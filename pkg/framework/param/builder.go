package param

// Builder provides a fluent API for creating parameters
type Builder struct {
	param       *Parameter
	defaultSet  bool
	defaultPlain float64
}

// New creates a new parameter builder. The identifier is the key used in
// persisted state and by host bindings.
func New(id uint32, identifier, name string) *Builder {
	return &Builder{
		param: &Parameter{
			ID:         id,
			Identifier: identifier,
			Name:       name,
			ShortName:  name,
			Kind:       KindContinuous,
			Min:        0,
			Max:        1,
			Flags:      CanAutomate,
		},
	}
}

// ShortName sets the short name
func (b *Builder) ShortName(name string) *Builder {
	b.param.ShortName = name
	return b
}

// Range sets the min and max values
func (b *Builder) Range(min, max float64) *Builder {
	b.param.Min = min
	b.param.Max = max
	return b
}

// Default sets the default value (in plain range, not normalized)
func (b *Builder) Default(value float64) *Builder {
	b.defaultSet = true
	b.defaultPlain = value
	return b
}

// Unit sets the unit string
func (b *Builder) Unit(unit string) *Builder {
	b.param.Unit = unit
	return b
}

// Steps sets the number of discrete positions
func (b *Builder) Steps(count int32) *Builder {
	b.param.StepCount = count
	return b
}

// Flags sets parameter flags
func (b *Builder) Flags(flags uint32) *Builder {
	b.param.Flags = flags
	return b
}

// Toggle creates a boolean parameter
func (b *Builder) Toggle() *Builder {
	b.param.Kind = KindToggle
	b.param.Min = 0
	b.param.Max = 1
	b.param.StepCount = 2
	return b
}

// Items turns the parameter into a choice over the given list. The plain value is the item index.
func (b *Builder) Items(items ...string) *Builder {
	b.param.Kind = KindChoice
	b.param.Items = append([]string(nil), items...)
	b.param.Min = 0
	b.param.Max = float64(len(items) - 1)
	if b.param.Max < 0 {
		b.param.Max = 0
	}
	b.param.StepCount = int32(len(items))
	b.param.Flags |= IsList
	return b
}

// ReadOnly marks the parameter as read-only
func (b *Builder) ReadOnly() *Builder {
	b.param.Flags |= IsReadOnly
	b.param.Flags &^= CanAutomate
	return b
}

// Hidden marks the parameter as hidden
func (b *Builder) Hidden() *Builder {
	b.param.Flags |= IsHidden
	return b
}

// Mapping sets the conversion from plain value to DSP value
func (b *Builder) Mapping(fn MappingFunc) *Builder {
	b.param.mapping = fn
	return b
}

// Formatter sets custom value formatting and parsing
func (b *Builder) Formatter(format func(float64) string, parse func(string) (float64, error)) *Builder {
	b.param.formatFunc = format
	b.param.parseFunc = parse
	return b
}

// Build returns the configured parameter
func (b *Builder) Build() *Parameter {
	p := b.param
	if b.defaultSet {
		p.DefaultValue = p.Normalize(b.defaultPlain)
	}
	p.SetValue(p.DefaultValue)
	p.DefaultValue = p.GetValue()
	return p
}
