package registry

// funcGenerator adapts plain values and a content function to the
// Generator contract.
type funcGenerator struct {
	name     string
	fileName string
	content  func() (string, error)
}

func (g *funcGenerator) Name() string                { return g.name }
func (g *funcGenerator) OutputFileName() string      { return g.fileName }
func (g *funcGenerator) GetContent() (string, error) { return g.content() }

// NewGenerator builds a Generator from plain values. Useful when a
// generator has no state worth a dedicated type.
func NewGenerator(name, outputFileName string, content func() (string, error)) Generator {
	return &funcGenerator{name: name, fileName: outputFileName, content: content}
}

// RegisterGeneratorFunc registers a stateless generator on a registry
// from plain values.
func (r *Registry) RegisterGeneratorFunc(order int, name, outputFileName string, content func() (string, error)) {
	gen := NewGenerator(name, outputFileName, content)
	r.RegisterGenerator(order, name, func() (Generator, error) {
		return gen, nil
	})
}
