// Package registry implements the explicit discovery registry for
// content generators and configuration templates. Registrations are
// made from the composition root (typically init functions in the
// project's generator packages); discovery is a pure function of the
// registered list and never touches the file system.
package registry

import (
	"sort"
	"sync"

	"github.com/conneroisu/assetforge/internal/errors"
)

// Generator is the contract a content generator satisfies: one named
// content string written under the asset bundle directory.
type Generator interface {
	Name() string
	OutputFileName() string
	GetContent() (string, error)
}

// GeneratorFactory constructs a Generator. Factories run once per
// pipeline run, at discovery time.
type GeneratorFactory func() (Generator, error)

// GeneratorDescriptor is a materialized generator: its execution order,
// identity, output file name, and content producer. Order is not
// required to be unique; ties preserve registration order.
type GeneratorDescriptor struct {
	Order          int
	Name           string
	OutputFileName string
	Content        func() (string, error)
}

// TemplateDescriptor declares a configuration template: a relative
// target path inside the project, an overwrite policy, and a content
// producer invoked lazily at deployment time.
type TemplateDescriptor struct {
	RelativePath string
	Overwrite    bool
	Content      func() (string, error)
}

type generatorRegistration struct {
	order   int
	seq     int
	name    string
	factory GeneratorFactory
}

// Registry holds generator and template registrations for one project.
type Registry struct {
	mutex      sync.RWMutex
	generators []generatorRegistration
	templates  []TemplateDescriptor
	nextSeq    int
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// RegisterGenerator registers a generator factory with an execution
// order. The name is used in diagnostics when the factory fails.
func (r *Registry) RegisterGenerator(order int, name string, factory GeneratorFactory) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.generators = append(r.generators, generatorRegistration{
		order:   order,
		seq:     r.nextSeq,
		name:    name,
		factory: factory,
	})
	r.nextSeq++
}

// RegisterTemplate registers a template descriptor. Templates are
// deployed in registration order.
func (r *Registry) RegisterTemplate(descriptor TemplateDescriptor) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.templates = append(r.templates, descriptor)
}

// DiscoverGenerators materializes all registered generators as
// descriptors sorted ascending by order, stable on ties by
// registration sequence. A factory that fails or returns nil aborts
// discovery with an instantiation error before any stage runs.
func (r *Registry) DiscoverGenerators() ([]GeneratorDescriptor, error) {
	r.mutex.RLock()
	registrations := make([]generatorRegistration, len(r.generators))
	copy(registrations, r.generators)
	r.mutex.RUnlock()

	sort.SliceStable(registrations, func(i, j int) bool {
		return registrations[i].order < registrations[j].order
	})

	descriptors := make([]GeneratorDescriptor, 0, len(registrations))
	for _, reg := range registrations {
		if reg.factory == nil {
			return nil, errors.NewInstantiationError(reg.name, nil)
		}

		gen, err := reg.factory()
		if err != nil {
			return nil, errors.NewInstantiationError(reg.name, err)
		}
		if gen == nil {
			return nil, errors.NewInstantiationError(reg.name, nil)
		}

		descriptors = append(descriptors, GeneratorDescriptor{
			Order:          reg.order,
			Name:           gen.Name(),
			OutputFileName: gen.OutputFileName(),
			Content:        gen.GetContent,
		})
	}

	return descriptors, nil
}

// DiscoverTemplates returns template descriptors in registration
// order.
func (r *Registry) DiscoverTemplates() []TemplateDescriptor {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	result := make([]TemplateDescriptor, len(r.templates))
	copy(result, r.templates)
	return result
}

// GeneratorCount returns the number of registered generators.
func (r *Registry) GeneratorCount() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.generators)
}

// TemplateCount returns the number of registered templates.
func (r *Registry) TemplateCount() int {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return len(r.templates)
}

// Default is the process-wide registry populated by package init
// functions in the composition root.
var Default = NewRegistry()

// RegisterGenerator registers a generator factory on the default
// registry.
func RegisterGenerator(order int, name string, factory GeneratorFactory) {
	Default.RegisterGenerator(order, name, factory)
}

// RegisterTemplate registers a template descriptor on the default
// registry.
func RegisterTemplate(descriptor TemplateDescriptor) {
	Default.RegisterTemplate(descriptor)
}
