// Package project defines the immutable project context: the project
// root and the standard derived paths every pipeline stage composes
// against. The context is pure data; it never touches the file system.
package project

import (
	"path/filepath"

	"github.com/conneroisu/assetforge/internal/errors"
)

// Default directory names under the project root.
const (
	DefaultBundleDirName = "CssBundle"
	DefaultTypesDirName  = "Types"
	DefaultWebRootName   = "wwwroot"

	// NodeModulesDirName is the dependency cache directory the
	// coordinator checks before installing.
	NodeModulesDirName = "node_modules"
)

// Context is an immutable value holding the project root and the
// derived standard subpaths. Construct it once per run with NewContext.
type Context struct {
	root          string
	bundleDirName string
	typesDirName  string
	webRootName   string
}

// Option customizes a Context at construction time.
type Option func(*Context)

// WithBundleDir overrides the asset bundle directory name.
func WithBundleDir(name string) Option {
	return func(c *Context) {
		if name != "" {
			c.bundleDirName = name
		}
	}
}

// WithTypesDir overrides the types directory name.
func WithTypesDir(name string) Option {
	return func(c *Context) {
		if name != "" {
			c.typesDirName = name
		}
	}
}

// WithWebRoot overrides the web root directory name.
func WithWebRoot(name string) Option {
	return func(c *Context) {
		if name != "" {
			c.webRootName = name
		}
	}
}

// NewContext creates a project context rooted at root. The root is
// resolved to an absolute path so that every derived path is stable
// regardless of the process working directory.
func NewContext(root string, opts ...Option) (Context, error) {
	if root == "" {
		root = "."
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return Context{}, errors.ErrInvalidPath(root)
	}

	c := Context{
		root:          abs,
		bundleDirName: DefaultBundleDirName,
		typesDirName:  DefaultTypesDirName,
		webRootName:   DefaultWebRootName,
	}

	for _, opt := range opts {
		opt(&c)
	}

	return c, nil
}

// Root returns the absolute project root.
func (c Context) Root() string {
	return c.root
}

// BundleDir returns the directory generator output is written to.
func (c Context) BundleDir() string {
	return filepath.Join(c.root, c.bundleDirName)
}

// TypesDir returns the generated-types directory.
func (c Context) TypesDir() string {
	return filepath.Join(c.root, c.typesDirName)
}

// WebRoot returns the web root directory the bundler targets.
func (c Context) WebRoot() string {
	return filepath.Join(c.root, c.webRootName)
}

// WebRootCSSDir returns the css output directory under the web root.
func (c Context) WebRootCSSDir() string {
	return filepath.Join(c.WebRoot(), "css")
}

// WebRootJSDir returns the js output directory under the web root.
func (c Context) WebRootJSDir() string {
	return filepath.Join(c.WebRoot(), "js")
}

// NodeModulesDir returns the dependency cache directory.
func (c Context) NodeModulesDir() string {
	return filepath.Join(c.root, NodeModulesDirName)
}

// StandardDirs returns the directories the orchestrator ensures exist
// before any stage writes files.
func (c Context) StandardDirs() []string {
	return []string{
		c.BundleDir(),
		c.TypesDir(),
		c.WebRootCSSDir(),
		c.WebRootJSDir(),
	}
}
