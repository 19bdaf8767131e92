// Package deploy applies template descriptors to the project tree
// under their overwrite policy.
package deploy

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/conneroisu/assetforge/internal/errors"
	"github.com/conneroisu/assetforge/internal/logging"
	"github.com/conneroisu/assetforge/internal/project"
	"github.com/conneroisu/assetforge/internal/registry"
)

// Deployer writes configuration templates into the project.
type Deployer struct {
	project project.Context
	logger  logging.Logger
}

// NewDeployer creates a template deployer for the given project.
func NewDeployer(pc project.Context, logger logging.Logger) *Deployer {
	return &Deployer{
		project: pc,
		logger:  logger,
	}
}

// EnsureTemplates deploys each descriptor strictly in sequence. When
// the target file already exists and the descriptor's overwrite flag is
// false, the descriptor is skipped without invoking its producer; with
// overwrite set, the file is rewritten on every run. Parent directories
// are created as needed; the top-level project directories are the
// orchestrator's responsibility. A producer failure aborts the
// remaining templates. Files already written stay on disk.
func (d *Deployer) EnsureTemplates(ctx context.Context, descriptors []registry.TemplateDescriptor) error {
	for _, descriptor := range descriptors {
		if err := d.ensureTemplate(ctx, descriptor); err != nil {
			return err
		}
	}

	return nil
}

func (d *Deployer) ensureTemplate(ctx context.Context, descriptor registry.TemplateDescriptor) error {
	target, err := d.resolveTarget(descriptor.RelativePath)
	if err != nil {
		return err
	}

	if !descriptor.Overwrite {
		if _, statErr := os.Stat(target); statErr == nil {
			d.logger.Debug(ctx, "Template exists, skipping", "path", descriptor.RelativePath)
			return nil
		}
	}

	if descriptor.Content == nil {
		return errors.NewContentProductionError(descriptor.RelativePath, nil)
	}

	content, err := descriptor.Content()
	if err != nil {
		return errors.NewContentProductionError(descriptor.RelativePath, err)
	}

	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return errors.NewIOError("failed to create template directory", err)
	}

	if err := os.WriteFile(target, []byte(content), 0644); err != nil {
		return errors.NewIOError("failed to write template "+descriptor.RelativePath, err)
	}

	d.logger.Info(ctx, "Template deployed", "path", descriptor.RelativePath, "overwrite", descriptor.Overwrite)
	fmt.Printf("📄 Deployed template: %s\n", descriptor.RelativePath)

	return nil
}

// resolveTarget turns a descriptor's relative path into an absolute
// path inside the project, rejecting anything that escapes the root.
func (d *Deployer) resolveTarget(relPath string) (string, error) {
	if relPath == "" {
		return "", errors.ErrInvalidPath(relPath)
	}

	cleaned := filepath.Clean(filepath.FromSlash(relPath))
	if filepath.IsAbs(cleaned) {
		return "", errors.ErrInvalidPath(relPath)
	}

	root := d.project.Root()
	target := filepath.Join(root, cleaned)
	if target != root && !strings.HasPrefix(target, root+string(filepath.Separator)) {
		return "", errors.ErrPathTraversal(relPath)
	}

	return target, nil
}
