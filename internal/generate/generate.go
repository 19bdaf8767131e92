// Package generate runs the asset generation stage: each discovered
// generator produces one content string written under the project's
// bundle directory.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/conneroisu/assetforge/internal/errors"
	"github.com/conneroisu/assetforge/internal/logging"
	"github.com/conneroisu/assetforge/internal/project"
	"github.com/conneroisu/assetforge/internal/registry"
)

// Stage writes generator output into the bundle directory.
type Stage struct {
	project project.Context
	logger  logging.Logger
}

// NewStage creates the asset generation stage for a project.
func NewStage(pc project.Context, logger logging.Logger) *Stage {
	return &Stage{
		project: pc,
		logger:  logger,
	}
}

// GenerateAssets invokes each descriptor's producer in the resolved
// order and writes the result to <bundle dir>/<filename>. Output file
// names are not required to be unique: a later generator may
// intentionally overwrite an earlier one's file, which is the
// convention for overriding a default asset. A producer failure aborts
// the stage; files already written remain on disk.
func (s *Stage) GenerateAssets(ctx context.Context, descriptors []registry.GeneratorDescriptor) error {
	bundleDir := s.project.BundleDir()

	for _, descriptor := range descriptors {
		if descriptor.Content == nil {
			return errors.NewContentProductionError(descriptor.Name, nil)
		}

		content, err := descriptor.Content()
		if err != nil {
			return errors.NewContentProductionError(descriptor.Name, err)
		}

		target := filepath.Join(bundleDir, descriptor.OutputFileName)
		if err := os.WriteFile(target, []byte(content), 0644); err != nil {
			return errors.NewIOError("failed to write generated asset "+descriptor.OutputFileName, err)
		}

		s.logger.Info(ctx, "Asset generated",
			"generator", descriptor.Name,
			"order", descriptor.Order,
			"file", descriptor.OutputFileName,
		)
		fmt.Printf("🧩 Generated asset: %s (%s)\n", descriptor.OutputFileName, descriptor.Name)
	}

	return nil
}
