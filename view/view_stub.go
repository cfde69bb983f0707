//go:build !ebiten

package view

import (
	"context"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/utils"
)

// Run reports that the window requires the ebiten build tag
func Run(context.Context, *engine.Loop, utils.ViewConfig) error {
	return errors.New("[view.Run] the window requires building with the 'ebiten' tag")
}
