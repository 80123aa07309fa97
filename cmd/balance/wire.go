//go:build wireinject
// +build wireinject

package main

import (
	"context"

	"github.com/google/wire"

	"github.com/cory-johannsen/arena/internal/config"
)

func initializeApp(ctx context.Context, cfg config.Config) (*App, func(), error) {
	wire.Build(
		provideLogger,
		providePresets,
		provideStore,
		provideSimulator,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
