//go:build wireinject

package main

import (
	"github.com/google/wire"
)

func InitializeApp(args Args) (*App, error) {
	wire.Build(
		ProvideLogger,
		ProvideConfig,
		ProvideRoot,
		ProvideIgnore,
		ProvideCounter,
		ProvideSession,
		ProvideIO,
		wire.Struct(new(App), "*"),
	)
	return nil, nil
}
