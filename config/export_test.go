package config

var ResolveToken = resolveToken //nolint:gochecknoglobals // test export
