// Package config provides type-safe environment variable loading with
// per-type caching using Go generics.
//
// Configuration structs declare their environment mapping with env tags,
// parsed by the caarlos0/env library. A .env file is loaded automatically on
// first use via godotenv.
//
//	type SMTPConfig struct {
//		Host     string `env:"SMTP_HOST,required"`
//		Port     int    `env:"SMTP_PORT" envDefault:"465"`
//		Username string `env:"SMTP_USERNAME,required"`
//	}
//
//	var cfg SMTPConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Each type is parsed once per process lifetime; subsequent Load calls for
// the same type return the cached value. Use MustLoad during startup to fail
// fast on malformed configuration.
package config
