package config

import (
	"errors"
)

var (
	// ErrEmptyURL error if config webserver.URL is empty.
	ErrEmptyURL = errors.New("toml config webserver.url can not be empty")

	// ErrWebServerPortCanNotBeZero error if config webserver listening port is 0.
	ErrWebServerPortCanNotBeZero = errors.New("toml config webserver.port listening port can not be 0")

	// ErrUnknownGormEngine error if config db.gormEngine is not one of mysql, postgres or sqlite.
	ErrUnknownGormEngine = errors.New("toml config db.gormEngine must be mysql, postgres or sqlite")

	// ErrUnknownSessionStorage error if config webserver.session.storage is not supported.
	ErrUnknownSessionStorage = errors.New("toml config webserver.session.storage must be memory, mysql or postgres")

	// ErrOIDCIssuerMissing error if oidc is enabled without issuer or client id.
	ErrOIDCIssuerMissing = errors.New("toml config oidc.issuerURL and oidc.clientID are required when oidc is enabled")

	// ErrUnknownStrategy error if a settings strategy is neither incremental nor replace-all.
	ErrUnknownStrategy = errors.New("toml config settings strategy must be incremental or replace-all")
)
