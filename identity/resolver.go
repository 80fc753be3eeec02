// Package identity derives stable, deterministic URIs for domain entities.
//
// Identity is a pure function of the entity type and its declared key
// fields: resolving the same (type, keys) tuple always yields a
// byte-identical URI, within and across runs. No randomness, no
// timestamps, no counters.
package identity

import (
	"net/url"
	"strings"

	"github.com/shahin-smv93/ontology-graph-db/errors"
)

// Entity type tags with a URI template registered by default. Dataset
// implementations may resolve additional tags; any non-empty tag is
// accepted and used as the path segment verbatim.
const (
	TypeBuilding     = "building"
	TypeAddress      = "address"
	TypeFloor        = "floor"
	TypeMainRoom     = "mainRoom"
	TypeRoom         = "room"
	TypeZone         = "zone"
	TypeDesk         = "desk"
	TypeSensor       = "sensor"
	TypeGateway      = "gateway"
	TypeMeasurement  = "measurement"
	TypeTimeInterval = "timeInterval"
)

// keySeparator joins the encoded key fields of a composite identity.
const keySeparator = "_"

// Resolver derives entity URIs under a configured base namespace.
// The zero value is not usable; construct with NewResolver.
type Resolver struct {
	base string
}

// NewResolver creates a Resolver for the given base namespace.
// The namespace must be an absolute http(s) URI; a trailing slash is
// stripped so resolution is insensitive to it.
func NewResolver(baseNamespace string) (*Resolver, error) {
	base := strings.TrimRight(strings.TrimSpace(baseNamespace), "/")
	if base == "" {
		return nil, errors.NewConfigError("base_namespace", "must not be empty")
	}
	u, err := url.Parse(base)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return nil, errors.NewConfigError("base_namespace", "must be an absolute URI")
	}
	return &Resolver{base: base}, nil
}

// Base returns the normalized base namespace.
func (r *Resolver) Base() string {
	return r.base
}

// Resolve derives the URI for an entity from its type tag and key fields.
// The URI has the shape base/<type>/<key1>_<key2>_..., with each key
// percent-encoded. Returns a MissingFieldError if the type tag, the key
// tuple, or any individual key is empty.
func (r *Resolver) Resolve(entityType string, keys ...string) (string, error) {
	if entityType == "" {
		return "", errors.NewMissingFieldError("entity", "type", "")
	}
	if len(keys) == 0 {
		return "", errors.NewMissingFieldError(entityType, "identity keys", "")
	}

	encoded := make([]string, len(keys))
	for i, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" {
			return "", errors.NewMissingFieldError(entityType, "identity key", "")
		}
		encoded[i] = encodeKey(key)
	}

	return r.base + "/" + entityType + "/" + strings.Join(encoded, keySeparator), nil
}

// encodeKey normalizes a key field value for use in a URI path segment.
// Interior whitespace becomes underscores (matching how upstream datasets
// form composite keys), then the result is percent-encoded.
func encodeKey(key string) string {
	key = strings.Join(strings.Fields(key), "_")
	return url.PathEscape(key)
}
