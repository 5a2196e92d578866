// Package domain contains the core business entities for Hugin.
// All entities are owned by a single processing run and are immutable
// once constructed; persistence is delegated to the external stores.
package domain
