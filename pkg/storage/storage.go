// Package storage persists record collections as whole documents. Every
// driver stores one object per collection and replaces it in a single write,
// so readers never observe a partially written collection.
package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrNotExist is returned by Read when the collection was never written.
var ErrNotExist = errors.New("storage: collection does not exist")

const (
	DriverFile  = "file"
	DriverSQL   = "sql"
	DriverRedis = "redis"
	DriverS3    = "s3"
)

// Backend is the byte-level persistence surface shared by every driver.
type Backend interface {
	Driver() string
	Read(ctx context.Context, name string) ([]byte, error)
	Write(ctx context.Context, name string, data []byte) error
	Ping(ctx context.Context) error
	Close() error
}

var validName = regexp.MustCompile(`^[a-z][a-z0-9_-]{0,63}$`)

func checkName(name string) error {
	if !validName.MatchString(name) {
		return fmt.Errorf("storage: invalid collection name %q", name)
	}
	return nil
}
