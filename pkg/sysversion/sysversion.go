package sysversion

import (
	"context"
	"fmt"

	"github.com/fox-one/pkg/property"
)

const (
	SysVersionKey = "sysversion"
)

func ReadSysVersion(ctx context.Context, property property.Store) (int64, error) {
	v, err := property.Get(ctx, SysVersionKey)
	if err != nil {
		return 0, err
	}
	return v.Int64(), nil
}

func SaveSysVersion(ctx context.Context, property property.Store, version int64) error {
	return property.Save(ctx, SysVersionKey, version)
}

// Ensure fails when the stored schema version is behind want,
// which means migrate has not run for this build yet.
func Ensure(ctx context.Context, property property.Store, want int64) error {
	v, err := ReadSysVersion(ctx, property)
	if err != nil {
		return err
	}

	if v < want {
		return fmt.Errorf("sysversion: db version %d behind required %d, run migrate first", v, want)
	}

	return nil
}
