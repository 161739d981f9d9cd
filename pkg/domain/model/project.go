package model

import (
	"time"

	"github.com/projektwerk/stagehand/pkg/domain/types"
)

// Project represents a project-management record. The numeric ID is
// assigned sequentially by the repository and never changes afterwards;
// title and type code changes drive a RENAME fan-out, archived flag
// transitions drive ARCHIVE/UNARCHIVE.
type Project struct {
	ID        int64
	Title     string
	TypeCode  types.TypeCode
	Archived  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
