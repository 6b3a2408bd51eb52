package db

import "context"

type Querier interface {
	CreateLog(ctx context.Context, arg CreateLogParams) (Log, error)
	ListAllLogs(ctx context.Context, limit int64) ([]Log, error)

	CreateVersion(ctx context.Context, arg CreateVersionParams) (Version, error)
	GetVersion(ctx context.Context, id string) (Version, error)
	GetLatestVersion(ctx context.Context) (Version, error)
	ListVersions(ctx context.Context, limit int64) ([]Version, error)
}

var _ Querier = (*Queries)(nil)
