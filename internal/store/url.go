package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Raimguhinov/briefing-go/internal/store/file"
	"github.com/Raimguhinov/briefing-go/internal/store/postgres"
	"github.com/Raimguhinov/briefing-go/internal/store/redis"
	"github.com/Raimguhinov/briefing-go/pkg/logger"
	pg "github.com/Raimguhinov/briefing-go/pkg/postgres"
)

// Options carries backend specific settings.
type Options struct {
	PoolMax int
}

// NewFromURL picks the repository backend from the storage URL scheme.
func NewFromURL(ctx context.Context, storageURL string, opts Options, l *logger.Logger) (Repository, error) {
	u, err := url.Parse(storageURL)
	if err != nil {
		return nil, fmt.Errorf("error parsing storage URL: %s", err.Error())
	}

	switch u.Scheme {
	case "file", "":
		path := u.Path
		if u.Opaque != "" {
			path = u.Opaque
		}
		if u.Host != "" {
			path = u.Host + path
		}
		return file.New(path), nil
	case "postgres", "postgresql":
		client, err := pg.New(ctx, l, storageURL, pg.MaxPoolSize(opts.PoolMax))
		if err != nil {
			return nil, fmt.Errorf("store - NewFromURL - postgres.New: %w", err)
		}
		repo, err := postgres.New(ctx, client, l)
		if err != nil {
			client.Close()
			return nil, err
		}
		return repo, nil
	case "redis", "rediss":
		repo, err := redis.NewFromURL(ctx, storageURL, l)
		if err != nil {
			return nil, err
		}
		return repo, nil
	default:
		return nil, fmt.Errorf("no storage provider found for %s:// URL", u.Scheme)
	}
}
