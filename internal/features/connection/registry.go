package connection

import (
	"context"
	"strings"

	"go.uber.org/zap"
)

const uploadPath = "/1/upload"

// Registry resolves destination credentials for the dispatcher and derives
// the upload endpoint per payload kind.
type Registry interface {
	GetCredentials(ctx context.Context, idOrName string) *Credentials
	ResolveEndpoint(baseURL, kind string) string
}

type RegistryImpl struct {
	Repo   ConnectionRepository
	Logger *zap.Logger
}

func NewRegistry(repo ConnectionRepository, logger *zap.Logger) Registry {
	return &RegistryImpl{
		Repo:   repo,
		Logger: logger,
	}
}

// GetCredentials looks a connection up by id first, then by name as a
// fallback key. Returns nil when neither matches; completeness of the
// credentials is the dispatcher's concern, not ours.
func (r *RegistryImpl) GetCredentials(ctx context.Context, idOrName string) *Credentials {
	conn, err := r.Repo.Get(ctx, idOrName)
	if err != nil {
		conn, err = r.Repo.GetByName(ctx, idOrName)
	}
	if err != nil {
		if !IsNotFound(err) {
			r.Logger.Debug("connection lookup failed", zap.String("connection", idOrName), zap.Error(err))
		}
		return nil
	}

	return &Credentials{
		BaseURL:   conn.BaseAPIURL,
		AccountID: conn.AccountID,
		Passcode:  conn.Passcode,
	}
}

// ResolveEndpoint strips any existing upload-path suffix from baseURL and
// appends the path for the given payload kind. Both kinds currently share
// one path; the switch stays so they can diverge without touching callers.
func (r *RegistryImpl) ResolveEndpoint(baseURL, kind string) string {
	base := strings.TrimRight(baseURL, "/")
	base = strings.TrimSuffix(base, uploadPath)

	switch kind {
	case "event":
		return base + uploadPath
	default: // profile
		return base + uploadPath
	}
}
