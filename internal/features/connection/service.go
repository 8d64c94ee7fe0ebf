package connection

import (
	"context"
	"fmt"
)

type ConnectionService interface {
	CreateConnection(ctx context.Context, conn *Connection) error
	GetConnection(ctx context.Context, id string) (*Connection, error)
	ListConnections(ctx context.Context) ([]Connection, error)
	UpdateConnection(ctx context.Context, id string, updates map[string]interface{}) error
	DeleteConnection(ctx context.Context, id string) error
}

type ConnectionServiceImpl struct {
	Repo ConnectionRepository
}

func NewConnectionService(repo ConnectionRepository) ConnectionService {
	return &ConnectionServiceImpl{
		Repo: repo,
	}
}

func (s *ConnectionServiceImpl) CreateConnection(ctx context.Context, conn *Connection) error {
	if conn.Name == "" {
		return fmt.Errorf("connection name is required")
	}
	if conn.BaseAPIURL == "" || conn.AccountID == "" || conn.Passcode == "" {
		return fmt.Errorf("base_api_url, account_id and passcode are required")
	}

	return s.Repo.Create(ctx, conn)
}

func (s *ConnectionServiceImpl) GetConnection(ctx context.Context, id string) (*Connection, error) {
	return s.Repo.Get(ctx, id)
}

func (s *ConnectionServiceImpl) ListConnections(ctx context.Context) ([]Connection, error) {
	return s.Repo.List(ctx)
}

func (s *ConnectionServiceImpl) UpdateConnection(ctx context.Context, id string, updates map[string]interface{}) error {
	return s.Repo.Update(ctx, id, updates)
}

func (s *ConnectionServiceImpl) DeleteConnection(ctx context.Context, id string) error {
	return s.Repo.Delete(ctx, id)
}
