package notification

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/healthrecords/healthrecords/internal/platform/store"
)

// Service is the store-backed notifications view model.
type Service struct {
	client        *Client
	notifications *store.Slice[Notification]
	log           zerolog.Logger
}

func NewService(client *Client, log zerolog.Logger) *Service {
	return &Service{client: client, notifications: store.NewSlice[Notification](), log: log}
}

func (s *Service) Store() *store.Slice[Notification] { return s.notifications }

func (s *Service) Load(ctx context.Context) error {
	seq := s.notifications.Begin()
	notifications, err := s.client.List(ctx)
	if err != nil {
		s.notifications.Fail(seq, err.Error())
		return err
	}
	s.notifications.ApplyList(seq, notifications)
	return nil
}

func (s *Service) LoadUnread(ctx context.Context) error {
	seq := s.notifications.Begin()
	notifications, err := s.client.Unread(ctx)
	if err != nil {
		s.notifications.Fail(seq, err.Error())
		return err
	}
	s.notifications.ApplyList(seq, notifications)
	return nil
}

// UnreadCount asks the backend for the badge count.
func (s *Service) UnreadCount(ctx context.Context) (int64, error) {
	return s.client.CountUnread(ctx)
}

func (s *Service) MarkRead(ctx context.Context, id int64) error {
	updated, err := s.client.MarkRead(ctx, id)
	if err != nil {
		return err
	}
	s.notifications.Patch(func(n Notification) bool { return n.ID == id }, *updated)
	return nil
}

func (s *Service) MarkAllRead(ctx context.Context) error {
	if err := s.client.MarkAllRead(ctx); err != nil {
		return err
	}
	items := s.notifications.Items()
	for i := range items {
		items[i].IsRead = true
	}
	seq := s.notifications.Begin()
	s.notifications.ApplyList(seq, items)
	return nil
}
