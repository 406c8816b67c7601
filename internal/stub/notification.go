package stub

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/healthrecords/healthrecords/internal/domain/notification"
)

func (s *Server) listNotifications(c echo.Context) error {
	userID := currentUser(c).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	notifications := []*notification.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID {
			notifications = append(notifications, n)
		}
	}
	return c.JSON(http.StatusOK, notifications)
}

func (s *Server) unreadNotifications(c echo.Context) error {
	userID := currentUser(c).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	notifications := []*notification.Notification{}
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			notifications = append(notifications, n)
		}
	}
	return c.JSON(http.StatusOK, notifications)
}

func (s *Server) countUnreadNotifications(c echo.Context) error {
	userID := currentUser(c).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return c.JSON(http.StatusOK, count)
}

func (s *Server) getNotification(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	userID := currentUser(c).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}
	return c.JSON(http.StatusOK, n)
}

func (s *Server) markNotificationRead(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	userID := currentUser(c).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.notifications[id]
	if !ok || n.UserID != userID {
		return echo.NewHTTPError(http.StatusNotFound, "notification not found")
	}
	n.IsRead = true
	return c.JSON(http.StatusOK, n)
}

func (s *Server) markAllNotificationsRead(c echo.Context) error {
	userID := currentUser(c).ID
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, n := range s.notifications {
		if n.UserID == userID {
			n.IsRead = true
		}
	}
	return c.NoContent(http.StatusOK)
}
