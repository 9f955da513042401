package mail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const loginNotificationTemplate = "login_notification"

type LoginNotification struct {
	Email     string
	FirstName string
	IPAddress string
	UserAgent string
	Time      time.Time
}

func (s *Service) SendLoginNotification(ctx context.Context, n LoginNotification) error {
	device := ParseDevice(n.UserAgent)

	data := TemplateData{
		"AppName":   s.appName,
		"FirstName": n.FirstName,
		"IPAddress": displayIP(n.IPAddress),
		"Device":    fmt.Sprintf("%s (%s)", device.Device, device.DeviceType),
		"Browser":   device.Browser,
		"OS":        device.OS,
		"Time":      n.Time.UTC().Format("Monday, 02 January 2006 15:04 MST"),
		"HelpURL":   s.config.HelpURL,
		"ResetURL":  s.config.ResetURL,
	}

	subject := fmt.Sprintf("New sign-in to your %s account", s.appName)
	if err := s.SendTemplate(ctx, loginNotificationTemplate, []string{n.Email}, subject, data); err != nil {
		s.logger.Warn("login notification not delivered", zap.Error(err))
		return err
	}
	return nil
}

func displayIP(ip string) string {
	switch ip {
	case "":
		return "Unknown"
	case "127.0.0.1", "::1":
		return ip + " (local)"
	default:
		return ip
	}
}
