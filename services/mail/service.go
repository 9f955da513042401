package mail

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	htmlTemplate "html/template"
	"path/filepath"
	textTemplate "text/template"
	"time"

	"github.com/tech-arch1tect/basekit/config"
	"github.com/tech-arch1tect/basekit/services/logging"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

//go:embed templates/*.html templates/*.txt
var defaultTemplates embed.FS

// Sender delivers built messages. *mail.Client satisfies it.
type Sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

type Service struct {
	config        *config.MailConfig
	appName       string
	sender        Sender
	htmlTemplates *htmlTemplate.Template
	textTemplates *textTemplate.Template
	logger        *logging.Service
}

type TemplateData map[string]any

func NewService(cfg *config.MailConfig, appName string, logger *logging.Service) (*Service, error) {
	logger.Info("initializing mail service",
		zap.String("host", cfg.Host),
		zap.Int("port", cfg.Port),
		zap.String("encryption", cfg.Encryption),
		zap.String("from_address", cfg.FromAddress))

	client, err := newClient(cfg)
	if err != nil {
		logger.Error("failed to create mail client",
			zap.Error(err),
			zap.String("host", cfg.Host),
			zap.Int("port", cfg.Port))
		return nil, err
	}

	return NewServiceWithSender(cfg, appName, client, logger)
}

// NewServiceWithSender builds a service around an existing transport.
func NewServiceWithSender(cfg *config.MailConfig, appName string, sender Sender, logger *logging.Service) (*Service, error) {
	if cfg.FromAddress == "" {
		logger.Error("mail service initialization failed: FROM_ADDRESS is required")
		return nil, fmt.Errorf("MAIL_FROM_ADDRESS is required")
	}

	service := &Service{
		config:  cfg,
		appName: appName,
		sender:  sender,
		logger:  logger,
	}

	if err := service.loadTemplates(); err != nil {
		logger.Error("failed to load mail templates", zap.Error(err))
		return nil, fmt.Errorf("failed to load mail templates: %w", err)
	}

	logger.Info("mail service initialized successfully")
	return service, nil
}

func newClient(cfg *config.MailConfig) (*mail.Client, error) {
	clientOpts := []mail.Option{
		mail.WithPort(cfg.Port),
	}

	switch cfg.Encryption {
	case "ssl":
		clientOpts = append(clientOpts, mail.WithSSL())
	case "none":
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.NoTLS))
	default:
		clientOpts = append(clientOpts, mail.WithTLSPortPolicy(mail.TLSMandatory))
	}

	if cfg.Username != "" {
		clientOpts = append(clientOpts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username))
	}
	if cfg.Password != "" {
		clientOpts = append(clientOpts, mail.WithPassword(cfg.Password))
	}

	client, err := mail.NewClient(cfg.Host, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail client: %w", err)
	}
	return client, nil
}

// loadTemplates parses the embedded defaults, then any templates found in
// TemplatesDir, which replace defaults of the same name.
func (s *Service) loadTemplates() error {
	var err error
	s.htmlTemplates, err = htmlTemplate.ParseFS(defaultTemplates, "templates/*.html")
	if err != nil {
		return fmt.Errorf("failed to parse default HTML templates: %w", err)
	}
	s.textTemplates, err = textTemplate.ParseFS(defaultTemplates, "templates/*.txt")
	if err != nil {
		return fmt.Errorf("failed to parse default text templates: %w", err)
	}

	if s.config.TemplatesDir == "" {
		return nil
	}

	s.logger.Info("loading mail templates", zap.String("templates_dir", s.config.TemplatesDir))

	htmlPattern := filepath.Join(s.config.TemplatesDir, "*.html")
	if matches, _ := filepath.Glob(htmlPattern); len(matches) > 0 {
		if s.htmlTemplates, err = s.htmlTemplates.ParseGlob(htmlPattern); err != nil {
			return fmt.Errorf("failed to parse HTML templates: %w", err)
		}
	}

	textPattern := filepath.Join(s.config.TemplatesDir, "*.txt")
	if matches, _ := filepath.Glob(textPattern); len(matches) > 0 {
		if s.textTemplates, err = s.textTemplates.ParseGlob(textPattern); err != nil {
			return fmt.Errorf("failed to parse text templates: %w", err)
		}
	}

	s.logger.Info("mail templates loaded successfully",
		zap.Int("html_templates", len(s.htmlTemplates.Templates())),
		zap.Int("text_templates", len(s.textTemplates.Templates())))
	return nil
}

func (s *Service) NewMessage() (*mail.Msg, error) {
	message := mail.NewMsg()

	if s.config.FromName != "" {
		if err := message.FromFormat(s.config.FromName, s.config.FromAddress); err != nil {
			return nil, fmt.Errorf("failed to set FROM address: %w", err)
		}
		return message, nil
	}

	if err := message.From(s.config.FromAddress); err != nil {
		return nil, fmt.Errorf("failed to set FROM address: %w", err)
	}
	return message, nil
}

func (s *Service) Send(ctx context.Context, message *mail.Msg) error {
	startTime := time.Now()
	err := s.sender.DialAndSendWithContext(ctx, message)
	duration := time.Since(startTime)

	if err != nil {
		s.logger.Error("failed to send email",
			zap.Error(err),
			zap.Duration("attempt_duration", duration))
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.logger.Info("email sent successfully", zap.Duration("send_duration", duration))
	return nil
}

func (s *Service) SendTemplate(ctx context.Context, templateName string, to []string, subject string, data TemplateData) error {
	s.logger.Info("sending template email",
		zap.String("template", templateName),
		zap.Int("recipients", len(to)),
		zap.String("subject", subject))

	message, err := s.NewMessage()
	if err != nil {
		return err
	}

	if err := message.To(to...); err != nil {
		return fmt.Errorf("failed to set TO addresses: %w", err)
	}

	message.Subject(subject)

	html, text, err := s.render(templateName, data)
	if err != nil {
		s.logger.Error("failed to render template",
			zap.Error(err),
			zap.String("template", templateName))
		return fmt.Errorf("failed to render template: %w", err)
	}

	switch {
	case html != "" && text != "":
		message.SetBodyString(mail.TypeTextHTML, html)
		message.AddAlternativeString(mail.TypeTextPlain, text)
	case html != "":
		message.SetBodyString(mail.TypeTextHTML, html)
	default:
		message.SetBodyString(mail.TypeTextPlain, text)
	}

	return s.Send(ctx, message)
}

func (s *Service) render(templateName string, data TemplateData) (string, string, error) {
	var html, text string

	if tmpl := s.htmlTemplates.Lookup(templateName + ".html"); tmpl != nil {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", "", fmt.Errorf("failed to execute HTML template: %w", err)
		}
		html = buf.String()
	}

	if tmpl := s.textTemplates.Lookup(templateName + ".txt"); tmpl != nil {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return "", "", fmt.Errorf("failed to execute text template: %w", err)
		}
		text = buf.String()
	}

	if html == "" && text == "" {
		return "", "", fmt.Errorf("template '%s' not found", templateName)
	}
	return html, text, nil
}

// TemplateNames lists every loaded template, defaults included.
func (s *Service) TemplateNames() []string {
	var names []string
	for _, t := range s.htmlTemplates.Templates() {
		names = append(names, t.Name())
	}
	for _, t := range s.textTemplates.Templates() {
		names = append(names, t.Name())
	}
	return names
}
