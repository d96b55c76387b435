package filter

import (
	"bytes"
	"fmt"
	"io"
	"mime"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"github.com/mikey/phish-detector/internal/config"
	"github.com/mikey/phish-detector/internal/core"
	"github.com/mikey/phish-detector/internal/utils"
	"github.com/mikey/phish-detector/internal/whitelist"
	"go.uber.org/zap"
)

// statusTrusted is stamped on mail from trusted sender domains
const statusTrusted = "Trusted"

// PostfixFilter implements a Postfix content filter that stamps phishing verdicts
type PostfixFilter struct {
	service       *core.DetectorService
	logger        *zap.Logger
	cfg           config.PostfixConfig
	trusted       *whitelist.Checker
	textProcessor *utils.TextProcessor
	maxInputSize  int
	server        *smtp.Server
}

// NewPostfixFilter creates a new Postfix content filter
func NewPostfixFilter(
	service *core.DetectorService,
	logger *zap.Logger,
	cfg config.PostfixConfig,
	trusted *whitelist.Checker,
	textProcessor *utils.TextProcessor,
	maxInputSize int,
) *PostfixFilter {
	if cfg.ModifySubject && cfg.SubjectPrefix == "" {
		cfg.SubjectPrefix = "[PHISHING] "
	}

	return &PostfixFilter{
		service:       service,
		logger:        logger,
		cfg:           cfg,
		trusted:       trusted,
		textProcessor: textProcessor,
		maxInputSize:  maxInputSize,
	}
}

// Start starts the SMTP listener in the background
func (f *PostfixFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})
	f.server.Addr = f.cfg.ListenAddress
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024
	f.server.MaxRecipients = 50

	ln, err := net.Listen("tcp", f.cfg.ListenAddress)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", f.cfg.ListenAddress, err)
	}

	f.logger.Info("Postfix filter started", zap.String("address", ln.Addr().String()))

	go func() {
		if err := f.server.Serve(ln); err != nil && err != smtp.ErrServerClosed {
			f.logger.Error("SMTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Stop stops the SMTP listener
func (f *PostfixFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// filterMessage classifies a raw message and returns it with verdict headers.
// A nil result means the sender was trusted and no analysis ran.
func (f *PostfixFilter) filterMessage(sender string, raw []byte) ([]byte, *core.ClassificationResult, error) {
	msg, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse email message: %w", err)
	}

	from := msg.Header.Get("From")
	if from == "" {
		from = sender
	}

	if f.trusted != nil && (f.trusted.IsTrusted(sender) || f.trusted.IsTrusted(from)) {
		headers := []headerField{{f.cfg.StatusHeader, statusTrusted}}
		return stampMessage(raw, headers, ""), nil, nil
	}

	text, err := extractTextFromMessage(msg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to extract text content: %w", err)
	}
	text = f.textProcessor.ProcessText(text, f.maxInputSize)

	result := f.service.ClassifyEmail(text)

	headers := []headerField{
		{f.cfg.StatusHeader, string(result.Label)},
		{f.cfg.ConfidenceHeader, result.Confidence.String()},
		{f.cfg.ReasonHeader, strings.Join(result.Explanation, " | ")},
	}

	prefix := ""
	if result.Label == core.LabelPhishing && f.cfg.ModifySubject {
		prefix = f.cfg.SubjectPrefix
	}

	return stampMessage(raw, headers, prefix), result, nil
}

// sendToPostfix reinjects the processed email into Postfix
func (f *PostfixFilter) sendToPostfix(sender string, recipients []string, emailData []byte) error {
	postfixAddr := net.JoinHostPort(f.cfg.Address, fmt.Sprint(f.cfg.Port))

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", postfixAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to Postfix: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			continue
		}
		recipientOK = true
	}
	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}
	if _, err := wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		// Already delivered
		f.logger.Warn("QUIT command failed", zap.Error(err))
	}

	return nil
}

type headerField struct {
	name  string
	value string
}

// stampMessage prepends headers to the raw message and, when prefix is set,
// rewrites the Subject. The body is left byte-for-byte intact.
func stampMessage(raw []byte, headers []headerField, prefix string) []byte {
	head, body, sep := splitMessage(raw)

	var out bytes.Buffer
	for _, h := range headers {
		fmt.Fprintf(&out, "%s: %s\r\n", h.name, sanitizeHeaderValue(h.value))
	}

	if prefix != "" {
		head = rewriteSubject(head, prefix)
	}

	out.Write(head)
	out.Write(sep)
	out.Write(body)
	return out.Bytes()
}

// splitMessage separates the header block from the body
func splitMessage(raw []byte) (head, body, sep []byte) {
	if i := bytes.Index(raw, []byte("\r\n\r\n")); i >= 0 {
		return raw[:i+2], raw[i+4:], []byte("\r\n")
	}
	if i := bytes.Index(raw, []byte("\n\n")); i >= 0 {
		return raw[:i+1], raw[i+2:], []byte("\n")
	}
	return raw, nil, nil
}

// rewriteSubject replaces the (possibly folded) Subject header, or adds one
func rewriteSubject(head []byte, prefix string) []byte {
	lines := strings.SplitAfter(string(head), "\n")

	var out strings.Builder
	found := false
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		if found || !strings.HasPrefix(strings.ToLower(line), "subject:") {
			out.WriteString(line)
			continue
		}

		found = true
		value := strings.TrimSpace(line[len("subject:"):])
		for i+1 < len(lines) && (strings.HasPrefix(lines[i+1], " ") || strings.HasPrefix(lines[i+1], "\t")) {
			i++
			value += " " + strings.TrimSpace(lines[i])
		}

		decoded, err := decodeEncodedHeader(value)
		if err != nil {
			decoded = value
		}
		if !strings.HasPrefix(decoded, prefix) {
			decoded = prefix + decoded
		}
		fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", decoded))
	}

	if !found {
		fmt.Fprintf(&out, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", strings.TrimSpace(prefix)))
	}
	return []byte(out.String())
}

func sanitizeHeaderValue(v string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(v)
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *PostfixFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(_ *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{filter: b.filter}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *PostfixFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = nil
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data classifies the message, then rejects it or passes it back to Postfix
func (s *smtpSession) Data(r io.Reader) error {
	logger := s.filter.logger

	raw, err := io.ReadAll(r)
	if err != nil {
		logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	stamped, result, err := s.filter.filterMessage(s.sender, raw)
	if err != nil {
		logger.Error("Failed to filter message", zap.Error(err), zap.String("sender", s.sender))
		return err
	}

	if result == nil {
		logger.Info("Skipped analysis for trusted sender", zap.String("sender", s.sender))
	} else {
		if result.Label == core.LabelPhishing && s.filter.cfg.BlockPhishing {
			logger.Info("Rejecting phishing email",
				zap.String("request_id", result.RequestID),
				zap.String("sender", s.sender),
				zap.Stringer("confidence", result.Confidence))
			return &smtp.SMTPError{
				Code:         550,
				EnhancedCode: smtp.EnhancedCode{5, 7, 1},
				Message:      fmt.Sprintf("Rejected as phishing (confidence: %s)", result.Confidence),
			}
		}

		logger.Info("Processed email",
			zap.String("request_id", result.RequestID),
			zap.String("sender", s.sender),
			zap.String("label", string(result.Label)),
			zap.Stringer("confidence", result.Confidence))
	}

	if !s.filter.cfg.Enabled {
		logger.Warn("Postfix reinjection disabled, message dropped after analysis")
		return nil
	}

	if err := s.filter.sendToPostfix(s.sender, s.recipients, stamped); err != nil {
		logger.Error("Failed to send email back to Postfix", zap.Error(err), zap.String("sender", s.sender))
		return err
	}

	return nil
}

// Logout handles SMTP logout
func (s *smtpSession) Logout() error {
	return nil
}
