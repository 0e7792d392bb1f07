package notifier

import (
	"bytes"
	"fmt"
	"net/smtp"
	"text/template"
)

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	FromName string
	From     string
}

// SMTPNotifier delivers notifications over SMTP
type SMTPNotifier struct {
	config SMTPConfig
}

// NewSMTPNotifier creates a new SMTP notifier
func NewSMTPNotifier(config SMTPConfig) *SMTPNotifier {
	return &SMTPNotifier{config: config}
}

func (n *SMTPNotifier) Notify(recipient string, event Event, vars map[string]string) error {
	tmpl, ok := templates[event]
	if !ok {
		return fmt.Errorf("unknown notification event: %s", event)
	}

	body, err := renderTemplate(tmpl.body, vars)
	if err != nil {
		return fmt.Errorf("failed to render notification template: %w", err)
	}
	subject, err := renderTemplate(tmpl.subject, vars)
	if err != nil {
		return fmt.Errorf("failed to render notification subject: %w", err)
	}

	message := n.buildMessage(recipient, subject, body)
	return n.send(recipient, message)
}

func (n *SMTPNotifier) send(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", n.config.Host, n.config.Port)
	auth := smtp.PlainAuth("", n.config.Username, n.config.Password, n.config.Host)

	if err := smtp.SendMail(addr, auth, n.config.From, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}

func (n *SMTPNotifier) buildMessage(to, subject, body string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/plain; charset=\"UTF-8\"\r\n"+
			"\r\n",
		n.config.FromName,
		n.config.From,
		to,
		subject,
	)
	return []byte(headers + body)
}

func renderTemplate(text string, vars map[string]string) (string, error) {
	tmpl, err := template.New("notification").Parse(text)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, vars); err != nil {
		return "", err
	}
	return buf.String(), nil
}

type messageTemplate struct {
	subject string
	body    string
}

var templates = map[Event]messageTemplate{
	EventSaleReceipt: {
		subject: "Seu recibo de compra {{.order_code}}",
		body: `Olá {{.name}},

Obrigado pela sua compra!

Pedido: {{.order_code}}
Total: R$ {{.total}}

Guarde este recibo para trocas.
`,
	},
	EventCreditGranted: {
		subject: "Você recebeu crédito na loja",
		body: `Olá {{.name}},

Um crédito de R$ {{.amount}} foi adicionado à sua conta.
Ele é válido até {{.expires_at}}.
`,
	},
	EventCreditExpiring: {
		subject: "Seu crédito está prestes a expirar",
		body: `Olá {{.name}},

Seu crédito de R$ {{.amount}} expira em {{.expires_at}}.
Visite a loja para aproveitá-lo.
`,
	},
	EventPayoutReady: {
		subject: "Repasse disponível",
		body: `Olá {{.name}},

Seu repasse de R$ {{.amount}} está disponível para retirada.
`,
	},
}
