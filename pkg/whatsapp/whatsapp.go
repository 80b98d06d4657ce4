package whatsapp

import (
	"context"
	"errors"
	"net/url"
	"regexp"
	"strings"

	"github.com/Tejayenduri9/biryani-boys-backend/pkg/config"
	"github.com/Tejayenduri9/biryani-boys-backend/pkg/logger"
)

var (
	errPhoneRequired   = errors.New("whatsapp phone number is required")
	errMessageRequired = errors.New("whatsapp message is required")

	phoneRe = regexp.MustCompile(`^[0-9]{7,15}$`)
)

// Link builds a wa.me deep link that opens a chat with the given phone
// number and the message prefilled. The phone must be digits only, in
// international format without the leading plus.
func Link(phone, message string) (string, error) {
	phone = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(phone), "+"))
	if phone == "" {
		return "", errPhoneRequired
	}
	if !phoneRe.MatchString(phone) {
		return "", errors.New("whatsapp phone must be 7-15 digits in international format")
	}
	if strings.TrimSpace(message) == "" {
		return "", errMessageRequired
	}

	u := url.URL{
		Scheme:   "https",
		Host:     "wa.me",
		Path:     "/" + phone,
		RawQuery: url.Values{"text": []string{message}}.Encode(),
	}
	return u.String(), nil
}

// Dispatcher hands composed order messages to the restaurant's WhatsApp
// number. Delivery is the customer's browser following the deep link, so
// the dispatcher only builds the link and records the handoff.
type Dispatcher struct {
	cfg  config.WhatsAppConfig
	logg *logger.Logger
}

func NewDispatcher(cfg config.WhatsAppConfig, logg *logger.Logger) *Dispatcher {
	return &Dispatcher{cfg: cfg, logg: logg}
}

// Dispatch builds the deep link for the message and logs the handoff.
// Failures here never block the caller's flow.
func (d *Dispatcher) Dispatch(ctx context.Context, message string) (string, error) {
	if d == nil {
		return "", errors.New("whatsapp dispatcher not initialized")
	}
	link, err := Link(d.cfg.Phone, message)
	if err != nil {
		return "", err
	}
	if d.logg != nil {
		d.logg.Info(ctx, "order handed off to whatsapp")
	}
	return link, nil
}
