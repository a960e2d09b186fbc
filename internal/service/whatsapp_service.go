package service

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/model"
)

// WhatsAppService builds wa.me deep links for the outbound messaging flows.
// No message is ever sent by the server; the client opens the returned URL.
type WhatsAppService struct {
	cfg *config.Config
}

func NewWhatsAppService(cfg *config.Config) *WhatsAppService {
	return &WhatsAppService{cfg: cfg}
}

// normalizePhone strips everything but digits and prefixes the configured
// country code only when the result is a bare 10-digit local number. Numbers
// of any other length pass through as-is.
func (s *WhatsAppService) normalizePhone(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) == 10 {
		return s.cfg.CountryCode + digits
	}
	return digits
}

// MessageLink returns a click-to-chat URL for the phone with the message
// prefilled.
func (s *WhatsAppService) MessageLink(phone, message string) string {
	return fmt.Sprintf("https://wa.me/%s?text=%s", s.normalizePhone(phone), url.QueryEscape(message))
}

// AbsenceAlert builds the parent notification for a student marked absent.
func (s *WhatsAppService) AbsenceAlert(student model.Student, date string) string {
	message := fmt.Sprintf(
		"*%s ALERT* ⚠️\n\nDear Parent, your child *%s* (Roll: %d) is *ABSENT* today (%s).\n\nIf you have a reason, please inform us. Regular attendance is important for progress.\n\n%s",
		strings.ToUpper(s.cfg.ClassName), student.Name, student.RollNumber, date, s.cfg.ClassName,
	)
	return s.MessageLink(student.Phone, message)
}

// FeeReminder builds the outstanding-fee nudge, naming the current status.
func (s *WhatsAppService) FeeReminder(student model.Student, month0, year int, status model.PaymentStatus) string {
	message := fmt.Sprintf(
		"*Fee Reminder:* Dear Parent, fee for *%s* (%s %d) is *%s*. Amount: ₹%s. Please pay soon.",
		student.Name, monthName(month0), year,
		strings.ToUpper(string(status)), formatAmount(student.MonthlyFee),
	)
	return s.MessageLink(student.Phone, message)
}

// FeeReceipt builds the payment confirmation message.
func (s *WhatsAppService) FeeReceipt(student model.Student, record model.FeeRecord) string {
	message := fmt.Sprintf(
		"*Fee Receipt:* Thank you! Received ₹%s for %s (%s %d).",
		formatAmount(record.Amount), student.Name, monthName(record.Month), record.Year,
	)
	return s.MessageLink(student.Phone, message)
}

// BirthdayAlerts builds one link per configured admin phone announcing
// tomorrow's birthdays.
func (s *WhatsAppService) BirthdayAlerts(students []model.Student, dateLabel string) []string {
	if len(students) == 0 {
		return []string{}
	}

	names := make([]string, 0, len(students))
	for _, st := range students {
		names = append(names, fmt.Sprintf("• %s (%s)", st.Name, st.Grade))
	}
	message := fmt.Sprintf(
		"*%s BIRTHDAY ALERT* 🎂\n\nHello Admin,\n\nTomorrow (%s) is the birthday of the following student(s):\n\n%s\n\nKindly prepare the celebrations or greetings accordingly.",
		strings.ToUpper(s.cfg.ClassName), dateLabel, strings.Join(names, "\n"),
	)

	links := make([]string, 0, len(s.cfg.AdminAlertPhones))
	for _, phone := range s.cfg.AdminAlertPhones {
		links = append(links, s.MessageLink(phone, message))
	}
	return links
}

func monthName(month0 int) string {
	if month0 < 0 || month0 > 11 {
		return "Unknown"
	}
	return time.Month(month0 + 1).String()
}

// formatAmount renders a fee without trailing zeros (600, not 600.00).
func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}
